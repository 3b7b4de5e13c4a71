package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sharebin-api/internal/dto"
	"github.com/noah-isme/sharebin-api/internal/middleware"
	"github.com/noah-isme/sharebin-api/internal/models"
	"github.com/noah-isme/sharebin-api/internal/service"
	appErrors "github.com/noah-isme/sharebin-api/pkg/errors"
	"github.com/noah-isme/sharebin-api/pkg/response"
)

const (
	immutableCache = "public, max-age=31536000, immutable"
	multipartSlack = 1 << 20
)

type shareService interface {
	Create(ctx context.Context, req dto.CreateShareRequest, caller *models.Caller) (*dto.CreateShareResponse, error)
	Upload(ctx context.Context, form dto.UploadShareForm, upload service.ShareUpload, caller *models.Caller) (*dto.UploadShareResponse, error)
	Disclose(ctx context.Context, id string, password *string) (*dto.Disclosure, error)
	Raw(ctx context.Context, id string) (*dto.RawContent, error)
	Image(ctx context.Context, id string) (*dto.RawContent, error)
	Embed(ctx context.Context, id string) (*dto.ShareView, error)
	Delete(ctx context.Context, id string, caller *models.Caller) error
	List(ctx context.Context, caller *models.Caller) (*dto.ListSharesResponse, error)
}

// ShareHandler serves the share API and the direct-link routes.
type ShareHandler struct {
	service       shareService
	apiPrefix     string
	maxUploadSize int64
}

// NewShareHandler constructs the handler.
func NewShareHandler(svc shareService, apiPrefix string, maxUploadSize int64) *ShareHandler {
	return &ShareHandler{service: svc, apiPrefix: apiPrefix, maxUploadSize: maxUploadSize}
}

// Handle godoc
// @Summary Share API
// @Description Dispatches create, upload, get, verify, raw, img, list and delete.
// @Tags Shares
// @Accept json
// @Produce json
// @Param action path string true "create|upload|get|raw|img|list|delete"
// @Param id query string false "Share ID"
// @Param verify query string false "1 to verify a password (POST get)"
// @Success 200 {object} dto.ShareView
// @Success 201 {object} dto.CreateShareResponse
// @Failure 401 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 410 {object} response.ErrorBody
// @Failure 429 {object} response.ErrorBody
// @Router /{action} [get]
func (h *ShareHandler) Handle(c *gin.Context) {
	switch action := middleware.ActionFromContext(c); action {
	case models.ActionCreate:
		h.create(c)
	case models.ActionUpload:
		h.upload(c)
	case models.ActionGet:
		h.get(c)
	case models.ActionVerifyGet:
		h.verify(c)
	case models.ActionRaw:
		h.raw(c)
	case models.ActionImg:
		h.img(c)
	case models.ActionList:
		h.list(c)
	case models.ActionDelete:
		h.delete(c)
	case models.ActionUnknown:
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "unknown action"))
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, fmt.Sprintf("unhandled action %s", action)))
	}
}

func (h *ShareHandler) create(c *gin.Context) {
	var req dto.CreateShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid JSON body"))
		return
	}
	result, err := h.service.Create(c.Request.Context(), req, callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

func (h *ShareHandler) upload(c *gin.Context) {
	if h.maxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize+multipartSlack)
	}
	var form dto.UploadShareForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, uploadError(err, "invalid upload payload"))
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, uploadError(err, "file is required"))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file"))
		return
	}
	defer src.Close()

	reader, ok := src.(io.ReadSeeker)
	if !ok {
		buf, readErr := io.ReadAll(src)
		if readErr != nil {
			response.Error(c, appErrors.Wrap(readErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to buffer file"))
			return
		}
		reader = bytes.NewReader(buf)
	}
	upload := service.ShareUpload{
		FileName: fileHeader.Filename,
		Size:     fileHeader.Size,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Content:  reader,
	}
	result, err := h.service.Upload(c.Request.Context(), form, upload, callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

func uploadError(err error, message string) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return appErrors.ErrPayloadTooLarge
	}
	return appErrors.Clone(appErrors.ErrValidation, message)
}

func (h *ShareHandler) get(c *gin.Context) {
	disclosure, err := h.service.Disclose(c.Request.Context(), shareID(c), nil)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, disclosure.Payload())
}

func (h *ShareHandler) verify(c *gin.Context) {
	var req dto.VerifyShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "password is required"))
		return
	}
	disclosure, err := h.service.Disclose(c.Request.Context(), shareID(c), &req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, disclosure.Payload())
}

func (h *ShareHandler) raw(c *gin.Context) {
	content, err := h.service.Raw(c.Request.Context(), shareID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	writeContent(c, content)
}

func (h *ShareHandler) img(c *gin.Context) {
	content, err := h.service.Image(c.Request.Context(), shareID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	if content.Burned {
		c.Header("Cache-Control", "no-store")
	} else {
		c.Header("Cache-Control", immutableCache)
	}
	writeContent(c, content)
}

func writeContent(c *gin.Context, content *dto.RawContent) {
	disposition := "attachment"
	if inlineSafe(content.ContentType) {
		disposition = "inline"
	}
	if content.FileName != "" {
		disposition = fmt.Sprintf("%s; filename=%q", disposition, content.FileName)
	}
	c.Header("Content-Disposition", disposition)
	c.Header("X-Content-Type-Options", "nosniff")
	c.Data(http.StatusOK, content.ContentType, content.Body)
}

// inlineSafe reports whether a stored type can render on this origin without
// running script: raster images and plain text. Everything else downloads.
func inlineSafe(contentType string) bool {
	base, _, _ := strings.Cut(contentType, ";")
	base = strings.ToLower(strings.TrimSpace(base))
	switch {
	case base == "text/plain":
		return true
	case base == "image/svg+xml":
		return false
	default:
		return strings.HasPrefix(base, "image/")
	}
}

func (h *ShareHandler) list(c *gin.Context) {
	result, err := h.service.List(c.Request.Context(), callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

func (h *ShareHandler) delete(c *gin.Context) {
	id := shareID(c)
	if err := h.service.Delete(c.Request.Context(), id, callerFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"success": true, "id": id})
}

// Page godoc
// @Summary Share page link
// @Description Redirects to the get action for the share.
// @Tags Links
// @Param id path string true "Share ID"
// @Success 302
// @Router /p/{id} [get]
func (h *ShareHandler) Page(c *gin.Context) {
	c.Redirect(http.StatusFound, h.apiPrefix+"/get?id="+url.QueryEscape(c.Param("id")))
}

// Embed godoc
// @Summary Embeddable share view
// @Description Read-only view; password-protected and burn-after-read shares are refused.
// @Tags Links
// @Produce json
// @Param id path string true "Share ID"
// @Success 200 {object} dto.ShareView
// @Failure 403 {object} response.ErrorBody
// @Router /embed/{id} [get]
func (h *ShareHandler) Embed(c *gin.Context) {
	view, err := h.service.Embed(c.Request.Context(), shareID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}
