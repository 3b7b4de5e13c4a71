package dto

import (
	"time"

	"github.com/noah-isme/sharebin-api/internal/models"
)

// CreateShareRequest is the body of the create action.
type CreateShareRequest struct {
	Content       string  `json:"content" validate:"max=1048576"`
	Title         *string `json:"title" validate:"omitempty,max=200"`
	Syntax        string  `json:"syntax" validate:"omitempty,max=32"`
	Expiration    string  `json:"expiration" validate:"omitempty,max=16"`
	Password      *string `json:"password" validate:"omitempty,max=256"`
	BurnAfterRead bool    `json:"burn_after_read"`
}

// UploadShareForm carries the multipart fields sent next to an uploaded file.
type UploadShareForm struct {
	Title         *string `form:"title" validate:"omitempty,max=200"`
	Expiration    string  `form:"expiration" validate:"omitempty,max=16"`
	Password      *string `form:"password" validate:"omitempty,max=256"`
	BurnAfterRead bool    `form:"burn_after_read"`
}

// VerifyShareRequest is the body of the verify action.
type VerifyShareRequest struct {
	Password string `json:"password"`
}

// CreateShareResponse is returned by the create action.
type CreateShareResponse struct {
	PasteID       string `json:"paste_id"`
	URL           string `json:"url"`
	Protected     bool   `json:"protected"`
	BurnAfterRead bool   `json:"burn_after_read"`
}

// UploadShareResponse is returned by the upload action.
type UploadShareResponse struct {
	CreateShareResponse
	DirectURL   string             `json:"direct_url"`
	FileName    string             `json:"file_name"`
	FileSize    int64              `json:"file_size"`
	ContentType models.ContentType `json:"content_type"`
}

// ShareMetadata is what a gated share discloses before its password is checked.
// It has no content or file fields at all.
type ShareMetadata struct {
	ID            string     `json:"id"`
	Title         *string    `json:"title,omitempty"`
	Syntax        string     `json:"syntax"`
	ExpiresAt     *time.Time `json:"expires_at"`
	CreatedAt     time.Time  `json:"created_at"`
	Protected     bool       `json:"protected"`
	BurnAfterRead bool       `json:"burn_after_read"`
}

// ShareView is the full disclosure of a share.
type ShareView struct {
	ID            string             `json:"id"`
	Content       string             `json:"content"`
	Syntax        string             `json:"syntax"`
	Title         *string            `json:"title,omitempty"`
	ExpiresAt     *time.Time         `json:"expires_at"`
	CreatedAt     time.Time          `json:"created_at"`
	Views         int64              `json:"views"`
	Protected     bool               `json:"protected"`
	BurnAfterRead bool               `json:"burn_after_read"`
	Burned        bool               `json:"burned"`
	ContentType   models.ContentType `json:"content_type"`
	FilePath      *string            `json:"file_path,omitempty"`
	FileName      *string            `json:"file_name,omitempty"`
	FileSize      *int64             `json:"file_size,omitempty"`
	FileType      *string            `json:"file_type,omitempty"`
	DirectURL     string             `json:"direct_url,omitempty"`
	// FileData carries the bytes of a burned file share; its blob is gone afterwards.
	FileData []byte `json:"file_data,omitempty"`
}

// Disclosure is the outcome of reading a share: either gated metadata or a full view.
type Disclosure struct {
	Metadata *ShareMetadata
	View     *ShareView
}

// Gated reports whether the content was withheld pending a password.
func (d *Disclosure) Gated() bool {
	return d != nil && d.Metadata != nil
}

// Payload returns whichever half of the disclosure is populated.
func (d *Disclosure) Payload() interface{} {
	if d.Gated() {
		return d.Metadata
	}
	return d.View
}

// RawContent is a share's payload as bytes for the raw and img actions.
type RawContent struct {
	ContentType string
	FileName    string
	Body        []byte
	Burned      bool
}

// ListSharesResponse wraps the caller's recent shares.
type ListSharesResponse struct {
	Pastes []models.ShareSummary `json:"pastes"`
	Count  int                   `json:"count"`
}

// IssuedAPIKey is returned once when a key is created; Key is never shown again.
type IssuedAPIKey struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Key       string    `json:"key"`
	KeyPrefix string    `json:"key_prefix"`
	CreatedAt time.Time `json:"created_at"`
}
