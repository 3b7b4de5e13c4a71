package models

import "time"

// ContentType classifies whether a share's text content or its blob is authoritative.
type ContentType string

const (
	ContentTypeText     ContentType = "text"
	ContentTypeImage    ContentType = "image"
	ContentTypeDocument ContentType = "document"
	ContentTypeArchive  ContentType = "archive"
)

// IsFile reports whether the share's payload lives in the blob store.
func (t ContentType) IsFile() bool {
	return t == ContentTypeImage || t == ContentTypeDocument || t == ContentTypeArchive
}

// DefaultSyntax is applied when a share names no highlighting language.
const DefaultSyntax = "plaintext"

var syntaxes = map[string]struct{}{
	"plaintext": {}, "bash": {}, "c": {}, "cpp": {}, "csharp": {}, "css": {}, "dart": {},
	"diff": {}, "dockerfile": {}, "go": {}, "graphql": {}, "html": {}, "ini": {}, "java": {},
	"javascript": {}, "json": {}, "kotlin": {}, "lua": {}, "makefile": {}, "markdown": {},
	"nginx": {}, "php": {}, "powershell": {}, "python": {}, "r": {}, "ruby": {}, "rust": {},
	"scala": {}, "sql": {}, "swift": {}, "toml": {}, "typescript": {}, "xml": {}, "yaml": {},
}

// NormalizeSyntax maps a requested syntax onto the supported set, falling back to plaintext.
func NormalizeSyntax(raw string) string {
	if _, ok := syntaxes[raw]; ok {
		return raw
	}
	return DefaultSyntax
}

// Share is one paste or uploaded file together with its access-control state.
type Share struct {
	ID            string      `db:"id" json:"id"`
	Content       string      `db:"content" json:"content"`
	Title         *string     `db:"title" json:"title,omitempty"`
	Syntax        string      `db:"syntax" json:"syntax"`
	ContentType   ContentType `db:"content_type" json:"content_type"`
	FilePath      *string     `db:"file_path" json:"file_path,omitempty"`
	FileName      *string     `db:"file_name" json:"file_name,omitempty"`
	FileSize      *int64      `db:"file_size" json:"file_size,omitempty"`
	FileType      *string     `db:"file_type" json:"file_type,omitempty"`
	PasswordHash  *string     `db:"password_hash" json:"-"`
	BurnAfterRead bool        `db:"burn_after_read" json:"burn_after_read"`
	Views         int64       `db:"views" json:"views"`
	ExpiresAt     *time.Time  `db:"expires_at" json:"expires_at,omitempty"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
	UserID        *string     `db:"user_id" json:"user_id,omitempty"`
}

// IsExpired reports whether the share has passed its expiry at now. Expiry is inclusive.
func (s *Share) IsExpired(now time.Time) bool {
	return s.ExpiresAt != nil && !s.ExpiresAt.After(now)
}

// IsProtected reports whether a password gates disclosure.
func (s *Share) IsProtected() bool {
	return s.PasswordHash != nil && *s.PasswordHash != ""
}

// OwnedBy reports whether userID owns the share.
func (s *Share) OwnedBy(userID string) bool {
	return s.UserID != nil && userID != "" && *s.UserID == userID
}

// BlobPath returns the blob key for file shares and an empty string otherwise.
func (s *Share) BlobPath() string {
	if !s.ContentType.IsFile() || s.FilePath == nil {
		return ""
	}
	return *s.FilePath
}

// ShareSummary is the metadata-only projection used for listings.
type ShareSummary struct {
	ID            string      `db:"id" json:"id"`
	Title         *string     `db:"title" json:"title,omitempty"`
	Syntax        string      `db:"syntax" json:"syntax"`
	ContentType   ContentType `db:"content_type" json:"content_type"`
	FileName      *string     `db:"file_name" json:"file_name,omitempty"`
	FileSize      *int64      `db:"file_size" json:"file_size,omitempty"`
	Protected     bool        `db:"protected" json:"protected"`
	BurnAfterRead bool        `db:"burn_after_read" json:"burn_after_read"`
	Views         int64       `db:"views" json:"views"`
	ExpiresAt     *time.Time  `db:"expires_at" json:"expires_at,omitempty"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
}

// ExpiredShare identifies a row removed by the reaper.
type ExpiredShare struct {
	ID       string  `db:"id"`
	FilePath *string `db:"file_path"`
}
