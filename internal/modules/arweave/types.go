package arweave

import "errors"

// PublishDTO is the request body of the publish endpoint. Language is the only
// optional field.
type PublishDTO struct {
	Content     string `json:"content"     binding:"required"`
	Description string `json:"description" binding:"required"`
	AuthorLogin string `json:"authorLogin" binding:"required"`
	Filename    string `json:"filename"    binding:"required"`
	Language    string `json:"language"`
}

// Manifest is the JSON payload written to permanent storage. Immutable once
// constructed; built fresh for every publish attempt.
type Manifest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Author      string `json:"author"`
	Filename    string `json:"filename"`
	Language    string `json:"language"`
	Platform    string `json:"platform"`
	Timestamp   string `json:"timestamp"`
	Type        string `json:"type"`
}

// Result identifies the stored manifest.
type Result struct {
	ArweaveID string `json:"arweaveId"`
	URL       string `json:"url"`
}

// Tag is a discovery tag attached to the storage transaction.
type Tag struct {
	Name  string
	Value string
}

var (
	ErrMissingFields     = errors.New("missing required fields: content, description, authorLogin, filename")
	ErrConfiguration     = errors.New("signing credential not configured")
	ErrInsufficientFunds = errors.New("insufficient funds for upload")
	ErrNetwork           = errors.New("network error during upload")
	ErrUpstream          = errors.New("storage upload failed")
)
