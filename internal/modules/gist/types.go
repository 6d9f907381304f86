package gist

import "errors"

// Record is an immutable snapshot of a fetched gist, reduced to its first
// file. Field names mirror the public API payload.
type Record struct {
	Description     string `json:"description"`
	AuthorLogin     string `json:"authorLogin"`
	AuthorAvatarURL string `json:"authorAvatarUrl"`
	Content         string `json:"content"`
	Filename        string `json:"filename"`
	Language        string `json:"language"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

// FetchDTO is the request body of the gist retrieval endpoint.
type FetchDTO struct {
	GistID string `json:"gistId" binding:"required"`
}

// upstream GitHub API shapes, trimmed to the fields in use.
type upstreamGist struct {
	Description string                  `json:"description"`
	Owner       upstreamOwner           `json:"owner"`
	Files       map[string]upstreamFile `json:"files"`
	CreatedAt   string                  `json:"created_at"`
	UpdatedAt   string                  `json:"updated_at"`
}

type upstreamOwner struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

type upstreamFile struct {
	Filename string `json:"filename"`
	Language string `json:"language"`
	Content  string `json:"content"`
}

var (
	ErrInvalidIdentifier = errors.New("invalid gist identifier")
	ErrNotFound          = errors.New("gist not found")
	ErrRateLimited       = errors.New("github api rate limit exceeded")
	ErrUpstream          = errors.New("github api error")
)
