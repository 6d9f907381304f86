package gist

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/gitglyph/core/internal/pkg/response"
)

// Responses stay fresh on shared caches for five minutes and may be served
// stale for ten while revalidating.
const cacheControlHeader = "public, s-maxage=300, stale-while-revalidate=600"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/gist", h.fetch)
}

// POST /gist
func (h *Handler) fetch(c *gin.Context) {
	var dto FetchDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Gist ID is required")
		return
	}

	record, err := h.svc.Fetch(c.Request.Context(), dto.GistID)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.Header("Cache-Control", cacheControlHeader)
	response.OK(c, record)
}

// WriteError maps the fetch failure taxonomy onto HTTP statuses. Shared with
// the workflow handler, which fetches gists when creating sessions.
func WriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidIdentifier):
		response.BadRequest(c, err.Error())
	case errors.Is(err, ErrNotFound):
		response.NotFoundMsg(c, "Gist not found")
	case errors.Is(err, ErrRateLimited):
		response.TooManyRequests(c, "API rate limit exceeded")
	default:
		response.InternalErrorMsg(c, "Failed to fetch gist data")
	}
}
