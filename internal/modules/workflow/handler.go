package workflow

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/gitglyph/core/internal/modules/arweave"
	"github.com/gitglyph/core/internal/modules/gist"
	"github.com/gitglyph/core/internal/modules/mint"
	"github.com/gitglyph/core/internal/pkg/response"
)

// GistLoader resolves an identifier to a gist record when a session is
// created.
type GistLoader interface {
	Fetch(ctx context.Context, identifier string) (gist.Record, error)
}

// CreateDTO starts a workflow session. Wallet is optional at creation; mint
// requires it.
type CreateDTO struct {
	GistID string `json:"gistId" binding:"required"`
	Wallet string `json:"wallet"`
}

type sessionResponse struct {
	ID string `json:"id"`
	Snapshot
}

type Handler struct {
	reg    *Registry
	loader GistLoader
}

func NewHandler(reg *Registry, loader GistLoader) *Handler {
	return &Handler{reg: reg, loader: loader}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/workflow")
	g.POST("", h.create)
	g.GET("/:id", h.status)
	g.POST("/:id/publish", h.publish)
	g.POST("/:id/mint", h.mint)
	g.POST("/:id/recheck", h.recheck)
	g.POST("/:id/reset", h.reset)
	g.DELETE("/:id", h.remove)
}

// POST /workflow
func (h *Handler) create(c *gin.Context) {
	var dto CreateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Gist ID is required")
		return
	}

	record, err := h.loader.Fetch(c.Request.Context(), dto.GistID)
	if err != nil {
		gist.WriteError(c, err)
		return
	}

	session := h.reg.Create(record, dto.Wallet)
	response.Created(c, sessionResponse{ID: session.ID, Snapshot: session.Controller.Snapshot()})
}

// GET /workflow/:id
func (h *Handler) status(c *gin.Context) {
	session, ok := h.reg.Get(c.Param("id"))
	if !ok {
		response.NotFoundMsg(c, "Workflow session not found")
		return
	}
	response.OK(c, sessionResponse{ID: session.ID, Snapshot: session.Controller.Snapshot()})
}

// POST /workflow/:id/publish
func (h *Handler) publish(c *gin.Context) {
	session, ok := h.reg.Get(c.Param("id"))
	if !ok {
		response.NotFoundMsg(c, "Workflow session not found")
		return
	}

	snapshot, err := session.Controller.Publish(c.Request.Context())
	if err != nil {
		h.writeActionError(c, err)
		return
	}
	response.OK(c, sessionResponse{ID: session.ID, Snapshot: snapshot})
}

// POST /workflow/:id/mint
func (h *Handler) mint(c *gin.Context) {
	session, ok := h.reg.Get(c.Param("id"))
	if !ok {
		response.NotFoundMsg(c, "Workflow session not found")
		return
	}

	snapshot, err := session.Controller.Mint(c.Request.Context())
	if err != nil {
		h.writeActionError(c, err)
		return
	}
	response.Accepted(c, sessionResponse{ID: session.ID, Snapshot: snapshot})
}

// POST /workflow/:id/recheck
func (h *Handler) recheck(c *gin.Context) {
	session, ok := h.reg.Get(c.Param("id"))
	if !ok {
		response.NotFoundMsg(c, "Workflow session not found")
		return
	}

	snapshot, err := session.Controller.Recheck()
	if err != nil {
		h.writeActionError(c, err)
		return
	}
	response.Accepted(c, sessionResponse{ID: session.ID, Snapshot: snapshot})
}

// POST /workflow/:id/reset
func (h *Handler) reset(c *gin.Context) {
	session, ok := h.reg.Get(c.Param("id"))
	if !ok {
		response.NotFoundMsg(c, "Workflow session not found")
		return
	}

	snapshot, err := session.Controller.Reset()
	if err != nil {
		h.writeActionError(c, err)
		return
	}
	response.OK(c, sessionResponse{ID: session.ID, Snapshot: snapshot})
}

// DELETE /workflow/:id
func (h *Handler) remove(c *gin.Context) {
	h.reg.Delete(c.Param("id"))
	response.NoContent(c)
}

// writeActionError maps controller and collaborator failures onto HTTP
// statuses. Collaborator failures already moved the workflow to the error
// state; the mapped status mirrors the underlying cause.
func (h *Handler) writeActionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrBusy), errors.Is(err, ErrInvalidState), errors.Is(err, ErrMissingPublishData):
		response.Conflict(c, err.Error())
	case errors.Is(err, ErrWalletRequired):
		response.BadRequest(c, err.Error())
	case errors.Is(err, arweave.ErrMissingFields),
		errors.Is(err, arweave.ErrInsufficientFunds),
		errors.Is(err, arweave.ErrNetwork),
		errors.Is(err, arweave.ErrConfiguration),
		errors.Is(err, arweave.ErrUpstream):
		arweave.WriteError(c, err)
	case errors.Is(err, mint.ErrWrongNetwork), errors.Is(err, mint.ErrSubmissionRejected):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
