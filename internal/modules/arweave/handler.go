package arweave

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/gitglyph/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/arweave", h.publish)
}

// POST /arweave
func (h *Handler) publish(c *gin.Context) {
	var dto PublishDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, ErrMissingFields.Error())
		return
	}

	result, err := h.svc.Publish(c.Request.Context(), dto)
	if err != nil {
		WriteError(c, err)
		return
	}
	response.OK(c, result)
}

// WriteError maps the publish failure taxonomy onto HTTP statuses.
func WriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMissingFields):
		response.BadRequest(c, err.Error())
	case errors.Is(err, ErrInsufficientFunds):
		response.PaymentRequired(c, "Insufficient funds for upload")
	case errors.Is(err, ErrNetwork):
		response.ServiceUnavailable(c, "Network error during upload")
	case errors.Is(err, ErrConfiguration):
		response.InternalErrorMsg(c, "Server configuration error")
	default:
		response.InternalErrorMsg(c, "Failed to upload to Arweave")
	}
}
