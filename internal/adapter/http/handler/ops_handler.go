package handler

import (
	"fmt"

	"banking-core/internal/adapter/http/dto"
	"banking-core/internal/core/ports"
	"banking-core/pkg/apperror"
	"banking-core/pkg/response"

	"github.com/gin-gonic/gin"
)

// OutboxHandler exposes read-only outbox remediation endpoints.
type OutboxHandler struct {
	outbox ports.OutboxRepository
}

func NewOutboxHandler(outbox ports.OutboxRepository) *OutboxHandler {
	return &OutboxHandler{outbox: outbox}
}

// ListFailed handles GET /ops/outbox/failed?limit=N.
func (h *OutboxHandler) ListFailed(c *gin.Context) {
	var q dto.FailedEventsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.ErrValidation("limit must be an integer between 1 and 500"))
		return
	}

	events, err := h.outbox.ListFailed(c.Request.Context(), q.EffectiveLimit())
	if err != nil {
		response.Error(c, apperror.ErrDatabaseError(fmt.Errorf("list failed outbox events: %w", err)))
		return
	}

	out := make([]dto.FailedEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, dto.NewFailedEventResponse(e))
	}
	response.OK(c, out)
}
