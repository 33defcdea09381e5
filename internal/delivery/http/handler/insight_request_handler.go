package handler

import (
	"context"
	"errors"
	"strings"

	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/pkg/response"
	"talent-match/internal/worker"

	"github.com/gofiber/fiber/v3"
)

type RequestPublisher interface {
	Publish(ctx context.Context, req worker.Request) (worker.Request, error)
}

// InsightRequestHandler queues extraction and matching for the worker
// instead of running them inside the request.
type InsightRequestHandler struct {
	pub RequestPublisher
}

func NewInsightRequestHandler(pub RequestPublisher) *InsightRequestHandler {
	return &InsightRequestHandler{pub: pub}
}

func (h *InsightRequestHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/insight-requests", h.Enqueue)
}

func (h *InsightRequestHandler) Enqueue(c fiber.Ctx) error {
	if h.pub == nil {
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Queue not configured", nil, nil)
	}

	var in dto.InsightRequest
	if err := c.Bind().Body(&in); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	req, err := h.pub.Publish(c.Context(), worker.Request{
		Type:     strings.ToLower(strings.TrimSpace(in.Type)),
		JobID:    in.JobID,
		ResumeID: in.ResumeID,
	})
	if err != nil {
		if errors.Is(err, worker.ErrInvalidRequest) {
			return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
		}
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Queue unavailable", nil, err)
	}

	return response.Success(c, fiber.StatusAccepted, response.MessageAccepted, dto.InsightRequestAccepted{
		RequestID: req.ID,
		Type:      req.Type,
	})
}
