package handler

import (
	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type MatchHandler struct {
	uc usecase.MatchingUsecase
}

func NewMatchHandler(uc usecase.MatchingUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/jobs")
	grp.Post("/:job_id/resumes/:resume_id/match", h.ComputeMatch)
	grp.Get("/:job_id/resumes/:resume_id/match", h.GetMatch)
}

func (h *MatchHandler) ComputeMatch(c fiber.Ctx) error {
	jobID, resumeID, err := parsePair(c)
	if err != nil {
		return err
	}
	view, err := h.uc.ComputeMatch(c.Context(), jobID, resumeID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchResponse(view))
}

func (h *MatchHandler) GetMatch(c fiber.Ctx) error {
	jobID, resumeID, err := parsePair(c)
	if err != nil {
		return err
	}
	view, err := h.uc.FindMatch(c.Context(), jobID, resumeID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchResponse(view))
}

func parsePair(c fiber.Ctx) (int64, int64, error) {
	jobID, err := parseIDParam(c, "job_id")
	if err != nil {
		return 0, 0, err
	}
	resumeID, err := parseIDParam(c, "resume_id")
	if err != nil {
		return 0, 0, err
	}
	return jobID, resumeID, nil
}
