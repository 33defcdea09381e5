package handler

import (
	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type InsightHandler struct {
	uc usecase.ExtractionUsecase
}

func NewInsightHandler(uc usecase.ExtractionUsecase) *InsightHandler {
	return &InsightHandler{uc: uc}
}

func (h *InsightHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	jobs := r.Group("/jobs")
	jobs.Post("/:job_id/requirements", h.ExtractJobRequirements)
	jobs.Get("/:job_id/requirements", h.GetJobRequirements)
	jobs.Get("/:job_id/skills", h.ExtractJobSkills)

	resumes := r.Group("/resumes")
	resumes.Post("/:resume_id/insights", h.ExtractResumeInsights)
	resumes.Get("/:resume_id/insights", h.GetResumeInsights)
}

func (h *InsightHandler) ExtractJobRequirements(c fiber.Ctx) error {
	jobID, err := parseIDParam(c, "job_id")
	if err != nil {
		return err
	}
	out, err := h.uc.ExtractJobRequirements(c.Context(), jobID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobRequirementsResponse(out))
}

func (h *InsightHandler) GetJobRequirements(c fiber.Ctx) error {
	jobID, err := parseIDParam(c, "job_id")
	if err != nil {
		return err
	}
	out, err := h.uc.FindJobRequirements(c.Context(), jobID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobRequirementsResponse(out))
}

func (h *InsightHandler) ExtractJobSkills(c fiber.Ctx) error {
	jobID, err := parseIDParam(c, "job_id")
	if err != nil {
		return err
	}
	skills, err := h.uc.ExtractJobSkills(c.Context(), jobID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSkillsResponse(skills))
}

func (h *InsightHandler) ExtractResumeInsights(c fiber.Ctx) error {
	resumeID, err := parseIDParam(c, "resume_id")
	if err != nil {
		return err
	}
	out, err := h.uc.ExtractResumeInsights(c.Context(), resumeID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewResumeInsightsResponse(out))
}

func (h *InsightHandler) GetResumeInsights(c fiber.Ctx) error {
	resumeID, err := parseIDParam(c, "resume_id")
	if err != nil {
		return err
	}
	out, err := h.uc.FindResumeInsights(c.Context(), resumeID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewResumeInsightsResponse(out))
}
