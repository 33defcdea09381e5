package dto

import (
	"time"

	"talent-match/internal/domain/insight"

	"github.com/google/uuid"
)

type SkillResponse struct {
	Skill  string `json:"skill"`
	Weight int    `json:"weight,omitempty"`
}

type JobRequirementsResponse struct {
	ID         uuid.UUID       `json:"id"`
	JobID      int64           `json:"job_id"`
	Degree     string          `json:"degree"`
	Major      string          `json:"major"`
	Skills     []SkillResponse `json:"skills"`
	Experience string          `json:"experience"`
	Language   string          `json:"language"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type ResumeInsightsResponse struct {
	ID         uuid.UUID       `json:"id"`
	ResumeID   int64           `json:"resume_id"`
	Degree     string          `json:"degree"`
	Major      string          `json:"major"`
	Skills     []SkillResponse `json:"skills"`
	Experience string          `json:"experience"`
	Language   string          `json:"language"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func NewSkillsResponse(in []insight.Skill) []SkillResponse {
	out := make([]SkillResponse, 0, len(in))
	for _, s := range in {
		out = append(out, SkillResponse{Skill: s.Skill, Weight: s.Weight})
	}
	return out
}

func NewJobRequirementsResponse(r insight.JobRequirements) JobRequirementsResponse {
	return JobRequirementsResponse{
		ID:         r.ID,
		JobID:      r.JobID,
		Degree:     r.Degree,
		Major:      r.Major,
		Skills:     NewSkillsResponse(r.Skills),
		Experience: r.Experience,
		Language:   r.Language,
		UpdatedAt:  r.UpdatedAt,
	}
}

func NewResumeInsightsResponse(r insight.ResumeInsights) ResumeInsightsResponse {
	return ResumeInsightsResponse{
		ID:         r.ID,
		ResumeID:   r.ResumeID,
		Degree:     r.Degree,
		Major:      r.Major,
		Skills:     NewSkillsResponse(r.Skills),
		Experience: r.Experience,
		Language:   r.Language,
		UpdatedAt:  r.UpdatedAt,
	}
}
