package dto

import (
	"time"

	"talent-match/internal/domain/insight"

	"github.com/google/uuid"
)

type MatchJobSummary struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
}

type MatchResumeSummary struct {
	ID            int64  `json:"id"`
	CandidateName string `json:"candidate_name"`
	Title         string `json:"title"`
}

// MatchResponse renders scores with exactly two decimals, e.g. "0.80".
type MatchResponse struct {
	ID         uuid.UUID          `json:"id"`
	Degree     string             `json:"degree"`
	Major      string             `json:"major"`
	Skill      string             `json:"skill"`
	Experience string             `json:"experience"`
	Language   string             `json:"language"`
	Overall    string             `json:"overall"`
	Job        MatchJobSummary    `json:"job"`
	Resume     MatchResumeSummary `json:"resume"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

func NewMatchResponse(v insight.MatchView) MatchResponse {
	idx := v.Index
	return MatchResponse{
		ID:         idx.ID,
		Degree:     idx.Degree.StringFixed(2),
		Major:      idx.Major.StringFixed(2),
		Skill:      idx.Skill.StringFixed(2),
		Experience: idx.Experience.StringFixed(2),
		Language:   idx.Language.StringFixed(2),
		Overall:    idx.Overall.StringFixed(2),
		Job: MatchJobSummary{
			ID:       v.Job.ID,
			Title:    v.Job.Title,
			Company:  v.Job.Company,
			Location: v.Job.Location,
		},
		Resume: MatchResumeSummary{
			ID:            v.Resume.ID,
			CandidateName: v.Resume.CandidateName,
			Title:         v.Resume.Title,
		},
		UpdatedAt: idx.UpdatedAt,
	}
}
