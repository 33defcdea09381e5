package insight

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Skill is a single extracted skill. For job requirements Weight is the
// importance (1-10, 0 when the model gave none); for résumés it counts the
// sections the skill appears in.
type Skill struct {
	Skill  string `json:"skill"`
	Weight int    `json:"weight,omitempty"`
}

type JobRequirements struct {
	ID         uuid.UUID `json:"id"`
	JobID      int64     `json:"job_id"`
	Degree     string    `json:"degree"`
	Major      string    `json:"major"`
	Skills     []Skill   `json:"skills"`
	Experience string    `json:"experience"`
	Language   string    `json:"language"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ResumeInsights struct {
	ID         uuid.UUID `json:"id"`
	ResumeID   int64     `json:"resume_id"`
	Degree     string    `json:"degree"`
	Major      string    `json:"major"`
	Skills     []Skill   `json:"skills"`
	Experience string    `json:"experience"`
	Language   string    `json:"language"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MatchingIndex holds per-dimension compatibility scores in [0.00, 1.00].
type MatchingIndex struct {
	ID         uuid.UUID       `json:"id"`
	JobID      int64           `json:"job_id"`
	ResumeID   int64           `json:"resume_id"`
	Degree     decimal.Decimal `json:"degree"`
	Major      decimal.Decimal `json:"major"`
	Skill      decimal.Decimal `json:"skill"`
	Experience decimal.Decimal `json:"experience"`
	Language   decimal.Decimal `json:"language"`
	Overall    decimal.Decimal `json:"overall"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type JobRef struct {
	ID       int64
	Title    string
	Company  string
	Location string
}

type ResumeRef struct {
	ID            int64
	CandidateName string
	Title         string
}

// MatchView is a persisted MatchingIndex together with display summaries of
// the job and résumé it references.
type MatchView struct {
	Index  MatchingIndex
	Job    JobRef
	Resume ResumeRef
}
