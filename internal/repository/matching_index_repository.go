package repository

import (
	"context"
	"time"

	"talent-match/internal/database"
	"talent-match/internal/domain/insight"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MatchingIndexRepository interface {
	FindByPair(ctx context.Context, jobID, resumeID int64) (insight.MatchingIndex, error)
	Upsert(ctx context.Context, m insight.MatchingIndex) (insight.MatchingIndex, error)
}

type PostgresMatchingIndexRepository struct {
	db database.DB
}

func NewPostgresMatchingIndexRepository(db database.DB) *PostgresMatchingIndexRepository {
	return &PostgresMatchingIndexRepository{db: db}
}

func (r *PostgresMatchingIndexRepository) FindByPair(ctx context.Context, jobID, resumeID int64) (insight.MatchingIndex, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, job_id, resume_id,
		        degree::text, major::text, skill::text, experience::text, language::text, overall::text,
		        created_at, updated_at
		 FROM matching_indexes
		 WHERE job_id = $1 AND resume_id = $2`,
		jobID, resumeID,
	)

	var (
		out    insight.MatchingIndex
		scores [6]string
	)
	if err := row.Scan(&out.ID, &out.JobID, &out.ResumeID,
		&scores[0], &scores[1], &scores[2], &scores[3], &scores[4], &scores[5],
		&out.CreatedAt, &out.UpdatedAt,
	); err != nil {
		if isNoRows(err) {
			return insight.MatchingIndex{}, ErrNotFound
		}
		return insight.MatchingIndex{}, err
	}

	dst := []*decimal.Decimal{&out.Degree, &out.Major, &out.Skill, &out.Experience, &out.Language, &out.Overall}
	for i, s := range scores {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return insight.MatchingIndex{}, err
		}
		*dst[i] = d
	}
	return out, nil
}

// Upsert creates or replaces the index for (JobID, ResumeID).
func (r *PostgresMatchingIndexRepository) Upsert(ctx context.Context, m insight.MatchingIndex) (insight.MatchingIndex, error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	now := time.Now().UTC()

	row := r.db.QueryRow(ctx,
		`INSERT INTO matching_indexes (id, job_id, resume_id, degree, major, skill, experience, language, overall, created_at, updated_at)
		 VALUES ($1,$2,$3,$4::numeric,$5::numeric,$6::numeric,$7::numeric,$8::numeric,$9::numeric,$10,$10)
		 ON CONFLICT (job_id, resume_id) DO UPDATE SET
			degree = EXCLUDED.degree,
			major = EXCLUDED.major,
			skill = EXCLUDED.skill,
			experience = EXCLUDED.experience,
			language = EXCLUDED.language,
			overall = EXCLUDED.overall,
			updated_at = EXCLUDED.updated_at
		 RETURNING id, created_at, updated_at`,
		m.ID,
		m.JobID,
		m.ResumeID,
		m.Degree.StringFixed(2),
		m.Major.StringFixed(2),
		m.Skill.StringFixed(2),
		m.Experience.StringFixed(2),
		m.Language.StringFixed(2),
		m.Overall.StringFixed(2),
		now,
	)
	if err := row.Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return insight.MatchingIndex{}, mapWriteError(err)
	}
	return m, nil
}
