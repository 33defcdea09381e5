package repository

import (
	"context"
	"time"

	"talent-match/internal/database"
	"talent-match/internal/domain/insight"

	"github.com/google/uuid"
)

type ResumeInsightsRepository interface {
	FindByResumeID(ctx context.Context, resumeID int64) (insight.ResumeInsights, error)
	Upsert(ctx context.Context, in insight.ResumeInsights) (insight.ResumeInsights, error)
}

type PostgresResumeInsightsRepository struct {
	db database.DB
}

func NewPostgresResumeInsightsRepository(db database.DB) *PostgresResumeInsightsRepository {
	return &PostgresResumeInsightsRepository{db: db}
}

func (r *PostgresResumeInsightsRepository) FindByResumeID(ctx context.Context, resumeID int64) (insight.ResumeInsights, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, resume_id, degree, major, skills, experience, language, created_at, updated_at
		 FROM resume_insights
		 WHERE resume_id = $1`,
		resumeID,
	)

	var (
		out    insight.ResumeInsights
		skills []byte
	)
	if err := row.Scan(&out.ID, &out.ResumeID, &out.Degree, &out.Major, &skills, &out.Experience, &out.Language, &out.CreatedAt, &out.UpdatedAt); err != nil {
		if isNoRows(err) {
			return insight.ResumeInsights{}, ErrNotFound
		}
		return insight.ResumeInsights{}, err
	}
	decoded, err := decodeSkills(skills)
	if err != nil {
		return insight.ResumeInsights{}, err
	}
	out.Skills = decoded
	return out, nil
}

func (r *PostgresResumeInsightsRepository) Upsert(ctx context.Context, in insight.ResumeInsights) (insight.ResumeInsights, error) {
	if in.ID == uuid.Nil {
		in.ID = uuid.New()
	}
	skills, err := encodeSkills(in.Skills)
	if err != nil {
		return insight.ResumeInsights{}, err
	}
	now := time.Now().UTC()

	row := r.db.QueryRow(ctx,
		`INSERT INTO resume_insights (id, resume_id, degree, major, skills, experience, language, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5::jsonb,$6,$7,$8,$8)
		 ON CONFLICT (resume_id) DO UPDATE SET
			degree = EXCLUDED.degree,
			major = EXCLUDED.major,
			skills = EXCLUDED.skills,
			experience = EXCLUDED.experience,
			language = EXCLUDED.language,
			updated_at = EXCLUDED.updated_at
		 RETURNING id, created_at, updated_at`,
		in.ID,
		in.ResumeID,
		in.Degree,
		in.Major,
		skills,
		in.Experience,
		in.Language,
		now,
	)
	if err := row.Scan(&in.ID, &in.CreatedAt, &in.UpdatedAt); err != nil {
		return insight.ResumeInsights{}, mapWriteError(err)
	}
	if in.Skills == nil {
		in.Skills = []insight.Skill{}
	}
	return in, nil
}
