package repository

import (
	"context"
	"time"

	"talent-match/internal/database"
	"talent-match/internal/domain/insight"

	"github.com/google/uuid"
)

type JobRequirementsRepository interface {
	FindByJobID(ctx context.Context, jobID int64) (insight.JobRequirements, error)
	Upsert(ctx context.Context, req insight.JobRequirements) (insight.JobRequirements, error)
}

type PostgresJobRequirementsRepository struct {
	db database.DB
}

func NewPostgresJobRequirementsRepository(db database.DB) *PostgresJobRequirementsRepository {
	return &PostgresJobRequirementsRepository{db: db}
}

func (r *PostgresJobRequirementsRepository) FindByJobID(ctx context.Context, jobID int64) (insight.JobRequirements, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, job_id, degree, major, skills, experience, language, created_at, updated_at
		 FROM job_requirements
		 WHERE job_id = $1`,
		jobID,
	)

	var (
		out    insight.JobRequirements
		skills []byte
	)
	if err := row.Scan(&out.ID, &out.JobID, &out.Degree, &out.Major, &skills, &out.Experience, &out.Language, &out.CreatedAt, &out.UpdatedAt); err != nil {
		if isNoRows(err) {
			return insight.JobRequirements{}, ErrNotFound
		}
		return insight.JobRequirements{}, err
	}
	decoded, err := decodeSkills(skills)
	if err != nil {
		return insight.JobRequirements{}, err
	}
	out.Skills = decoded
	return out, nil
}

// Upsert writes req under its job id. An existing row keeps its id and
// created_at; every other column is replaced.
func (r *PostgresJobRequirementsRepository) Upsert(ctx context.Context, req insight.JobRequirements) (insight.JobRequirements, error) {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	skills, err := encodeSkills(req.Skills)
	if err != nil {
		return insight.JobRequirements{}, err
	}
	now := time.Now().UTC()

	row := r.db.QueryRow(ctx,
		`INSERT INTO job_requirements (id, job_id, degree, major, skills, experience, language, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5::jsonb,$6,$7,$8,$8)
		 ON CONFLICT (job_id) DO UPDATE SET
			degree = EXCLUDED.degree,
			major = EXCLUDED.major,
			skills = EXCLUDED.skills,
			experience = EXCLUDED.experience,
			language = EXCLUDED.language,
			updated_at = EXCLUDED.updated_at
		 RETURNING id, created_at, updated_at`,
		req.ID,
		req.JobID,
		req.Degree,
		req.Major,
		skills,
		req.Experience,
		req.Language,
		now,
	)
	if err := row.Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt); err != nil {
		return insight.JobRequirements{}, mapWriteError(err)
	}
	if req.Skills == nil {
		req.Skills = []insight.Skill{}
	}
	return req, nil
}
