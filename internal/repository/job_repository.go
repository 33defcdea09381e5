package repository

import (
	"context"
	"strings"

	"talent-match/internal/database"
)

// Job is the read-only view of a posting owned by the job management system.
type Job struct {
	ID          int64
	Title       string
	Company     string
	Location    string
	Description string
}

// Text is the job as presented to the extraction prompt.
func (j Job) Text() string {
	var sb strings.Builder
	if j.Title != "" {
		sb.WriteString("Title: " + j.Title + "\n")
	}
	if j.Company != "" {
		sb.WriteString("Company: " + j.Company + "\n")
	}
	if j.Location != "" {
		sb.WriteString("Location: " + j.Location + "\n")
	}
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString(strings.TrimSpace(j.Description))
	return strings.TrimSpace(sb.String())
}

type JobRepository interface {
	FindByID(ctx context.Context, jobID int64) (Job, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

func (r *PostgresJobRepository) FindByID(ctx context.Context, jobID int64) (Job, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, COALESCE(title, ''), COALESCE(company, ''), COALESCE(location, ''), COALESCE(description, '')
		 FROM jobs
		 WHERE id = $1`,
		jobID,
	)

	var j Job
	if err := row.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.Description); err != nil {
		if isNoRows(err) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	return j, nil
}
