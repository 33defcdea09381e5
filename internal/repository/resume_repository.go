package repository

import (
	"context"

	"talent-match/internal/database"
)

// Resume is the read-only view of a résumé owned by the résumé management
// system. Content holds inline text; uploaded files are referenced by
// ObjectKey and MimeType instead.
type Resume struct {
	ID            int64
	CandidateName string
	Title         string
	Content       string
	ObjectKey     string
	MimeType      string
}

type ResumeRepository interface {
	FindByID(ctx context.Context, resumeID int64) (Resume, error)
}

type PostgresResumeRepository struct {
	db database.DB
}

func NewPostgresResumeRepository(db database.DB) *PostgresResumeRepository {
	return &PostgresResumeRepository{db: db}
}

func (r *PostgresResumeRepository) FindByID(ctx context.Context, resumeID int64) (Resume, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, COALESCE(candidate_name, ''), COALESCE(title, ''), COALESCE(content, ''),
		        COALESCE(object_key, ''), COALESCE(mime_type, '')
		 FROM resumes
		 WHERE id = $1`,
		resumeID,
	)

	var res Resume
	if err := row.Scan(&res.ID, &res.CandidateName, &res.Title, &res.Content, &res.ObjectKey, &res.MimeType); err != nil {
		if isNoRows(err) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return res, nil
}
