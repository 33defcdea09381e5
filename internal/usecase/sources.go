package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"talent-match/internal/domain/insight"
	"talent-match/internal/infrastructure/document"
	"talent-match/internal/repository"
)

// JobSource supplies job text and display summaries from the job management
// system.
type JobSource interface {
	JobDescription(ctx context.Context, jobID int64) (string, error)
	ResolveJob(ctx context.Context, jobID int64) (insight.JobRef, error)
}

// ResumeSource supplies résumé text and display summaries from the résumé
// management system.
type ResumeSource interface {
	ResumeText(ctx context.Context, resumeID int64) (string, error)
	ResolveResume(ctx context.Context, resumeID int64) (insight.ResumeRef, error)
}

// ObjectFetcher reads uploaded files. storage.ObjectStore implements it.
type ObjectFetcher interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

var errNoResumeFile = errors.New("resume has no inline text and object storage is not configured")

type RepositoryJobSource struct {
	jobs repository.JobRepository
}

func NewRepositoryJobSource(jobs repository.JobRepository) *RepositoryJobSource {
	return &RepositoryJobSource{jobs: jobs}
}

func (s *RepositoryJobSource) JobDescription(ctx context.Context, jobID int64) (string, error) {
	j, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return "", err
	}
	return j.Text(), nil
}

func (s *RepositoryJobSource) ResolveJob(ctx context.Context, jobID int64) (insight.JobRef, error) {
	j, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return insight.JobRef{}, err
	}
	return insight.JobRef{ID: j.ID, Title: j.Title, Company: j.Company, Location: j.Location}, nil
}

// RepositoryResumeSource prefers inline résumé text and falls back to the
// uploaded file when the row only references one.
type RepositoryResumeSource struct {
	resumes repository.ResumeRepository
	files   ObjectFetcher
}

func NewRepositoryResumeSource(resumes repository.ResumeRepository, files ObjectFetcher) *RepositoryResumeSource {
	return &RepositoryResumeSource{resumes: resumes, files: files}
}

func (s *RepositoryResumeSource) ResumeText(ctx context.Context, resumeID int64) (string, error) {
	r, err := s.resumes.FindByID(ctx, resumeID)
	if err != nil {
		return "", err
	}
	if text := strings.TrimSpace(r.Content); text != "" || r.ObjectKey == "" {
		return text, nil
	}
	if s.files == nil {
		return "", errNoResumeFile
	}

	data, err := s.files.Get(ctx, r.ObjectKey)
	if err != nil {
		return "", fmt.Errorf("fetch resume file: %w", err)
	}
	text, err := document.ExtractText(r.MimeType, data)
	if err != nil {
		return "", fmt.Errorf("extract resume text: %w", err)
	}
	return text, nil
}

func (s *RepositoryResumeSource) ResolveResume(ctx context.Context, resumeID int64) (insight.ResumeRef, error) {
	r, err := s.resumes.FindByID(ctx, resumeID)
	if err != nil {
		return insight.ResumeRef{}, err
	}
	return insight.ResumeRef{ID: r.ID, CandidateName: r.CandidateName, Title: r.Title}, nil
}
