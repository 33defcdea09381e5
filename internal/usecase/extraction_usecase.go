package usecase

import (
	"context"
	"errors"
	"log"

	"talent-match/internal/domain/insight"
	"talent-match/internal/llm"
	"talent-match/internal/parser"
	"talent-match/internal/prompt"
	"talent-match/internal/repository"
)

// PromptRenderer fills an instruction template. prompt.Renderer implements it.
type PromptRenderer interface {
	Render(id prompt.TemplateID, vars map[string]string) (string, error)
}

type ExtractionUsecase interface {
	ExtractJobRequirements(ctx context.Context, jobID int64) (insight.JobRequirements, error)
	ExtractResumeInsights(ctx context.Context, resumeID int64) (insight.ResumeInsights, error)
	ExtractJobSkills(ctx context.Context, jobID int64) ([]insight.Skill, error)
	FindJobRequirements(ctx context.Context, jobID int64) (insight.JobRequirements, error)
	FindResumeInsights(ctx context.Context, resumeID int64) (insight.ResumeInsights, error)
}

type Extraction struct {
	jobs      JobSource
	resumes   ResumeSource
	prompts   PromptRenderer
	completer llm.Completer
	jobReqs   repository.JobRequirementsRepository
	insights  repository.ResumeInsightsRepository
	locker    KeyLocker
	log       *log.Logger
}

func NewExtractionUsecase(
	jobs JobSource,
	resumes ResumeSource,
	prompts PromptRenderer,
	completer llm.Completer,
	jobReqs repository.JobRequirementsRepository,
	insights repository.ResumeInsightsRepository,
	locker KeyLocker,
	logger *log.Logger,
) *Extraction {
	if logger == nil {
		logger = log.Default()
	}
	return &Extraction{
		jobs:      jobs,
		resumes:   resumes,
		prompts:   prompts,
		completer: completer,
		jobReqs:   jobReqs,
		insights:  insights,
		locker:    locker,
		log:       logger,
	}
}

func (u *Extraction) ExtractJobRequirements(ctx context.Context, jobID int64) (insight.JobRequirements, error) {
	if jobID <= 0 {
		return insight.JobRequirements{}, ErrInvalidInput
	}
	release, err := acquire(ctx, u.locker, jobLockKey(jobID))
	if err != nil {
		return insight.JobRequirements{}, err
	}
	defer release()

	text, err := u.jobs.JobDescription(ctx, jobID)
	if err != nil {
		return insight.JobRequirements{}, u.sourceError("job", jobID, err)
	}

	raw, err := generate(ctx, u.prompts, u.completer, prompt.JobRequirements, map[string]string{
		prompt.VarJobDescription: text,
	})
	if err != nil {
		return insight.JobRequirements{}, u.fail("job_requirements", jobID, err)
	}
	parsed, err := parser.ParseJobRequirements(raw)
	if err != nil {
		return insight.JobRequirements{}, u.fail("job_requirements", jobID, err)
	}
	parsed.JobID = jobID

	existing, err := u.jobReqs.FindByJobID(ctx, jobID)
	switch {
	case err == nil:
		parsed.ID = existing.ID
	case errors.Is(err, repository.ErrNotFound):
	default:
		return insight.JobRequirements{}, u.fail("job_requirements", jobID, err)
	}

	saved, err := u.jobReqs.Upsert(ctx, parsed)
	if err != nil {
		return insight.JobRequirements{}, u.fail("job_requirements", jobID, err)
	}

	u.log.Printf("usecase=extraction op=job_requirements status=ok job_id=%d id=%s skills=%d", jobID, saved.ID, len(saved.Skills))
	return saved, nil
}

func (u *Extraction) ExtractResumeInsights(ctx context.Context, resumeID int64) (insight.ResumeInsights, error) {
	if resumeID <= 0 {
		return insight.ResumeInsights{}, ErrInvalidInput
	}
	release, err := acquire(ctx, u.locker, resumeLockKey(resumeID))
	if err != nil {
		return insight.ResumeInsights{}, err
	}
	defer release()

	text, err := u.resumes.ResumeText(ctx, resumeID)
	if err != nil {
		return insight.ResumeInsights{}, u.sourceError("resume", resumeID, err)
	}

	raw, err := generate(ctx, u.prompts, u.completer, prompt.ResumeInsights, map[string]string{
		prompt.VarResume: text,
	})
	if err != nil {
		return insight.ResumeInsights{}, u.fail("resume_insights", resumeID, err)
	}
	parsed, err := parser.ParseResumeInsights(raw)
	if err != nil {
		return insight.ResumeInsights{}, u.fail("resume_insights", resumeID, err)
	}
	parsed.ResumeID = resumeID

	existing, err := u.insights.FindByResumeID(ctx, resumeID)
	switch {
	case err == nil:
		parsed.ID = existing.ID
	case errors.Is(err, repository.ErrNotFound):
	default:
		return insight.ResumeInsights{}, u.fail("resume_insights", resumeID, err)
	}

	saved, err := u.insights.Upsert(ctx, parsed)
	if err != nil {
		return insight.ResumeInsights{}, u.fail("resume_insights", resumeID, err)
	}

	u.log.Printf("usecase=extraction op=resume_insights status=ok resume_id=%d id=%s skills=%d", resumeID, saved.ID, len(saved.Skills))
	return saved, nil
}

// ExtractJobSkills runs the skills-only prompt over a job. Nothing is stored.
func (u *Extraction) ExtractJobSkills(ctx context.Context, jobID int64) ([]insight.Skill, error) {
	if jobID <= 0 {
		return nil, ErrInvalidInput
	}
	text, err := u.jobs.JobDescription(ctx, jobID)
	if err != nil {
		return nil, u.sourceError("job", jobID, err)
	}

	raw, err := generate(ctx, u.prompts, u.completer, prompt.JobSkills, map[string]string{
		prompt.VarJobDescription: text,
	})
	if err != nil {
		return nil, u.fail("job_skills", jobID, err)
	}
	skills, err := parser.ParseSkills(raw)
	if err != nil {
		return nil, u.fail("job_skills", jobID, err)
	}
	return skills, nil
}

func (u *Extraction) FindJobRequirements(ctx context.Context, jobID int64) (insight.JobRequirements, error) {
	if jobID <= 0 {
		return insight.JobRequirements{}, ErrInvalidInput
	}
	out, err := u.jobReqs.FindByJobID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return insight.JobRequirements{}, notFound("job requirements", jobID)
		}
		u.log.Printf("usecase=extraction op=find_job_requirements status=error job_id=%d err=%v", jobID, err)
		return insight.JobRequirements{}, ErrInternal
	}
	return out, nil
}

func (u *Extraction) FindResumeInsights(ctx context.Context, resumeID int64) (insight.ResumeInsights, error) {
	if resumeID <= 0 {
		return insight.ResumeInsights{}, ErrInvalidInput
	}
	out, err := u.insights.FindByResumeID(ctx, resumeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return insight.ResumeInsights{}, notFound("resume insights", resumeID)
		}
		u.log.Printf("usecase=extraction op=find_resume_insights status=error resume_id=%d err=%v", resumeID, err)
		return insight.ResumeInsights{}, ErrInternal
	}
	return out, nil
}

func (u *Extraction) sourceError(kind string, id int64, err error) error {
	if isNotFound(err) {
		return notFound(kind, id)
	}
	u.log.Printf("usecase=extraction op=load_%s status=error id=%d err=%v", kind, id, err)
	return failed(err)
}

func (u *Extraction) fail(op string, id int64, err error) error {
	u.log.Printf("usecase=extraction op=%s status=error id=%d err=%v", op, id, err)
	return failed(err)
}

// generate renders a template and sends it to the model, returning raw text.
func generate(ctx context.Context, prompts PromptRenderer, completer llm.Completer, id prompt.TemplateID, vars map[string]string) (string, error) {
	p, err := prompts.Render(id, vars)
	if err != nil {
		return "", err
	}
	return completer.Complete(ctx, p)
}
