package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"talent-match/internal/domain/insight"
	"talent-match/internal/llm"
	"talent-match/internal/parser"
	"talent-match/internal/prompt"
	"talent-match/internal/repository"
)

type MatchingUsecase interface {
	ComputeMatch(ctx context.Context, jobID, resumeID int64) (insight.MatchView, error)
	FindMatch(ctx context.Context, jobID, resumeID int64) (insight.MatchView, error)
}

// MatchNotifier is told about every persisted match. ws.Hub implements it.
type MatchNotifier interface {
	MatchComputed(view insight.MatchView)
}

type Matching struct {
	jobs      JobSource
	resumes   ResumeSource
	prompts   PromptRenderer
	completer llm.Completer
	jobReqs   repository.JobRequirementsRepository
	insights  repository.ResumeInsightsRepository
	matches   repository.MatchingIndexRepository
	locker    KeyLocker
	notifier  MatchNotifier
	log       *log.Logger
}

func NewMatchingUsecase(
	jobs JobSource,
	resumes ResumeSource,
	prompts PromptRenderer,
	completer llm.Completer,
	jobReqs repository.JobRequirementsRepository,
	insights repository.ResumeInsightsRepository,
	matches repository.MatchingIndexRepository,
	locker KeyLocker,
	notifier MatchNotifier,
	logger *log.Logger,
) *Matching {
	if logger == nil {
		logger = log.Default()
	}
	return &Matching{
		jobs:      jobs,
		resumes:   resumes,
		prompts:   prompts,
		completer: completer,
		jobReqs:   jobReqs,
		insights:  insights,
		matches:   matches,
		locker:    locker,
		notifier:  notifier,
		log:       logger,
	}
}

// ComputeMatch scores a résumé against a job from their stored insights and
// persists the result under (jobID, resumeID). Missing insights are sent to
// the model as null; extraction is never triggered from here.
func (u *Matching) ComputeMatch(ctx context.Context, jobID, resumeID int64) (insight.MatchView, error) {
	if jobID <= 0 || resumeID <= 0 {
		return insight.MatchView{}, ErrInvalidInput
	}
	release, err := acquire(ctx, u.locker, matchLockKey(jobID, resumeID))
	if err != nil {
		return insight.MatchView{}, err
	}
	defer release()

	var req *insight.JobRequirements
	if r, err := u.jobReqs.FindByJobID(ctx, jobID); err == nil {
		req = &r
	} else if !errors.Is(err, repository.ErrNotFound) {
		return insight.MatchView{}, u.fail(jobID, resumeID, err)
	}

	var ins *insight.ResumeInsights
	if r, err := u.insights.FindByResumeID(ctx, resumeID); err == nil {
		ins = &r
	} else if !errors.Is(err, repository.ErrNotFound) {
		return insight.MatchView{}, u.fail(jobID, resumeID, err)
	}

	reqText, err := requirementsJSON(req)
	if err != nil {
		return insight.MatchView{}, u.fail(jobID, resumeID, err)
	}
	insText, err := insightsJSON(ins)
	if err != nil {
		return insight.MatchView{}, u.fail(jobID, resumeID, err)
	}

	raw, err := generate(ctx, u.prompts, u.completer, prompt.Matching, map[string]string{
		prompt.VarResumeInsights:  insText,
		prompt.VarJobRequirements: reqText,
	})
	if err != nil {
		return insight.MatchView{}, u.fail(jobID, resumeID, err)
	}
	idx, err := parser.ParseMatchingIndex(raw)
	if err != nil {
		return insight.MatchView{}, u.fail(jobID, resumeID, err)
	}
	idx.ApplyVacuousMatches(req)

	job, err := u.jobs.ResolveJob(ctx, jobID)
	if err != nil {
		return insight.MatchView{}, u.resolveError("job", jobID, resumeID, err)
	}
	resume, err := u.resumes.ResolveResume(ctx, resumeID)
	if err != nil {
		return insight.MatchView{}, u.resolveError("resume", jobID, resumeID, err)
	}
	idx.JobID = job.ID
	idx.ResumeID = resume.ID

	existing, err := u.matches.FindByPair(ctx, idx.JobID, idx.ResumeID)
	switch {
	case err == nil:
		idx.ID = existing.ID
	case errors.Is(err, repository.ErrNotFound):
	default:
		return insight.MatchView{}, u.fail(jobID, resumeID, err)
	}

	saved, err := u.matches.Upsert(ctx, idx)
	if err != nil {
		return insight.MatchView{}, u.fail(jobID, resumeID, err)
	}

	view := insight.MatchView{Index: saved, Job: job, Resume: resume}
	if u.notifier != nil {
		u.notifier.MatchComputed(view)
	}
	u.log.Printf("usecase=matching op=compute status=ok job_id=%d resume_id=%d overall=%s", jobID, resumeID, saved.Overall.StringFixed(2))
	return view, nil
}

// FindMatch returns a stored match without recomputing it. Summaries that
// can no longer be resolved fall back to bare ids.
func (u *Matching) FindMatch(ctx context.Context, jobID, resumeID int64) (insight.MatchView, error) {
	if jobID <= 0 || resumeID <= 0 {
		return insight.MatchView{}, ErrInvalidInput
	}
	idx, err := u.matches.FindByPair(ctx, jobID, resumeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return insight.MatchView{}, ErrResourceNotFound
		}
		u.log.Printf("usecase=matching op=find status=error job_id=%d resume_id=%d err=%v", jobID, resumeID, err)
		return insight.MatchView{}, ErrInternal
	}

	view := insight.MatchView{
		Index:  idx,
		Job:    insight.JobRef{ID: jobID},
		Resume: insight.ResumeRef{ID: resumeID},
	}
	if job, err := u.jobs.ResolveJob(ctx, jobID); err == nil {
		view.Job = job
	}
	if resume, err := u.resumes.ResolveResume(ctx, resumeID); err == nil {
		view.Resume = resume
	}
	return view, nil
}

func (u *Matching) resolveError(kind string, jobID, resumeID int64, err error) error {
	if isNotFound(err) {
		id := jobID
		if kind == "resume" {
			id = resumeID
		}
		return notFound(kind, id)
	}
	return u.fail(jobID, resumeID, err)
}

func (u *Matching) fail(jobID, resumeID int64, err error) error {
	u.log.Printf("usecase=matching op=compute status=error job_id=%d resume_id=%d err=%v", jobID, resumeID, err)
	return failed(err)
}

// insightPayload is the canonical form of stored insights shown to the model.
type insightPayload struct {
	Degree     string          `json:"degree"`
	Major      string          `json:"major"`
	Skills     []insight.Skill `json:"skills"`
	Experience string          `json:"experience"`
	Language   string          `json:"language"`
}

func requirementsJSON(r *insight.JobRequirements) (string, error) {
	if r == nil {
		return "null", nil
	}
	return encodePayload(insightPayload{r.Degree, r.Major, r.Skills, r.Experience, r.Language})
}

func insightsJSON(r *insight.ResumeInsights) (string, error) {
	if r == nil {
		return "null", nil
	}
	return encodePayload(insightPayload{r.Degree, r.Major, r.Skills, r.Experience, r.Language})
}

func encodePayload(p insightPayload) (string, error) {
	if p.Skills == nil {
		p.Skills = []insight.Skill{}
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
