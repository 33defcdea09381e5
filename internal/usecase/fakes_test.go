package usecase

import (
	"context"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"talent-match/internal/domain/insight"
	"talent-match/internal/llm"
	"talent-match/internal/prompt"
	"talent-match/internal/repository"

	"github.com/google/uuid"
)

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

type fakeJobs struct {
	jobs map[int64]repository.Job
}

func (f fakeJobs) JobDescription(_ context.Context, id int64) (string, error) {
	j, ok := f.jobs[id]
	if !ok {
		return "", repository.ErrNotFound
	}
	return j.Text(), nil
}

func (f fakeJobs) ResolveJob(_ context.Context, id int64) (insight.JobRef, error) {
	j, ok := f.jobs[id]
	if !ok {
		return insight.JobRef{}, repository.ErrNotFound
	}
	return insight.JobRef{ID: j.ID, Title: j.Title, Company: j.Company, Location: j.Location}, nil
}

type fakeResumes struct {
	resumes map[int64]repository.Resume
}

func (f fakeResumes) ResumeText(_ context.Context, id int64) (string, error) {
	r, ok := f.resumes[id]
	if !ok {
		return "", repository.ErrNotFound
	}
	return r.Content, nil
}

func (f fakeResumes) ResolveResume(_ context.Context, id int64) (insight.ResumeRef, error) {
	r, ok := f.resumes[id]
	if !ok {
		return insight.ResumeRef{}, repository.ErrNotFound
	}
	return insight.ResumeRef{ID: r.ID, CandidateName: r.CandidateName, Title: r.Title}, nil
}

// scriptedCompleter answers every prompt with the same text and records what
// it was asked.
type scriptedCompleter struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (c *scriptedCompleter) Complete(_ context.Context, p string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, p)
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

func (c *scriptedCompleter) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.prompts)
}

func (c *scriptedCompleter) lastPrompt() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.prompts) == 0 {
		return ""
	}
	return c.prompts[len(c.prompts)-1]
}

var _ llm.Completer = (*scriptedCompleter)(nil)

// memJobRequirements behaves like the upsert-on-conflict store: one row per
// job id, the first identity wins.
type memJobRequirements struct {
	mu     sync.Mutex
	rows   map[int64]insight.JobRequirements
	writes int
}

func newMemJobRequirements() *memJobRequirements {
	return &memJobRequirements{rows: map[int64]insight.JobRequirements{}}
}

func (m *memJobRequirements) FindByJobID(_ context.Context, jobID int64) (insight.JobRequirements, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[jobID]
	if !ok {
		return insight.JobRequirements{}, repository.ErrNotFound
	}
	return r, nil
}

func (m *memJobRequirements) Upsert(_ context.Context, r insight.JobRequirements) (insight.JobRequirements, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	now := time.Now().UTC()
	if prev, ok := m.rows[r.JobID]; ok {
		r.ID = prev.ID
		r.CreatedAt = prev.CreatedAt
	} else {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	m.rows[r.JobID] = r
	return r, nil
}

type memResumeInsights struct {
	mu     sync.Mutex
	rows   map[int64]insight.ResumeInsights
	writes int
}

func newMemResumeInsights() *memResumeInsights {
	return &memResumeInsights{rows: map[int64]insight.ResumeInsights{}}
}

func (m *memResumeInsights) FindByResumeID(_ context.Context, resumeID int64) (insight.ResumeInsights, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[resumeID]
	if !ok {
		return insight.ResumeInsights{}, repository.ErrNotFound
	}
	return r, nil
}

func (m *memResumeInsights) Upsert(_ context.Context, r insight.ResumeInsights) (insight.ResumeInsights, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	now := time.Now().UTC()
	if prev, ok := m.rows[r.ResumeID]; ok {
		r.ID = prev.ID
		r.CreatedAt = prev.CreatedAt
	} else {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	m.rows[r.ResumeID] = r
	return r, nil
}

type pairKey struct{ job, resume int64 }

type memMatches struct {
	mu     sync.Mutex
	rows   map[pairKey]insight.MatchingIndex
	writes int
}

func newMemMatches() *memMatches {
	return &memMatches{rows: map[pairKey]insight.MatchingIndex{}}
}

func (m *memMatches) FindByPair(_ context.Context, jobID, resumeID int64) (insight.MatchingIndex, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[pairKey{jobID, resumeID}]
	if !ok {
		return insight.MatchingIndex{}, repository.ErrNotFound
	}
	return r, nil
}

func (m *memMatches) Upsert(_ context.Context, r insight.MatchingIndex) (insight.MatchingIndex, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	k := pairKey{r.JobID, r.ResumeID}
	now := time.Now().UTC()
	if prev, ok := m.rows[k]; ok {
		r.ID = prev.ID
		r.CreatedAt = prev.CreatedAt
	} else {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	m.rows[k] = r
	return r, nil
}

type heldLocker struct {
	held map[string]bool
}

func (l heldLocker) TryLock(_ context.Context, key string) (func(), bool, error) {
	if l.held[key] {
		return func() {}, false, nil
	}
	return func() {}, true, nil
}

type recordingNotifier struct {
	views []insight.MatchView
}

func (n *recordingNotifier) MatchComputed(v insight.MatchView) { n.views = append(n.views, v) }

type fixture struct {
	jobs      fakeJobs
	resumes   fakeResumes
	completer *scriptedCompleter
	jobReqs   *memJobRequirements
	insights  *memResumeInsights
	matches   *memMatches
	notifier  *recordingNotifier
	locker    KeyLocker
}

func newFixture() *fixture {
	return &fixture{
		jobs: fakeJobs{jobs: map[int64]repository.Job{
			42: {ID: 42, Title: "Backend Engineer", Company: "Acme", Location: "Remote", Description: "Go, PostgreSQL. Bachelor's in CS. 3+ years."},
		}},
		resumes: fakeResumes{resumes: map[int64]repository.Resume{
			7: {ID: 7, CandidateName: "Jane Doe", Title: "Software Engineer", Content: "Jane Doe. BSc Computer Science. Go, SQL. 5 years."},
		}},
		completer: &scriptedCompleter{},
		jobReqs:   newMemJobRequirements(),
		insights:  newMemResumeInsights(),
		matches:   newMemMatches(),
		notifier:  &recordingNotifier{},
	}
}

func (f *fixture) extraction() *Extraction {
	return NewExtractionUsecase(f.jobs, f.resumes, prompt.MustNewRenderer(), f.completer, f.jobReqs, f.insights, f.locker, quietLogger())
}

func (f *fixture) matching() *Matching {
	return NewMatchingUsecase(f.jobs, f.resumes, prompt.MustNewRenderer(), f.completer, f.jobReqs, f.insights, f.matches, f.locker, f.notifier, quietLogger())
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
