package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/domain/insight"
	"talent-match/internal/llm"
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"
	"talent-match/internal/worker"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtraction struct {
	usecase.ExtractionUsecase
	err error
}

func (s stubExtraction) ExtractJobRequirements(_ context.Context, jobID int64) (insight.JobRequirements, error) {
	if s.err != nil {
		return insight.JobRequirements{}, s.err
	}
	return insight.JobRequirements{ID: uuid.New(), JobID: jobID, Skills: []insight.Skill{{Skill: "Java"}}, Experience: "3+ years"}, nil
}

func (s stubExtraction) FindResumeInsights(_ context.Context, resumeID int64) (insight.ResumeInsights, error) {
	if s.err != nil {
		return insight.ResumeInsights{}, s.err
	}
	return insight.ResumeInsights{ResumeID: resumeID}, nil
}

type stubMatching struct {
	usecase.MatchingUsecase
	err error
}

func (s stubMatching) ComputeMatch(_ context.Context, jobID, resumeID int64) (insight.MatchView, error) {
	if s.err != nil {
		return insight.MatchView{}, s.err
	}
	return insight.MatchView{
		Index: insight.MatchingIndex{
			JobID: jobID, ResumeID: resumeID,
			Degree: decimal.NewFromInt(1), Major: decimal.NewFromInt(1), Skill: decimal.RequireFromString("0.8"),
			Experience: decimal.NewFromInt(1), Language: decimal.NewFromInt(1), Overall: decimal.RequireFromString("0.9"),
		},
		Job:    insight.JobRef{ID: jobID, Title: "Backend Engineer"},
		Resume: insight.ResumeRef{ID: resumeID, CandidateName: "Jane Doe"},
	}, nil
}

type stubPublisher struct {
	got worker.Request
	err error
}

func (p *stubPublisher) Publish(_ context.Context, req worker.Request) (worker.Request, error) {
	if err := req.Validate(); err != nil {
		return worker.Request{}, err
	}
	if p.err != nil {
		return worker.Request{}, p.err
	}
	req.ID = "req-1"
	p.got = req
	return req, nil
}

func newApp(ext usecase.ExtractionUsecase, match usecase.MatchingUsecase, pub RequestPublisher) *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(log.New(io.Discard, "", 0)).Middleware())
	api := app.Group("/api/v1")
	NewInsightHandler(ext).RegisterRoutes(api)
	NewMatchHandler(match).RegisterRoutes(api)
	NewInsightRequestHandler(pub).RegisterRoutes(api)
	return app
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(b, &env), string(b))
	return resp.StatusCode, env
}

func TestInsightHandler_ExtractJobRequirements(t *testing.T) {
	app := newApp(stubExtraction{}, stubMatching{}, nil)

	status, env := do(t, app, http.MethodPost, "/api/v1/jobs/42/requirements", "")
	assert.Equal(t, fiber.StatusOK, status)

	var data struct {
		JobID  int64 `json:"job_id"`
		Skills []struct {
			Skill  string `json:"skill"`
			Weight *int   `json:"weight"`
		} `json:"skills"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, int64(42), data.JobID)
	require.Len(t, data.Skills, 1)
	assert.Equal(t, "Java", data.Skills[0].Skill)
	assert.Nil(t, data.Skills[0].Weight)
}

func TestInsightHandler_BadID(t *testing.T) {
	app := newApp(stubExtraction{}, stubMatching{}, nil)

	status, _ := do(t, app, http.MethodPost, "/api/v1/jobs/abc/requirements", "")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodPost, "/api/v1/jobs/-3/requirements", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandlers_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", fmt.Errorf("%w: job 42", usecase.ErrResourceNotFound), fiber.StatusNotFound, "resource not found: job 42"},
		{"in progress", usecase.ErrInProgress, fiber.StatusConflict, ""},
		{"extraction failed", fmt.Errorf("%w: %w", usecase.ErrExtractionFailed, fmt.Errorf("%w: gemini: quota exceeded", llm.ErrCompletion)), fiber.StatusInternalServerError, "extraction failed: completion failed: gemini: quota exceeded"},
		{"internal", errors.New("db down"), fiber.StatusInternalServerError, response.MessageInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp(stubExtraction{err: tt.err}, stubMatching{err: tt.err}, nil)

			status, env := do(t, app, http.MethodPost, "/api/v1/jobs/42/resumes/7/match", "")
			assert.Equal(t, tt.status, status)
			if tt.message != "" {
				assert.Equal(t, tt.message, env.Message)
			}
		})
	}
}

func TestMatchHandler_ComputeMatch(t *testing.T) {
	app := newApp(stubExtraction{}, stubMatching{}, nil)

	status, env := do(t, app, http.MethodPost, "/api/v1/jobs/42/resumes/7/match", "")
	assert.Equal(t, fiber.StatusOK, status)

	var data struct {
		Skill   string `json:"skill"`
		Overall string `json:"overall"`
		Job     struct {
			Title string `json:"title"`
		} `json:"job"`
		Resume struct {
			CandidateName string `json:"candidate_name"`
		} `json:"resume"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "0.80", data.Skill)
	assert.Equal(t, "0.90", data.Overall)
	assert.Equal(t, "Backend Engineer", data.Job.Title)
	assert.Equal(t, "Jane Doe", data.Resume.CandidateName)
}

func TestInsightRequestHandler(t *testing.T) {
	pub := &stubPublisher{}
	app := newApp(stubExtraction{}, stubMatching{}, pub)

	status, env := do(t, app, http.MethodPost, "/api/v1/insight-requests", `{"type":"match","job_id":42,"resume_id":7}`)
	assert.Equal(t, fiber.StatusAccepted, status)
	assert.Equal(t, response.MessageAccepted, env.Message)
	assert.Equal(t, worker.Request{ID: "req-1", Type: worker.TypeMatch, JobID: 42, ResumeID: 7}, pub.got)

	status, _ = do(t, app, http.MethodPost, "/api/v1/insight-requests", `{"type":"match","job_id":42}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestInsightRequestHandler_NoQueue(t *testing.T) {
	app := newApp(stubExtraction{}, stubMatching{}, nil)

	status, _ := do(t, app, http.MethodPost, "/api/v1/insight-requests", `{"type":"match","job_id":42,"resume_id":7}`)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	cases := []struct {
		name     string
		db       Pinger
		cache    Pinger
		status   int
		database string
		cacheOut string
	}{
		{"all up", stubPinger{}, stubPinger{}, fiber.StatusOK, "ok", "ok"},
		{"cache down stays healthy", stubPinger{}, stubPinger{err: errors.New("refused")}, fiber.StatusOK, "ok", "unavailable"},
		{"no cache configured", stubPinger{}, nil, fiber.StatusOK, "ok", "unavailable"},
		{"db down", stubPinger{err: errors.New("refused")}, stubPinger{}, fiber.StatusServiceUnavailable, "unavailable", "ok"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			NewHealthHandler(tc.db, tc.cache).RegisterRoutes(app)

			status, env := do(t, app, http.MethodGet, "/health", "")
			assert.Equal(t, tc.status, status)

			var data struct {
				Database string `json:"database"`
				Cache    string `json:"cache"`
			}
			require.NoError(t, json.Unmarshal(env.Data, &data))
			assert.Equal(t, tc.database, data.Database)
			assert.Equal(t, tc.cacheOut, data.Cache)
		})
	}
}
