package usecase

import (
	"context"
	"errors"
	"testing"

	"talent-match/internal/domain/insight"
	"talent-match/internal/parser"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const partialScores = `{"degree":"0.30","major":"0.40","skill":"0.75","experience":"1.00","language":"0.20","overall":"0.55"}`

func TestMatching_VacuousDimensionsScoreOne(t *testing.T) {
	f := newFixture()
	f.jobReqs.rows[42] = insight.JobRequirements{
		JobID:      42,
		Skills:     []insight.Skill{{Skill: "Java"}},
		Experience: "3+ years",
	}
	f.completer.reply = partialScores

	view, err := f.matching().ComputeMatch(context.Background(), 42, 7)
	require.NoError(t, err)

	idx := view.Index
	assert.Equal(t, "1.00", idx.Degree.StringFixed(2))
	assert.Equal(t, "1.00", idx.Major.StringFixed(2))
	assert.Equal(t, "1.00", idx.Language.StringFixed(2))
	assert.Equal(t, "0.75", idx.Skill.StringFixed(2))
	assert.Equal(t, "1.00", idx.Experience.StringFixed(2))
	assert.Equal(t, "0.55", idx.Overall.StringFixed(2))

	for _, d := range []decimal.Decimal{idx.Degree, idx.Major, idx.Skill, idx.Experience, idx.Language, idx.Overall} {
		assert.True(t, insight.ValidScore(d), "score %s out of range", d)
	}
}

func TestMatching_PersistsAndEnrichesView(t *testing.T) {
	f := newFixture()
	f.completer.reply = partialScores

	view, err := f.matching().ComputeMatch(context.Background(), 42, 7)
	require.NoError(t, err)

	assert.Equal(t, int64(42), view.Index.JobID)
	assert.Equal(t, int64(7), view.Index.ResumeID)
	assert.Equal(t, "Backend Engineer", view.Job.Title)
	assert.Equal(t, "Jane Doe", view.Resume.CandidateName)
	assert.Equal(t, 1, f.matches.writes)
	require.Len(t, f.notifier.views, 1)
	assert.Equal(t, view.Index.ID, f.notifier.views[0].Index.ID)
}

func TestMatching_MissingInsightsSentAsNull(t *testing.T) {
	f := newFixture()
	f.completer.reply = partialScores

	_, err := f.matching().ComputeMatch(context.Background(), 42, 7)
	require.NoError(t, err)
	assert.True(t, containsAll(f.completer.lastPrompt(), "ResumeInsights: null", "JobRequirements: null"))
}

func TestMatching_StoredInsightsSentAsJSON(t *testing.T) {
	f := newFixture()
	f.jobReqs.rows[42] = insight.JobRequirements{JobID: 42, Degree: "Bachelor's", Skills: []insight.Skill{{Skill: "Go", Weight: 8}}}
	f.insights.rows[7] = insight.ResumeInsights{ResumeID: 7, Major: "Computer Science"}
	f.completer.reply = partialScores

	_, err := f.matching().ComputeMatch(context.Background(), 42, 7)
	require.NoError(t, err)

	p := f.completer.lastPrompt()
	assert.Contains(t, p, `JobRequirements: {"degree":"Bachelor's","major":"","skills":[{"skill":"Go","weight":8}],"experience":"","language":""}`)
	assert.Contains(t, p, `ResumeInsights: {"degree":"","major":"Computer Science","skills":[],"experience":"","language":""}`)
}

func TestMatching_AllVacuousOverallIsOne(t *testing.T) {
	f := newFixture()
	f.completer.reply = `{"degree":"0","major":"0","skill":"0","experience":"0","language":"0","overall":"0"}`

	view, err := f.matching().ComputeMatch(context.Background(), 42, 7)
	require.NoError(t, err)
	assert.Equal(t, "1.00", view.Index.Overall.StringFixed(2))
}

func TestMatching_RecomputeKeepsIdentity(t *testing.T) {
	f := newFixture()
	f.jobReqs.rows[42] = insight.JobRequirements{
		JobID: 42, Degree: "Bachelor's", Major: "Computer Science",
		Skills: []insight.Skill{{Skill: "Go", Weight: 8}}, Experience: "3+ years", Language: "English",
	}
	uc := f.matching()

	f.completer.reply = partialScores
	first, err := uc.ComputeMatch(context.Background(), 42, 7)
	require.NoError(t, err)

	f.completer.reply = `{"degree":"1","major":"1","skill":"0.10","experience":"1","language":"1","overall":"0.20"}`
	second, err := uc.ComputeMatch(context.Background(), 42, 7)
	require.NoError(t, err)

	assert.Equal(t, first.Index.ID, second.Index.ID)
	assert.Len(t, f.matches.rows, 1)
	assert.Equal(t, "0.20", second.Index.Overall.StringFixed(2))

	stored, err := uc.FindMatch(context.Background(), 42, 7)
	require.NoError(t, err)
	assert.Equal(t, first.Index.ID, stored.Index.ID)
	assert.Equal(t, "0.20", stored.Index.Overall.StringFixed(2))
	assert.Equal(t, "0.10", stored.Index.Skill.StringFixed(2))
}

func TestMatching_UnresolvableResumeWritesNothing(t *testing.T) {
	f := newFixture()
	f.completer.reply = partialScores

	_, err := f.matching().ComputeMatch(context.Background(), 42, 404)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResourceNotFound))
	assert.Equal(t, 0, f.matches.writes)
	assert.Empty(t, f.notifier.views)
}

func TestMatching_UnresolvableJobWritesNothing(t *testing.T) {
	f := newFixture()
	f.completer.reply = partialScores

	_, err := f.matching().ComputeMatch(context.Background(), 404, 7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResourceNotFound))
	assert.Equal(t, 0, f.matches.writes)
}

func TestMatching_OutOfRangeScoreRejected(t *testing.T) {
	f := newFixture()
	f.completer.reply = `{"degree":"1.20","major":"1","skill":"1","experience":"1","language":"1","overall":"1"}`

	_, err := f.matching().ComputeMatch(context.Background(), 42, 7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExtractionFailed))
	assert.True(t, errors.Is(err, parser.ErrMalformedResult))
	assert.Equal(t, 0, f.matches.writes)
}

func TestMatching_ConcurrentSamePairRejected(t *testing.T) {
	f := newFixture()
	f.completer.reply = partialScores
	f.locker = heldLocker{held: map[string]bool{matchLockKey(42, 7): true}}

	_, err := f.matching().ComputeMatch(context.Background(), 42, 7)
	assert.True(t, errors.Is(err, ErrInProgress))
	assert.Equal(t, 0, f.completer.calls())
}

func TestMatching_FindMatch(t *testing.T) {
	f := newFixture()
	uc := f.matching()

	_, err := uc.FindMatch(context.Background(), 42, 7)
	assert.True(t, errors.Is(err, ErrResourceNotFound))
	assert.Equal(t, 0, f.completer.calls())

	f.completer.reply = partialScores
	computed, err := uc.ComputeMatch(context.Background(), 42, 7)
	require.NoError(t, err)

	found, err := uc.FindMatch(context.Background(), 42, 7)
	require.NoError(t, err)
	assert.Equal(t, computed.Index.ID, found.Index.ID)
	assert.Equal(t, "Acme", found.Job.Company)
	assert.Equal(t, 1, f.completer.calls())
}
