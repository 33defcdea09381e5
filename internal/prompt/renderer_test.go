package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_JobRequirements(t *testing.T) {
	r := MustNewRenderer()

	out, err := r.Render(JobRequirements, map[string]string{VarJobDescription: "Java backend engineer, 3+ years"})
	require.NoError(t, err)

	assert.Contains(t, out, "Job Description: Java backend engineer, 3+ years")
	assert.Contains(t, out, `{"skill": "Java"}`)
	// The job example carries no weight; only the instruction asks for one.
	assert.NotContains(t, out, `"weight"`)
	assert.NotContains(t, out, "{{")
}

func TestRender_ResumeInsightsIncludesWeights(t *testing.T) {
	r := MustNewRenderer()

	out, err := r.Render(ResumeInsights, map[string]string{VarResume: "Jane Doe, Go developer"})
	require.NoError(t, err)

	assert.Contains(t, out, "Resume: Jane Doe, Go developer")
	assert.Contains(t, out, `{"skill": "Java", "weight": 5}`)
}

func TestRender_Matching(t *testing.T) {
	r := MustNewRenderer()

	out, err := r.Render(Matching, map[string]string{
		VarResumeInsights:  `{"degree":"Master's"}`,
		VarJobRequirements: `{"degree":"Bachelor's"}`,
	})
	require.NoError(t, err)

	assert.Contains(t, out, `ResumeInsights: {"degree":"Master's"}`)
	assert.Contains(t, out, `JobRequirements: {"degree":"Bachelor's"}`)
	for _, field := range []string{"degree", "major", "skill", "experience", "language", "overall"} {
		assert.Contains(t, out, `"`+field+`": "0.00"`)
	}
}

func TestRender_JobSkills(t *testing.T) {
	r := MustNewRenderer()

	out, err := r.Render(JobSkills, map[string]string{VarJobDescription: "Go, Kafka"})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "]"))
}

func TestRender_MissingVariable(t *testing.T) {
	r := MustNewRenderer()

	_, err := r.Render(Matching, map[string]string{VarResumeInsights: "{}"})
	require.Error(t, err)
}

func TestRender_UnknownTemplate(t *testing.T) {
	r := MustNewRenderer()

	_, err := r.Render(TemplateID("cover_letter"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTemplate))
}

func TestRender_DoesNotInterpretVariableContent(t *testing.T) {
	r := MustNewRenderer()

	out, err := r.Render(JobSkills, map[string]string{VarJobDescription: "use {{.secret}} <b>tags</b>"})
	require.NoError(t, err)
	assert.Contains(t, out, "use {{.secret}} <b>tags</b>")
}
