package prompt

import (
	"embed"
	"errors"
	"fmt"
	"strings"
	"text/template"
)

type TemplateID string

const (
	JobRequirements TemplateID = "job_requirements"
	ResumeInsights  TemplateID = "resume_insights"
	Matching        TemplateID = "matching"
	JobSkills       TemplateID = "job_skills"
)

// Variable names referenced by the templates.
const (
	VarJobDescription  = "jobDescription"
	VarResume          = "resume"
	VarResumeInsights  = "resumeInsights"
	VarJobRequirements = "jobRequirements"
)

var ErrUnknownTemplate = errors.New("unknown prompt template")

//go:embed templates/*.tmpl
var templateFS embed.FS

// Renderer fills the embedded instruction templates. It is safe for
// concurrent use.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.New("prompts").Option("missingkey=error").ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse prompt templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

// MustNewRenderer is NewRenderer for package-level wiring; the templates are
// compiled into the binary so a parse failure is a programming error.
func MustNewRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Renderer) Render(id TemplateID, vars map[string]string) (string, error) {
	if r == nil || r.templates == nil {
		return "", errors.New("nil renderer")
	}
	t := r.templates.Lookup(string(id) + ".tmpl")
	if t == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, id)
	}
	if vars == nil {
		vars = map[string]string{}
	}

	var sb strings.Builder
	if err := t.Execute(&sb, vars); err != nil {
		return "", fmt.Errorf("render %s: %w", id, err)
	}
	return strings.TrimSpace(sb.String()), nil
}
