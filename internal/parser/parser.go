// Package parser decodes completion output into insight records. Model output
// is untrusted: every required field is checked before a record is built and
// nothing is clamped or guessed.
package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"talent-match/internal/domain/insight"

	"github.com/shopspring/decimal"
)

var ErrMalformedResult = errors.New("malformed model result")

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedResult, fmt.Sprintf(format, args...))
}

var insightFields = []string{"degree", "major", "skills", "experience", "language"}

var matchFields = []string{"degree", "major", "skill", "experience", "language", "overall"}

// StripFences removes a surrounding markdown code fence, if any.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func ParseJobRequirements(raw string) (insight.JobRequirements, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return insight.JobRequirements{}, err
	}
	f, err := readInsightFields(obj, jobWeight)
	if err != nil {
		return insight.JobRequirements{}, err
	}
	return insight.JobRequirements{
		Degree:     f.degree,
		Major:      f.major,
		Skills:     f.skills,
		Experience: f.experience,
		Language:   f.language,
	}, nil
}

func ParseResumeInsights(raw string) (insight.ResumeInsights, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return insight.ResumeInsights{}, err
	}
	f, err := readInsightFields(obj, resumeWeight)
	if err != nil {
		return insight.ResumeInsights{}, err
	}
	return insight.ResumeInsights{
		Degree:     f.degree,
		Major:      f.major,
		Skills:     f.skills,
		Experience: f.experience,
		Language:   f.language,
	}, nil
}

func ParseMatchingIndex(raw string) (insight.MatchingIndex, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return insight.MatchingIndex{}, err
	}
	if err := requireFields(obj, matchFields...); err != nil {
		return insight.MatchingIndex{}, err
	}

	var m insight.MatchingIndex
	for _, it := range []struct {
		name string
		dst  *decimal.Decimal
	}{
		{"degree", &m.Degree},
		{"major", &m.Major},
		{"skill", &m.Skill},
		{"experience", &m.Experience},
		{"language", &m.Language},
		{"overall", &m.Overall},
	} {
		d, err := scoreValue(it.name, obj[it.name])
		if err != nil {
			return insight.MatchingIndex{}, err
		}
		*it.dst = d
	}
	return m, nil
}

// ParseSkills decodes a bare skill list, as returned by the skills-only
// prompt. Weights are optional and follow the job requirement rules.
func ParseSkills(raw string) ([]insight.Skill, error) {
	text := StripFences(raw)
	if text == "" {
		return nil, malformed("empty payload")
	}
	var arr []json.RawMessage
	if err := json.Unmarshal([]byte(text), &arr); err != nil {
		return nil, malformed("expected a JSON array of skills: %v", err)
	}
	return readSkills("skills", arr, jobWeight)
}

func decodeObject(raw string) (map[string]json.RawMessage, error) {
	text := StripFences(raw)
	if text == "" {
		return nil, malformed("empty payload")
	}
	if !bytes.HasPrefix([]byte(text), []byte("{")) {
		return nil, malformed("expected a JSON object")
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, malformed("invalid JSON: %v", err)
	}
	return obj, nil
}

func requireFields(obj map[string]json.RawMessage, names ...string) error {
	var missing []string
	for _, n := range names {
		if _, ok := obj[n]; !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return malformed("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

type insightValues struct {
	degree     string
	major      string
	skills     []insight.Skill
	experience string
	language   string
}

func readInsightFields(obj map[string]json.RawMessage, wr weightRule) (insightValues, error) {
	if err := requireFields(obj, insightFields...); err != nil {
		return insightValues{}, err
	}

	var (
		out insightValues
		err error
	)
	if out.degree, err = stringValue("degree", obj["degree"]); err != nil {
		return insightValues{}, err
	}
	if out.major, err = stringValue("major", obj["major"]); err != nil {
		return insightValues{}, err
	}
	if out.experience, err = stringValue("experience", obj["experience"]); err != nil {
		return insightValues{}, err
	}
	if out.language, err = stringValue("language", obj["language"]); err != nil {
		return insightValues{}, err
	}

	var arr []json.RawMessage
	if !isNull(obj["skills"]) {
		if err := json.Unmarshal(obj["skills"], &arr); err != nil {
			return insightValues{}, malformed("skills: expected an array")
		}
	}
	if out.skills, err = readSkills("skills", arr, wr); err != nil {
		return insightValues{}, err
	}
	return out, nil
}

func readSkills(field string, arr []json.RawMessage, wr weightRule) ([]insight.Skill, error) {
	out := make([]insight.Skill, 0, len(arr))
	for i, item := range arr {
		var entry map[string]json.RawMessage
		if err := json.Unmarshal(item, &entry); err != nil || entry == nil {
			return nil, malformed("%s[%d]: expected an object", field, i)
		}
		rawName, ok := entry["skill"]
		if !ok {
			return nil, malformed("%s[%d]: missing skill", field, i)
		}
		name, err := stringValue(fmt.Sprintf("%s[%d].skill", field, i), rawName)
		if err != nil {
			return nil, err
		}
		name = strings.TrimSpace(name)
		if name == "" {
			// present but blank: nothing to record
			continue
		}

		weight := 0
		if rawWeight, ok := entry["weight"]; ok && !isNull(rawWeight) {
			weight, err = intValue(fmt.Sprintf("%s[%d].weight", field, i), rawWeight)
			if err != nil {
				return nil, err
			}
			if err := wr(fmt.Sprintf("%s[%d].weight", field, i), weight); err != nil {
				return nil, err
			}
		}
		out = append(out, insight.Skill{Skill: name, Weight: weight})
	}
	return out, nil
}

// weightRule validates a weight the model supplied explicitly.
type weightRule func(field string, w int) error

func jobWeight(field string, w int) error {
	if w < 1 || w > 10 {
		return malformed("%s: %d out of range 1-10", field, w)
	}
	return nil
}

func resumeWeight(field string, w int) error {
	if w < 0 {
		return malformed("%s: negative weight %d", field, w)
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
