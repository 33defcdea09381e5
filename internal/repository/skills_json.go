package repository

import (
	"encoding/json"

	"talent-match/internal/domain/insight"
)

func encodeSkills(skills []insight.Skill) (string, error) {
	if skills == nil {
		skills = []insight.Skill{}
	}
	b, err := json.Marshal(skills)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeSkills(b []byte) ([]insight.Skill, error) {
	out := []insight.Skill{}
	if len(b) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
