package insight

import "strings"

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func hasSkills(skills []Skill) bool {
	for _, s := range skills {
		if !isBlank(s.Skill) {
			return true
		}
	}
	return false
}
