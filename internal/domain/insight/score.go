package insight

import "github.com/shopspring/decimal"

var (
	ScoreMin = decimal.Zero
	ScoreMax = decimal.NewFromInt(1)
)

// ValidScore reports whether d lies in [0, 1] with at most two decimal places.
func ValidScore(d decimal.Decimal) bool {
	if d.LessThan(ScoreMin) || d.GreaterThan(ScoreMax) {
		return false
	}
	return d.Equal(d.Truncate(2))
}

// ApplyVacuousMatches forces the score of every dimension the job leaves
// unspecified to 1.00. A nil job counts as fully unspecified. When all five
// dimensions are vacuous the overall score is 1.00 as well; otherwise Overall
// keeps the model's value and is not recomputed from the forced dimensions.
func (m *MatchingIndex) ApplyVacuousMatches(req *JobRequirements) {
	if m == nil {
		return
	}
	if req == nil {
		req = &JobRequirements{}
	}

	vacuous := 0
	set := func(dst *decimal.Decimal, unspecified bool) {
		if unspecified {
			*dst = ScoreMax
			vacuous++
		}
	}
	set(&m.Degree, isBlank(req.Degree))
	set(&m.Major, isBlank(req.Major))
	set(&m.Skill, !hasSkills(req.Skills))
	set(&m.Experience, isBlank(req.Experience))
	set(&m.Language, isBlank(req.Language))

	if vacuous == 5 {
		m.Overall = ScoreMax
	}
}
