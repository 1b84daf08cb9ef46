package validator

import (
	"fmt"
	"math"

	"github.com/prepforge/mocktest-service/internal/models"
)

// sumTolerance is the allowed drift when fractions should add up to 1.0.
const sumTolerance = 0.01

// PatternResult reports every arithmetic inconsistency found in a pattern,
// in check order. Valid is true only when Errors is empty.
type PatternResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ValidatePattern checks a pattern's internal arithmetic consistency.
// All checks run; nothing short-circuits, so the caller gets the complete
// diagnostic list in one pass.
func (v *Validator) ValidatePattern(p *models.ExamPattern) PatternResult {
	var errs []string

	if p.TotalQuestions < 1 {
		errs = append(errs, fmt.Sprintf("total questions must be at least 1, got %d", p.TotalQuestions))
	}
	if p.TimeLimitMinutes < 1 {
		errs = append(errs, fmt.Sprintf("time limit must be at least 1 minute, got %g", p.TimeLimitMinutes))
	}

	if len(p.Subjects) > 0 {
		quotaSum := 0
		weightSum := 0.0
		for _, quota := range p.Subjects {
			quotaSum += quota.QuestionCount
			weightSum += quota.Weight
		}
		if quotaSum != p.TotalQuestions {
			errs = append(errs, fmt.Sprintf("subject quotas sum to %d but total questions is %d", quotaSum, p.TotalQuestions))
		}
		if math.Abs(weightSum-1.0) > sumTolerance {
			errs = append(errs, fmt.Sprintf("subject weights sum to %.2f, expected 1.00", weightSum))
		}
	}

	if len(p.DifficultyDistribution) > 0 {
		fractionSum := 0.0
		for _, fraction := range p.DifficultyDistribution {
			fractionSum += fraction
		}
		if math.Abs(fractionSum-1.0) > sumTolerance {
			errs = append(errs, fmt.Sprintf("difficulty distribution sums to %.2f, expected 1.00", fractionSum))
		}
	}

	return PatternResult{Valid: len(errs) == 0, Errors: errs}
}
