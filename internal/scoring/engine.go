package scoring

import (
	"time"

	apperrors "github.com/prepforge/mocktest-service/internal/errors"
	"github.com/prepforge/mocktest-service/internal/models"
)

// Engine grades a submitted response set against a test instance under a
// pattern's marking scheme. Scoring is pure: the same instance, responses
// and pattern always produce the same result apart from the Date stamp.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Score computes the result for a completed test. Every response must refer
// to a question present in the instance; an unknown question id fails the
// whole submission with MalformedResponseError.
func (e *Engine) Score(instance *models.TestInstance, responses models.ResponseSet, pattern *models.ExamPattern) (*models.TestResult, error) {
	known := make(map[uint]bool, len(instance.Questions))
	for _, q := range instance.Questions {
		known[q.QuestionID] = true
	}
	for questionID := range responses {
		if !known[questionID] {
			return nil, &apperrors.MalformedResponseError{
				QuestionID: questionID,
				InstanceID: instance.ID,
			}
		}
	}

	result := &models.TestResult{
		ID:             instance.ID,
		Date:           time.Now(),
		Type:           instance.PatternType,
		PatternName:    instance.PatternName,
		TotalQuestions: len(instance.Questions),
		Subjects:       make(map[string]models.SubjectBreakdown),
	}

	totalTime := 0

	for _, q := range instance.Questions {
		breakdown := result.Subjects[q.Subject]
		breakdown.Total++

		response, answered := responses[q.QuestionID]
		if answered {
			totalTime += response.TimeSpentSeconds
		}

		switch {
		case !answered || response.SelectedIndex == models.UnansweredIndex:
			result.UnansweredCount++
			result.Score += pattern.MarkingScheme.Unanswered
		case response.SelectedIndex == q.CorrectIndex:
			result.CorrectAnswers++
			result.Score += pattern.MarkingScheme.Positive
			breakdown.Correct++
		default:
			result.IncorrectAnswers++
			result.Score -= pattern.MarkingScheme.Negative
		}

		result.Subjects[q.Subject] = breakdown
	}

	result.TimeSpentSeconds = totalTime
	// Percentage tracks answer accuracy, not raw marks; the raw score can go
	// negative under negative marking while the percentage never does.
	if result.TotalQuestions > 0 {
		result.Percentage = float64(result.CorrectAnswers) / float64(result.TotalQuestions) * 100
	}
	result.Passed = result.Percentage >= pattern.PassingPercentage

	return result, nil
}
