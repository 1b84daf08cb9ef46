package models

import "time"

// SubjectBreakdown counts questions seen and answered correctly for one subject.
type SubjectBreakdown struct {
	Total   int `json:"total"`
	Correct int `json:"correct"`
}

// Percentage returns the correct rate as 0-100.
func (b SubjectBreakdown) Percentage() float64 {
	if b.Total == 0 {
		return 0
	}
	return float64(b.Correct) / float64(b.Total) * 100
}

// TestResult is the immutable outcome of scoring one test instance.
// Score is raw marks under the marking scheme; Percentage is the correct
// rate and is what passing and analytics trends are judged against.
type TestResult struct {
	ID               string                      `json:"id"`
	Date             time.Time                   `json:"date"`
	Type             PatternType                 `json:"type"`
	PatternName      string                      `json:"pattern_name"`
	Score            float64                     `json:"score"`
	Percentage       float64                     `json:"percentage"`
	TotalQuestions   int                         `json:"total_questions"`
	CorrectAnswers   int                         `json:"correct_answers"`
	IncorrectAnswers int                         `json:"incorrect_answers"`
	UnansweredCount  int                         `json:"unanswered_count"`
	TimeSpentSeconds int                         `json:"time_spent_seconds"`
	Passed           bool                        `json:"passed"`
	Subjects         map[string]SubjectBreakdown `json:"subjects"`
}
