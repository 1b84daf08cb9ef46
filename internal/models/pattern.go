package models

type PatternType string

const (
	PatternFullMock    PatternType = "full_mock"
	PatternSubjectWise PatternType = "subject_wise"
	PatternChapterWise PatternType = "chapter_wise"
	PatternCustom      PatternType = "custom"
	PatternPYQ         PatternType = "pyq"
	PatternQuickTest   PatternType = "quick_test"
)

// SubjectQuota describes how much of a test one subject contributes.
type SubjectQuota struct {
	QuestionCount         int     `json:"question_count" validate:"min=1"`
	Weight                float64 `json:"weight" validate:"min=0,max=1"`
	TimeAllocationMinutes int     `json:"time_allocation_minutes" validate:"min=0"`
}

// MarkingScheme holds per-question point values. Negative is stored as a
// positive magnitude; the scoring engine subtracts it for wrong answers.
type MarkingScheme struct {
	Positive   float64 `json:"positive" validate:"required"`
	Negative   float64 `json:"negative" validate:"min=0"`
	Unanswered float64 `json:"unanswered"`
}

// ExamPattern is a named test configuration. Patterns are built once at
// startup and never mutated; a derived custom pattern is always a copy.
type ExamPattern struct {
	Name             string      `json:"name" validate:"required,min=1,max=100"`
	Type             PatternType `json:"type" validate:"required,pattern_type"`
	TotalQuestions   int         `json:"total_questions" validate:"required,min=1"`
	TimeLimitMinutes float64     `json:"time_limit_minutes" validate:"required,min=1"`

	// Subjects is optional; when present, per-subject question counts must
	// sum to TotalQuestions and weights must sum to 1.0 within tolerance.
	Subjects map[string]SubjectQuota `json:"subjects,omitempty"`

	// DifficultyDistribution maps level to its fraction of each quota.
	// When present, fractions must sum to 1.0 within tolerance.
	DifficultyDistribution map[DifficultyLevel]float64 `json:"difficulty_distribution,omitempty"`

	MarkingScheme     MarkingScheme `json:"marking_scheme"`
	PassingPercentage float64       `json:"passing_percentage" validate:"min=0,max=100"`

	ShuffleQuestions bool `json:"shuffle_questions"`
	ShuffleOptions   bool `json:"shuffle_options"`
	AllowReview      bool `json:"allow_review"`
	AllowBookmark    bool `json:"allow_bookmark"`
}

// Clone returns a deep copy safe to modify without touching the original.
func (p *ExamPattern) Clone() *ExamPattern {
	clone := *p
	if p.Subjects != nil {
		clone.Subjects = make(map[string]SubjectQuota, len(p.Subjects))
		for subject, quota := range p.Subjects {
			clone.Subjects[subject] = quota
		}
	}
	if p.DifficultyDistribution != nil {
		clone.DifficultyDistribution = make(map[DifficultyLevel]float64, len(p.DifficultyDistribution))
		for level, fraction := range p.DifficultyDistribution {
			clone.DifficultyDistribution[level] = fraction
		}
	}
	return &clone
}
