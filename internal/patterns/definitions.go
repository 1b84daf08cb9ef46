package patterns

import "github.com/prepforge/mocktest-service/internal/models"

// builtinPatterns returns the static exam-pattern definitions. Quotas sum to
// TotalQuestions, weights to 1.0 and difficulty fractions to 1.0; tests
// re-check the arithmetic through the validator.
func builtinPatterns() []*models.ExamPattern {
	return []*models.ExamPattern{
		{
			Name:             "Full Mock Test",
			Type:             models.PatternFullMock,
			TotalQuestions:   100,
			TimeLimitMinutes: 180,
			Subjects: map[string]models.SubjectQuota{
				"Physics":     {QuestionCount: 25, Weight: 0.25, TimeAllocationMinutes: 45},
				"Chemistry":   {QuestionCount: 25, Weight: 0.25, TimeAllocationMinutes: 45},
				"Mathematics": {QuestionCount: 50, Weight: 0.50, TimeAllocationMinutes: 90},
			},
			DifficultyDistribution: map[models.DifficultyLevel]float64{
				models.DifficultyEasy:   0.30,
				models.DifficultyMedium: 0.50,
				models.DifficultyHard:   0.20,
			},
			MarkingScheme:     models.MarkingScheme{Positive: 4, Negative: 1, Unanswered: 0},
			PassingPercentage: 50,
			ShuffleQuestions:  true,
			ShuffleOptions:    true,
			AllowReview:       true,
			AllowBookmark:     true,
		},
		{
			Name:             "Subject Practice",
			Type:             models.PatternSubjectWise,
			TotalQuestions:   30,
			TimeLimitMinutes: 45,
			DifficultyDistribution: map[models.DifficultyLevel]float64{
				models.DifficultyEasy:   0.40,
				models.DifficultyMedium: 0.45,
				models.DifficultyHard:   0.15,
			},
			MarkingScheme:     models.MarkingScheme{Positive: 4, Negative: 1, Unanswered: 0},
			PassingPercentage: 40,
			ShuffleQuestions:  true,
			ShuffleOptions:    true,
			AllowReview:       true,
			AllowBookmark:     true,
		},
		{
			Name:             "Chapter Drill",
			Type:             models.PatternChapterWise,
			TotalQuestions:   20,
			TimeLimitMinutes: 30,
			DifficultyDistribution: map[models.DifficultyLevel]float64{
				models.DifficultyEasy:   0.50,
				models.DifficultyMedium: 0.35,
				models.DifficultyHard:   0.15,
			},
			MarkingScheme:     models.MarkingScheme{Positive: 4, Negative: 0, Unanswered: 0},
			PassingPercentage: 40,
			ShuffleQuestions:  true,
			ShuffleOptions:    true,
			AllowReview:       true,
			AllowBookmark:     false,
		},
		{
			// Previous-year papers keep their printed question and option order.
			Name:             "Previous Year Paper",
			Type:             models.PatternPYQ,
			TotalQuestions:   50,
			TimeLimitMinutes: 90,
			MarkingScheme:    models.MarkingScheme{Positive: 4, Negative: 1, Unanswered: 0},
			PassingPercentage: 50,
			ShuffleQuestions: false,
			ShuffleOptions:   false,
			AllowReview:      true,
			AllowBookmark:    true,
		},
		{
			Name:             "Quick Test",
			Type:             models.PatternQuickTest,
			TotalQuestions:   10,
			TimeLimitMinutes: 15,
			DifficultyDistribution: map[models.DifficultyLevel]float64{
				models.DifficultyEasy:   0.40,
				models.DifficultyMedium: 0.40,
				models.DifficultyHard:   0.20,
			},
			MarkingScheme:     models.MarkingScheme{Positive: 1, Negative: 0, Unanswered: 0},
			PassingPercentage: 60,
			ShuffleQuestions:  true,
			ShuffleOptions:    true,
			AllowReview:       false,
			AllowBookmark:     false,
		},
	}
}
