package selector

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/prepforge/mocktest-service/internal/errors"
	"github.com/prepforge/mocktest-service/internal/models"
)

func makeQuestion(t *testing.T, id uint, subject string, difficulty models.DifficultyLevel) models.Question {
	t.Helper()
	q := models.Question{
		ID:           id,
		Subject:      subject,
		Difficulty:   difficulty,
		Text:         fmt.Sprintf("Question %d", id),
		CorrectIndex: 2,
	}
	require.NoError(t, q.SetOptions([]string{"A", "B", "C", "D"}))
	return q
}

// makePool builds a pool with the given per-difficulty counts for one subject.
func makePool(t *testing.T, subject string, easy, medium, hard int, startID uint) []models.Question {
	t.Helper()
	var pool []models.Question
	id := startID
	for _, spec := range []struct {
		level models.DifficultyLevel
		count int
	}{
		{models.DifficultyEasy, easy},
		{models.DifficultyMedium, medium},
		{models.DifficultyHard, hard},
	} {
		for i := 0; i < spec.count; i++ {
			pool = append(pool, makeQuestion(t, id, subject, spec.level))
			id++
		}
	}
	return pool
}

func countByDifficulty(questions []models.TestQuestion) map[models.DifficultyLevel]int {
	counts := make(map[models.DifficultyLevel]int)
	for _, q := range questions {
		counts[q.Difficulty]++
	}
	return counts
}

func TestSelect_ExactCountAndNoDuplicates(t *testing.T) {
	pool := makePool(t, "Physics", 20, 20, 20, 1)
	pattern := &models.ExamPattern{
		Name:             "Physics Drill",
		Type:             models.PatternSubjectWise,
		TotalQuestions:   30,
		TimeLimitMinutes: 45,
		DifficultyDistribution: map[models.DifficultyLevel]float64{
			models.DifficultyEasy:   0.40,
			models.DifficultyMedium: 0.45,
			models.DifficultyHard:   0.15,
		},
		ShuffleQuestions: true,
	}

	instance, err := New(WithSeed(7)).Select(context.Background(), pool, pattern)

	require.NoError(t, err)
	assert.Len(t, instance.Questions, 30)
	assert.NotEmpty(t, instance.ID)
	assert.Equal(t, "Physics Drill", instance.PatternName)

	seen := make(map[uint]bool)
	for _, q := range instance.Questions {
		assert.False(t, seen[q.QuestionID], "question %d selected twice", q.QuestionID)
		seen[q.QuestionID] = true
	}
}

func TestSelect_LargestRemainderRounding(t *testing.T) {
	// 15 questions at 40/45/15 gives exact counts 6.0, 6.75, 2.25.
	// Floors assign 6+6+2=14; the leftover seat goes to Medium.
	pool := makePool(t, "Chemistry", 10, 10, 10, 1)
	pattern := &models.ExamPattern{
		Name:             "Rounding Check",
		Type:             models.PatternSubjectWise,
		TotalQuestions:   15,
		TimeLimitMinutes: 20,
		DifficultyDistribution: map[models.DifficultyLevel]float64{
			models.DifficultyEasy:   0.40,
			models.DifficultyMedium: 0.45,
			models.DifficultyHard:   0.15,
		},
	}

	instance, err := New(WithSeed(1)).Select(context.Background(), pool, pattern)

	require.NoError(t, err)
	counts := countByDifficulty(instance.Questions)
	assert.Equal(t, 6, counts[models.DifficultyEasy])
	assert.Equal(t, 7, counts[models.DifficultyMedium])
	assert.Equal(t, 2, counts[models.DifficultyHard])
}

func TestSelect_SubjectQuotas(t *testing.T) {
	pool := append(makePool(t, "Physics", 10, 10, 10, 1),
		makePool(t, "Chemistry", 10, 10, 10, 100)...)
	pattern := &models.ExamPattern{
		Name:             "Two Subjects",
		Type:             models.PatternFullMock,
		TotalQuestions:   20,
		TimeLimitMinutes: 40,
		Subjects: map[string]models.SubjectQuota{
			"Physics":   {QuestionCount: 12, Weight: 0.6},
			"Chemistry": {QuestionCount: 8, Weight: 0.4},
		},
	}

	instance, err := New(WithSeed(3)).Select(context.Background(), pool, pattern)

	require.NoError(t, err)
	subjectCounts := make(map[string]int)
	for _, q := range instance.Questions {
		subjectCounts[q.Subject]++
	}
	assert.Equal(t, 12, subjectCounts["Physics"])
	assert.Equal(t, 8, subjectCounts["Chemistry"])
}

func TestSelect_SeedDeterminism(t *testing.T) {
	pool := makePool(t, "Mathematics", 15, 15, 15, 1)
	pattern := &models.ExamPattern{
		Name:             "Deterministic",
		Type:             models.PatternSubjectWise,
		TotalQuestions:   20,
		TimeLimitMinutes: 30,
		DifficultyDistribution: map[models.DifficultyLevel]float64{
			models.DifficultyEasy:   0.50,
			models.DifficultyMedium: 0.35,
			models.DifficultyHard:   0.15,
		},
		ShuffleQuestions: true,
		ShuffleOptions:   true,
	}

	first, err := New(WithSeed(42)).Select(context.Background(), pool, pattern)
	require.NoError(t, err)
	second, err := New(WithSeed(42)).Select(context.Background(), pool, pattern)
	require.NoError(t, err)

	require.Len(t, second.Questions, len(first.Questions))
	for i := range first.Questions {
		assert.Equal(t, first.Questions[i].QuestionID, second.Questions[i].QuestionID)
		assert.Equal(t, first.Questions[i].Options, second.Questions[i].Options)
		assert.Equal(t, first.Questions[i].CorrectIndex, second.Questions[i].CorrectIndex)
	}
}

func TestSelect_BorrowsFromNearestDifficulty(t *testing.T) {
	// Only 1 hard question for a target of 2; the shortfall is covered by
	// Medium, the nearest bucket.
	pool := makePool(t, "Physics", 10, 10, 1, 1)
	pattern := &models.ExamPattern{
		Name:             "Short Hard Bucket",
		Type:             models.PatternSubjectWise,
		TotalQuestions:   10,
		TimeLimitMinutes: 15,
		DifficultyDistribution: map[models.DifficultyLevel]float64{
			models.DifficultyEasy:   0.40,
			models.DifficultyMedium: 0.40,
			models.DifficultyHard:   0.20,
		},
	}

	instance, err := New(WithSeed(9)).Select(context.Background(), pool, pattern)

	require.NoError(t, err)
	counts := countByDifficulty(instance.Questions)
	assert.Len(t, instance.Questions, 10)
	assert.Equal(t, 1, counts[models.DifficultyHard])
	assert.Equal(t, 5, counts[models.DifficultyMedium])
	assert.Equal(t, 4, counts[models.DifficultyEasy])
}

func TestSelect_InsufficientQuestions(t *testing.T) {
	pool := makePool(t, "Chemistry", 2, 2, 1, 1)
	pattern := &models.ExamPattern{
		Name:             "Too Big",
		Type:             models.PatternFullMock,
		TotalQuestions:   10,
		TimeLimitMinutes: 20,
		Subjects: map[string]models.SubjectQuota{
			"Chemistry": {QuestionCount: 10, Weight: 1.0},
		},
	}

	_, err := New(WithSeed(1)).Select(context.Background(), pool, pattern)

	require.Error(t, err)
	var insufficientErr *apperrors.InsufficientQuestionsError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, "Chemistry", insufficientErr.Subject)
	assert.Equal(t, 10, insufficientErr.Required)
	assert.Equal(t, 5, insufficientErr.Available)
}

func TestSelect_OptionShuffleRemapsCorrectIndex(t *testing.T) {
	pool := makePool(t, "Physics", 5, 5, 5, 1)
	pattern := &models.ExamPattern{
		Name:             "Shuffled Options",
		Type:             models.PatternSubjectWise,
		TotalQuestions:   10,
		TimeLimitMinutes: 15,
		ShuffleOptions:   true,
	}

	instance, err := New(WithSeed(11)).Select(context.Background(), pool, pattern)

	require.NoError(t, err)
	for _, q := range instance.Questions {
		// Every source question marks "C" as correct; after shuffling the
		// remapped index must still point at it.
		require.GreaterOrEqual(t, q.CorrectIndex, 0)
		require.Less(t, q.CorrectIndex, len(q.Options))
		assert.Equal(t, "C", q.Options[q.CorrectIndex])
	}
}

func TestSelect_OptionShuffleRemapAcrossSeeds(t *testing.T) {
	// Every permutation must leave the remapped index pointing at the
	// originally correct option, regardless of where it lands.
	pool := makePool(t, "Chemistry", 4, 4, 4, 1)
	pattern := &models.ExamPattern{
		Name:             "Remap Sweep",
		Type:             models.PatternSubjectWise,
		TotalQuestions:   12,
		TimeLimitMinutes: 20,
		ShuffleOptions:   true,
	}

	for seed := int64(0); seed < 100; seed++ {
		instance, err := New(WithSeed(seed)).Select(context.Background(), pool, pattern)
		require.NoError(t, err)
		for _, q := range instance.Questions {
			require.Equal(t, "C", q.Options[q.CorrectIndex],
				"seed %d question %d: options=%v correctIndex=%d",
				seed, q.QuestionID, q.Options, q.CorrectIndex)
		}
	}
}

func TestSelect_PYQTypeNeverShufflesOptions(t *testing.T) {
	pool := makePool(t, "Physics", 5, 0, 0, 1)
	pattern := &models.ExamPattern{
		Name:             "Derived Paper",
		Type:             models.PatternPYQ,
		TotalQuestions:   5,
		TimeLimitMinutes: 10,
		ShuffleOptions:   true,
	}

	instance, err := New(WithSeed(8)).Select(context.Background(), pool, pattern)

	require.NoError(t, err)
	for _, q := range instance.Questions {
		assert.Equal(t, []string{"A", "B", "C", "D"}, q.Options)
		assert.Equal(t, 2, q.CorrectIndex)
	}
}

func TestSelect_PreservesOrderWithoutShuffle(t *testing.T) {
	pool := makePool(t, "Physics", 3, 0, 0, 1)
	pattern := &models.ExamPattern{
		Name:             "Printed Order",
		Type:             models.PatternPYQ,
		TotalQuestions:   3,
		TimeLimitMinutes: 10,
		ShuffleQuestions: false,
		ShuffleOptions:   false,
	}

	instance, err := New(WithSeed(5)).Select(context.Background(), pool, pattern)

	require.NoError(t, err)
	require.Len(t, instance.Questions, 3)
	for _, q := range instance.Questions {
		assert.Equal(t, []string{"A", "B", "C", "D"}, q.Options)
		assert.Equal(t, 2, q.CorrectIndex)
	}
}
