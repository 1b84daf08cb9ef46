package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/prepforge/mocktest-service/internal/errors"
	"github.com/prepforge/mocktest-service/internal/models"
)

func testInstance() *models.TestInstance {
	return &models.TestInstance{
		ID:          "instance-1",
		PatternName: "Full Mock Test",
		PatternType: models.PatternFullMock,
		Questions: []models.TestQuestion{
			{QuestionID: 1, Subject: "Physics", Options: []string{"A", "B", "C", "D"}, CorrectIndex: 0},
			{QuestionID: 2, Subject: "Physics", Options: []string{"A", "B", "C", "D"}, CorrectIndex: 1},
			{QuestionID: 3, Subject: "Chemistry", Options: []string{"A", "B", "C", "D"}, CorrectIndex: 2},
			{QuestionID: 4, Subject: "Chemistry", Options: []string{"A", "B", "C", "D"}, CorrectIndex: 3},
		},
		CreatedAt: time.Now(),
	}
}

func testPattern() *models.ExamPattern {
	return &models.ExamPattern{
		Name:              "Full Mock Test",
		Type:              models.PatternFullMock,
		TotalQuestions:    4,
		TimeLimitMinutes:  10,
		MarkingScheme:     models.MarkingScheme{Positive: 4, Negative: 1, Unanswered: 0},
		PassingPercentage: 50,
	}
}

func TestScore_MixedResponses(t *testing.T) {
	engine := NewEngine()
	responses := models.ResponseSet{
		1: {SelectedIndex: 0, TimeSpentSeconds: 30}, // correct
		2: {SelectedIndex: 3, TimeSpentSeconds: 45}, // incorrect
		3: {SelectedIndex: 2, TimeSpentSeconds: 25}, // correct
		// question 4 unanswered
	}

	result, err := engine.Score(testInstance(), responses, testPattern())

	require.NoError(t, err)
	assert.Equal(t, "instance-1", result.ID)
	assert.Equal(t, models.PatternFullMock, result.Type)
	assert.Equal(t, 4, result.TotalQuestions)
	assert.Equal(t, 2, result.CorrectAnswers)
	assert.Equal(t, 1, result.IncorrectAnswers)
	assert.Equal(t, 1, result.UnansweredCount)
	assert.InDelta(t, 7.0, result.Score, 1e-9) // 4+4-1
	assert.InDelta(t, 50.0, result.Percentage, 1e-9)
	assert.True(t, result.Passed)
	assert.Equal(t, 100, result.TimeSpentSeconds)
}

func TestScore_SubjectBreakdown(t *testing.T) {
	engine := NewEngine()
	responses := models.ResponseSet{
		1: {SelectedIndex: 0},
		2: {SelectedIndex: 1},
		3: {SelectedIndex: 0},
	}

	result, err := engine.Score(testInstance(), responses, testPattern())

	require.NoError(t, err)
	require.Contains(t, result.Subjects, "Physics")
	require.Contains(t, result.Subjects, "Chemistry")
	assert.Equal(t, 2, result.Subjects["Physics"].Total)
	assert.Equal(t, 2, result.Subjects["Physics"].Correct)
	assert.Equal(t, 2, result.Subjects["Chemistry"].Total)
	assert.Equal(t, 0, result.Subjects["Chemistry"].Correct)
	assert.InDelta(t, 100.0, result.Subjects["Physics"].Percentage(), 1e-9)
	assert.InDelta(t, 0.0, result.Subjects["Chemistry"].Percentage(), 1e-9)
}

func TestScore_ExplicitUnanswered(t *testing.T) {
	engine := NewEngine()
	responses := models.ResponseSet{
		1: {SelectedIndex: models.UnansweredIndex, TimeSpentSeconds: 10},
	}

	result, err := engine.Score(testInstance(), responses, testPattern())

	require.NoError(t, err)
	assert.Equal(t, 0, result.CorrectAnswers)
	assert.Equal(t, 0, result.IncorrectAnswers)
	assert.Equal(t, 4, result.UnansweredCount)
	assert.InDelta(t, 0.0, result.Score, 1e-9)
	assert.False(t, result.Passed)
}

func TestScore_NegativeRawScoreKeepsPercentageNonNegative(t *testing.T) {
	engine := NewEngine()
	responses := models.ResponseSet{
		1: {SelectedIndex: 1},
		2: {SelectedIndex: 0},
		3: {SelectedIndex: 0},
		4: {SelectedIndex: 0},
	}

	result, err := engine.Score(testInstance(), responses, testPattern())

	require.NoError(t, err)
	assert.InDelta(t, -4.0, result.Score, 1e-9)
	assert.InDelta(t, 0.0, result.Percentage, 1e-9)
	assert.False(t, result.Passed)
}

func TestScore_UnknownQuestionID(t *testing.T) {
	engine := NewEngine()
	responses := models.ResponseSet{
		99: {SelectedIndex: 0},
	}

	_, err := engine.Score(testInstance(), responses, testPattern())

	require.Error(t, err)
	var malformedErr *apperrors.MalformedResponseError
	require.ErrorAs(t, err, &malformedErr)
	assert.Equal(t, uint(99), malformedErr.QuestionID)
	assert.Equal(t, "instance-1", malformedErr.InstanceID)
}

func TestScore_Deterministic(t *testing.T) {
	engine := NewEngine()
	responses := models.ResponseSet{
		1: {SelectedIndex: 0, TimeSpentSeconds: 20},
		2: {SelectedIndex: 2, TimeSpentSeconds: 40},
	}

	first, err := engine.Score(testInstance(), responses, testPattern())
	require.NoError(t, err)
	second, err := engine.Score(testInstance(), responses, testPattern())
	require.NoError(t, err)

	first.Date = second.Date
	assert.Equal(t, first, second)
}
