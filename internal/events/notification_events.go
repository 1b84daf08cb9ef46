package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/prepforge/mocktest-service/internal/models"
)

// EventType represents different types of notification events
type EventType string

const (
	EventTestCompleted      EventType = "test.completed"
	EventAnalyticsGenerated EventType = "analytics.generated"
	EventAnalyticsCleared   EventType = "analytics.cleared"
)

const eventSource = "mocktest-service"

// NotificationEvent is the base event structure for all notification events
type NotificationEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// TestCompletedEvent carries the scored outcome of one test.
type TestCompletedEvent struct {
	ResultID         string             `json:"result_id"`
	PatternName      string             `json:"pattern_name"`
	PatternType      models.PatternType `json:"pattern_type"`
	Score            float64            `json:"score"`
	Percentage       float64            `json:"percentage"`
	CorrectAnswers   int                `json:"correct_answers"`
	TotalQuestions   int                `json:"total_questions"`
	TimeSpentSeconds int                `json:"time_spent_seconds"`
	Passed           bool               `json:"passed"`
	CompletedAt      time.Time          `json:"completed_at"`
}

// AnalyticsGeneratedEvent carries the headline figures of a fresh report.
type AnalyticsGeneratedEvent struct {
	TotalTests   int          `json:"total_tests"`
	AverageScore float64      `json:"average_score"`
	BestScore    float64      `json:"best_score"`
	CurrentTrend models.Trend `json:"current_trend"`
	GeneratedAt  time.Time    `json:"generated_at"`
}

// Event factory functions

func NewTestCompletedEvent(result *models.TestResult) *NotificationEvent {
	return &NotificationEvent{
		ID:        GenerateEventID(),
		Type:      EventTestCompleted,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data: TestCompletedEvent{
			ResultID:         result.ID,
			PatternName:      result.PatternName,
			PatternType:      result.Type,
			Score:            result.Score,
			Percentage:       result.Percentage,
			CorrectAnswers:   result.CorrectAnswers,
			TotalQuestions:   result.TotalQuestions,
			TimeSpentSeconds: result.TimeSpentSeconds,
			Passed:           result.Passed,
			CompletedAt:      result.Date,
		},
	}
}

func NewAnalyticsGeneratedEvent(report *models.Report) *NotificationEvent {
	data := AnalyticsGeneratedEvent{
		GeneratedAt: report.GeneratedAt,
	}
	if report.Overview != nil {
		data.TotalTests = report.Overview.TotalTests
		data.AverageScore = report.Overview.AverageScore
		data.BestScore = report.Overview.BestScore
	}
	if report.ProgressAnalysis != nil {
		data.CurrentTrend = report.ProgressAnalysis.CurrentTrend
	}

	return &NotificationEvent{
		ID:        GenerateEventID(),
		Type:      EventAnalyticsGenerated,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data:      data,
	}
}

func NewAnalyticsClearedEvent() *NotificationEvent {
	return &NotificationEvent{
		ID:        GenerateEventID(),
		Type:      EventAnalyticsCleared,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
	}
}

// GenerateEventID returns a unique id for a notification event.
func GenerateEventID() string {
	return uuid.NewString()
}
