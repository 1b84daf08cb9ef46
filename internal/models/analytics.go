package models

import "time"

type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// SubjectStats accumulates performance for one subject across all tests.
type SubjectStats struct {
	TotalTests     int       `json:"total_tests"`
	TotalQuestions int       `json:"total_questions"`
	CorrectAnswers int       `json:"correct_answers"`
	AverageScore   float64   `json:"average_score"` // cumulative correct rate, 0-100
	BestScore      float64   `json:"best_score"`    // best single-test subject rate, 0-100
	LastTestDate   time.Time `json:"last_test_date"`
}

// TestTimeStats captures pacing for one completed test.
type TestTimeStats struct {
	TotalSeconds          int     `json:"total_seconds"`
	QuestionCount         int     `json:"question_count"`
	AvgSecondsPerQuestion float64 `json:"avg_seconds_per_question"`
}

// ProgressPoint is one entry in the rolling progress series.
type ProgressPoint struct {
	Date  time.Time   `json:"date"`
	Score float64     `json:"score"` // percentage, 0-100
	Type  PatternType `json:"type"`
	Trend Trend       `json:"trend"`
}

// AnalyticsState is the aggregate persisted as a single blob. It is owned
// exclusively by the analytics aggregator; nothing else mutates it.
type AnalyticsState struct {
	TestHistory        []TestResult             `json:"test_history"`
	SubjectPerformance map[string]*SubjectStats `json:"subject_performance"`
	TimeAnalytics      map[string]TestTimeStats `json:"time_analytics"` // result id -> stats
	ProgressTracking   []ProgressPoint          `json:"progress_tracking"`
}

// NewAnalyticsState returns a state with all containers empty.
func NewAnalyticsState() *AnalyticsState {
	return &AnalyticsState{
		TestHistory:        []TestResult{},
		SubjectPerformance: map[string]*SubjectStats{},
		TimeAnalytics:      map[string]TestTimeStats{},
		ProgressTracking:   []ProgressPoint{},
	}
}

// Normalize replaces nil containers with empty ones. Used after loading a
// persisted blob so missing fields fall back to defaults.
func (s *AnalyticsState) Normalize() {
	if s.TestHistory == nil {
		s.TestHistory = []TestResult{}
	}
	if s.SubjectPerformance == nil {
		s.SubjectPerformance = map[string]*SubjectStats{}
	}
	if s.TimeAnalytics == nil {
		s.TimeAnalytics = map[string]TestTimeStats{}
	}
	if s.ProgressTracking == nil {
		s.ProgressTracking = []ProgressPoint{}
	}
}

// ===== REPORT STRUCTURES =====

type Overview struct {
	TotalTests       int       `json:"total_tests"`
	AverageScore     float64   `json:"average_score"`
	BestScore        float64   `json:"best_score"`
	TotalTimeSeconds int       `json:"total_time_seconds"`
	LastTestDate     time.Time `json:"last_test_date"`
}

type TimeAnalysis struct {
	AvgSecondsPerQuestion float64 `json:"avg_seconds_per_question"`
	TotalTimeSeconds      int     `json:"total_time_seconds"`
	TestCount             int     `json:"test_count"`
}

type ProgressAnalysis struct {
	CurrentTrend  Trend   `json:"current_trend"`
	Improvement   float64 `json:"improvement"` // recent mean minus prior mean
	RecentAverage float64 `json:"recent_average"`
	TotalPoints   int     `json:"total_points"`
}

type RecommendationPriority string

const (
	PriorityHigh RecommendationPriority = "high"
	PriorityLow  RecommendationPriority = "low"
)

type Recommendation struct {
	Subject  string                 `json:"subject,omitempty"`
	Priority RecommendationPriority `json:"priority"`
	Message  string                 `json:"message"`
}

// Report is the on-demand analytics snapshot. Section pointers are nil when
// there is no history to report on.
type Report struct {
	Overview         *Overview               `json:"overview"`
	SubjectAnalysis  map[string]SubjectStats `json:"subject_analysis"`
	TimeAnalysis     *TimeAnalysis           `json:"time_analysis"`
	ProgressAnalysis *ProgressAnalysis       `json:"progress_analysis"`
	Recommendations  []Recommendation        `json:"recommendations"`
	GeneratedAt      time.Time               `json:"generated_at"`
}
