package analytics

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/prepforge/mocktest-service/internal/events"
	"github.com/prepforge/mocktest-service/internal/models"
	"github.com/prepforge/mocktest-service/internal/repositories"
)

// StateKey is the fixed store key for the serialized analytics blob.
const StateKey = "analytics_state"

const (
	defaultProgressLimit = 50
	defaultHistoryLimit  = 200

	// trendWindow is how many prior progress points feed the trend baseline;
	// trendThreshold is the percentage-point swing that counts as a change.
	trendWindow    = 5
	trendThreshold = 5.0

	// improvementWindow splits the progress series into recent vs prior
	// halves for the improvement delta in reports.
	improvementWindow = 10
)

// Aggregator folds completed test results into running performance, pacing
// and trend statistics. It owns the AnalyticsState exclusively; all access
// goes through its mutex. Persistence and event publishing are best-effort
// and never fail the caller.
type Aggregator struct {
	mu        sync.Mutex
	state     *models.AnalyticsState
	store     repositories.StateStore
	publisher events.EventPublisher
	logger    *slog.Logger

	progressLimit int
	historyLimit  int
}

type Option func(*Aggregator)

func WithPublisher(publisher events.EventPublisher) Option {
	return func(a *Aggregator) {
		a.publisher = publisher
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// WithProgressLimit caps the rolling progress series.
func WithProgressLimit(limit int) Option {
	return func(a *Aggregator) {
		a.progressLimit = limit
	}
}

// WithHistoryLimit caps the retained test history.
func WithHistoryLimit(limit int) Option {
	return func(a *Aggregator) {
		a.historyLimit = limit
	}
}

// New creates an aggregator with empty state. Call Load to restore a
// previously persisted blob.
func New(store repositories.StateStore, opts ...Option) *Aggregator {
	a := &Aggregator{
		state:         models.NewAnalyticsState(),
		store:         store,
		logger:        slog.Default(),
		progressLimit: defaultProgressLimit,
		historyLimit:  defaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load restores state from the store. A missing key or an unreadable blob
// both fall back to empty defaults; neither is a fatal error.
func (a *Aggregator) Load(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	data, err := a.store.Load(ctx, StateKey)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			a.logger.DebugContext(ctx, "No persisted analytics state, starting empty")
			return nil
		}
		a.logger.WarnContext(ctx, "Failed to load analytics state, starting empty", "error", err)
		return nil
	}

	var state models.AnalyticsState
	if err := json.Unmarshal(data, &state); err != nil {
		a.logger.WarnContext(ctx, "Corrupt analytics state blob, starting empty", "error", err)
		a.state = models.NewAnalyticsState()
		return nil
	}

	state.Normalize()
	a.state = &state
	a.logger.InfoContext(ctx, "Loaded analytics state",
		"tests", len(state.TestHistory),
		"progress_points", len(state.ProgressTracking))
	return nil
}

// Ingest folds one completed test result into the running statistics and
// persists the updated state best-effort.
func (a *Aggregator) Ingest(ctx context.Context, result *models.TestResult) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.state.TestHistory = append(a.state.TestHistory, *result)
	if len(a.state.TestHistory) > a.historyLimit {
		a.state.TestHistory = a.state.TestHistory[len(a.state.TestHistory)-a.historyLimit:]
	}

	for subject, breakdown := range result.Subjects {
		stats, ok := a.state.SubjectPerformance[subject]
		if !ok {
			stats = &models.SubjectStats{}
			a.state.SubjectPerformance[subject] = stats
		}
		stats.TotalTests++
		stats.TotalQuestions += breakdown.Total
		stats.CorrectAnswers += breakdown.Correct
		if stats.TotalQuestions > 0 {
			stats.AverageScore = float64(stats.CorrectAnswers) / float64(stats.TotalQuestions) * 100
		}
		if rate := breakdown.Percentage(); rate > stats.BestScore {
			stats.BestScore = rate
		}
		stats.LastTestDate = result.Date
	}

	if result.TotalQuestions > 0 {
		a.state.TimeAnalytics[result.ID] = models.TestTimeStats{
			TotalSeconds:          result.TimeSpentSeconds,
			QuestionCount:         result.TotalQuestions,
			AvgSecondsPerQuestion: float64(result.TimeSpentSeconds) / float64(result.TotalQuestions),
		}
	}

	a.state.ProgressTracking = append(a.state.ProgressTracking, models.ProgressPoint{
		Date:  result.Date,
		Score: result.Percentage,
		Type:  result.Type,
		Trend: a.trendLocked(result.Percentage),
	})
	if len(a.state.ProgressTracking) > a.progressLimit {
		a.state.ProgressTracking = a.state.ProgressTracking[len(a.state.ProgressTracking)-a.progressLimit:]
	}

	a.saveLocked(ctx)
}

// trendLocked classifies the current score against the mean of the most
// recent prior progress points. Callers must hold the mutex. The new point
// is not yet appended when this runs.
func (a *Aggregator) trendLocked(current float64) models.Trend {
	prior := a.state.ProgressTracking
	if len(prior) < 2 {
		return models.TrendStable
	}
	if len(prior) > trendWindow {
		prior = prior[len(prior)-trendWindow:]
	}

	sum := 0.0
	for _, point := range prior {
		sum += point.Score
	}
	baseline := sum / float64(len(prior))

	switch delta := current - baseline; {
	case delta > trendThreshold:
		return models.TrendImproving
	case delta < -trendThreshold:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

// Report builds the full analytics snapshot and announces it best-effort.
func (a *Aggregator) Report(ctx context.Context) *models.Report {
	a.mu.Lock()
	report := a.reportLocked()
	a.mu.Unlock()

	if a.publisher != nil {
		if err := a.publisher.PublishNotificationEvent(ctx, events.NewAnalyticsGeneratedEvent(report)); err != nil {
			a.logger.WarnContext(ctx, "Failed to publish analytics event", "error", err)
		}
	}
	return report
}

func (a *Aggregator) reportLocked() *models.Report {
	report := &models.Report{
		SubjectAnalysis: make(map[string]models.SubjectStats, len(a.state.SubjectPerformance)),
		GeneratedAt:     time.Now(),
	}
	for subject, stats := range a.state.SubjectPerformance {
		report.SubjectAnalysis[subject] = *stats
	}

	if history := a.state.TestHistory; len(history) > 0 {
		overview := &models.Overview{TotalTests: len(history)}
		sum := 0.0
		for _, result := range history {
			sum += result.Percentage
			if result.Percentage > overview.BestScore {
				overview.BestScore = result.Percentage
			}
			overview.TotalTimeSeconds += result.TimeSpentSeconds
		}
		overview.AverageScore = sum / float64(len(history))
		overview.LastTestDate = history[len(history)-1].Date
		report.Overview = overview
	}

	if len(a.state.TimeAnalytics) > 0 {
		analysis := &models.TimeAnalysis{TestCount: len(a.state.TimeAnalytics)}
		sum := 0.0
		for _, stats := range a.state.TimeAnalytics {
			sum += stats.AvgSecondsPerQuestion
			analysis.TotalTimeSeconds += stats.TotalSeconds
		}
		analysis.AvgSecondsPerQuestion = sum / float64(analysis.TestCount)
		report.TimeAnalysis = analysis
	}

	if points := a.state.ProgressTracking; len(points) > 0 {
		recent := points
		if len(recent) > improvementWindow {
			recent = recent[len(recent)-improvementWindow:]
		}
		prior := points[:len(points)-len(recent)]

		recentMean := meanScore(recent)
		improvement := 0.0
		if len(prior) > 0 {
			improvement = recentMean - meanScore(prior)
		}

		report.ProgressAnalysis = &models.ProgressAnalysis{
			CurrentTrend:  points[len(points)-1].Trend,
			Improvement:   improvement,
			RecentAverage: recentMean,
			TotalPoints:   len(points),
		}
	}

	report.Recommendations = a.recommendationsLocked(report.ProgressAnalysis)
	return report
}

func meanScore(points []models.ProgressPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	sum := 0.0
	for _, point := range points {
		sum += point.Score
	}
	return sum / float64(len(points))
}

const (
	weakSubjectThreshold   = 60.0
	strongSubjectThreshold = 80.0
)

func (a *Aggregator) recommendationsLocked(progress *models.ProgressAnalysis) []models.Recommendation {
	recommendations := []models.Recommendation{}

	for _, subject := range sortedSubjects(a.state.SubjectPerformance) {
		stats := a.state.SubjectPerformance[subject]
		switch {
		case stats.AverageScore < weakSubjectThreshold:
			recommendations = append(recommendations, models.Recommendation{
				Subject:  subject,
				Priority: models.PriorityHigh,
				Message:  "Focus on " + subject + ": average accuracy is below 60%",
			})
		case stats.AverageScore > strongSubjectThreshold:
			recommendations = append(recommendations, models.Recommendation{
				Subject:  subject,
				Priority: models.PriorityLow,
				Message:  subject + " is a strength, keep it sharp with occasional practice",
			})
		}
	}

	if progress != nil && progress.CurrentTrend == models.TrendDeclining {
		recommendations = append(recommendations, models.Recommendation{
			Priority: models.PriorityHigh,
			Message:  "Recent scores are declining, review mistakes from your last few tests",
		})
	}

	return recommendations
}

func sortedSubjects(performance map[string]*models.SubjectStats) []string {
	subjects := make([]string, 0, len(performance))
	for subject := range performance {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)
	return subjects
}

// Clear resets all statistics and removes the persisted blob.
func (a *Aggregator) Clear(ctx context.Context) {
	a.mu.Lock()
	a.state = models.NewAnalyticsState()
	a.mu.Unlock()

	if err := a.store.Delete(ctx, StateKey); err != nil && !repositories.IsNotFoundError(err) {
		a.logger.WarnContext(ctx, "Failed to delete persisted analytics state", "error", err)
	}

	if a.publisher != nil {
		if err := a.publisher.PublishNotificationEvent(ctx, events.NewAnalyticsClearedEvent()); err != nil {
			a.logger.WarnContext(ctx, "Failed to publish analytics event", "error", err)
		}
	}
}

// Save persists the current state. Errors are logged, not returned.
func (a *Aggregator) Save(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.saveLocked(ctx)
}

func (a *Aggregator) saveLocked(ctx context.Context) {
	data, err := json.Marshal(a.state)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to serialize analytics state", "error", err)
		return
	}
	if err := a.store.Save(ctx, StateKey, data); err != nil {
		a.logger.WarnContext(ctx, "Failed to persist analytics state", "error", err)
	}
}

// StartAutoSave persists the state on a fixed interval until ctx is done.
func (a *Aggregator) StartAutoSave(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.Save(ctx)
			}
		}
	}()
}
