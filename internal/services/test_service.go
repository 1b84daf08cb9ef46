package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/prepforge/mocktest-service/internal/analytics"
	"github.com/prepforge/mocktest-service/internal/events"
	"github.com/prepforge/mocktest-service/internal/models"
	"github.com/prepforge/mocktest-service/internal/patterns"
	"github.com/prepforge/mocktest-service/internal/repositories"
	"github.com/prepforge/mocktest-service/internal/scoring"
	"github.com/prepforge/mocktest-service/internal/selector"
	"github.com/prepforge/mocktest-service/internal/utils"
	"github.com/prepforge/mocktest-service/internal/validator"
)

// TestService orchestrates the full test lifecycle: pattern lookup and
// validation, question selection, scoring and analytics ingestion.
type TestService interface {
	Generate(ctx context.Context, patternName string, opts ...selector.Option) (*models.TestInstance, error)
	GenerateFiltered(ctx context.Context, patternName string, filters repositories.QuestionFilters, opts ...selector.Option) (*models.TestInstance, error)
	GenerateCustom(ctx context.Context, basePattern string, overrides patterns.Overrides, opts ...selector.Option) (*models.TestInstance, error)
	Submit(ctx context.Context, instanceID string, responses models.ResponseSet) (*models.TestResult, error)
}

type testService struct {
	catalog    *patterns.Catalog
	validator  *validator.Validator
	repo       repositories.QuestionRepository
	engine     *scoring.Engine
	aggregator *analytics.Aggregator
	publisher  events.EventPublisher
	logger     utils.Logger

	// Active instances live only between Generate and Submit; scoring
	// discards them. The pattern is kept alongside because derived custom
	// patterns are not in the catalog.
	mu     sync.Mutex
	active map[string]*activeTest
}

type activeTest struct {
	instance *models.TestInstance
	pattern  *models.ExamPattern
}

func NewTestService(
	catalog *patterns.Catalog,
	v *validator.Validator,
	repo repositories.QuestionRepository,
	aggregator *analytics.Aggregator,
	publisher events.EventPublisher,
	logger utils.Logger,
) TestService {
	return &testService{
		catalog:    catalog,
		validator:  v,
		repo:       repo,
		engine:     scoring.NewEngine(),
		aggregator: aggregator,
		publisher:  publisher,
		logger:     logger,
		active:     make(map[string]*activeTest),
	}
}

// Generate creates a test instance from a catalog pattern.
func (s *testService) Generate(ctx context.Context, patternName string, opts ...selector.Option) (*models.TestInstance, error) {
	pattern, ok := s.catalog.Get(patternName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPatternNotFound, patternName)
	}
	return s.generateFromPattern(ctx, pattern, opts...)
}

// GenerateFiltered creates a test instance from a catalog pattern, drawing
// only from the part of the pool the filters match. This is how subject-wise
// and chapter-wise tests scope their question source.
func (s *testService) GenerateFiltered(ctx context.Context, patternName string, filters repositories.QuestionFilters, opts ...selector.Option) (*models.TestInstance, error) {
	pattern, ok := s.catalog.Get(patternName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPatternNotFound, patternName)
	}

	if result := s.validator.ValidatePattern(pattern); !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPattern, strings.Join(result.Errors, "; "))
	}

	filters.Limit = 0
	filters.Offset = 0
	pool, _, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load question pool: %w", err)
	}

	return s.selectAndTrack(ctx, pool, pattern, opts...)
}

// GenerateCustom derives a custom pattern from a catalog base and creates a
// test instance from it.
func (s *testService) GenerateCustom(ctx context.Context, basePattern string, overrides patterns.Overrides, opts ...selector.Option) (*models.TestInstance, error) {
	derived, err := s.catalog.Derive(basePattern, overrides)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrPatternNotFound, basePattern)
	}
	return s.generateFromPattern(ctx, derived, opts...)
}

func (s *testService) generateFromPattern(ctx context.Context, pattern *models.ExamPattern, opts ...selector.Option) (*models.TestInstance, error) {
	if result := s.validator.ValidatePattern(pattern); !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPattern, strings.Join(result.Errors, "; "))
	}

	pool, err := s.repo.GetQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load question pool: %w", err)
	}

	return s.selectAndTrack(ctx, pool, pattern, opts...)
}

func (s *testService) selectAndTrack(ctx context.Context, pool []models.Question, pattern *models.ExamPattern, opts ...selector.Option) (*models.TestInstance, error) {
	instance, err := selector.New(opts...).Select(ctx, pool, pattern)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.active[instance.ID] = &activeTest{instance: instance, pattern: pattern}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Generated test instance",
		"instance_id", instance.ID,
		"pattern", pattern.Name,
		"questions", len(instance.Questions))

	return instance, nil
}

// Submit scores an active instance, feeds the result into analytics and
// announces completion. The instance is discarded; results are what persist.
func (s *testService) Submit(ctx context.Context, instanceID string, responses models.ResponseSet) (*models.TestResult, error) {
	s.mu.Lock()
	test, ok := s.active[instanceID]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownInstance, instanceID)
	}

	result, err := s.engine.Score(test.instance, responses, test.pattern)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	delete(s.active, instanceID)
	s.mu.Unlock()

	s.aggregator.Ingest(ctx, result)

	if s.publisher != nil {
		if err := s.publisher.PublishNotificationEvent(ctx, events.NewTestCompletedEvent(result)); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish test completed event",
				"result_id", result.ID,
				"error", err)
		}
	}

	s.logger.InfoContext(ctx, "Scored test",
		"result_id", result.ID,
		"score", result.Score,
		"percentage", result.Percentage,
		"passed", result.Passed)

	return result, nil
}
