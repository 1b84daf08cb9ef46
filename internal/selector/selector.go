package selector

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/prepforge/mocktest-service/internal/errors"
	"github.com/prepforge/mocktest-service/internal/models"
)

// Selector draws a test instance from a question pool according to an exam
// pattern: subject quotas, difficulty distribution and shuffle flags.
// A Selector is not safe for concurrent use; construct one per caller.
type Selector struct {
	rng    *rand.Rand
	logger *slog.Logger
}

type Option func(*Selector)

// WithSeed makes selection deterministic for the given seed.
func WithSeed(seed int64) Option {
	return func(s *Selector) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Selector) {
		s.logger = logger
	}
}

// New creates a selector with a fresh random source unless WithSeed is given.
func New(opts ...Option) *Selector {
	s := &Selector{
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select produces a test instance with exactly pattern.TotalQuestions entries
// and no duplicate question ids, or fails with InsufficientQuestionsError
// naming the subject that could not meet its quota.
func (s *Selector) Select(ctx context.Context, pool []models.Question, pattern *models.ExamPattern) (*models.TestInstance, error) {
	quotas := subjectQuotas(pattern)

	var selected []models.Question
	for _, sq := range quotas {
		partition := filterBySubject(pool, sq.subject, len(pattern.Subjects) > 0)
		picked, err := s.selectForSubject(partition, sq.subject, sq.count, pattern.DifficultyDistribution)
		if err != nil {
			return nil, err
		}
		selected = append(selected, picked...)
	}

	questions, err := materialize(selected)
	if err != nil {
		return nil, err
	}

	if pattern.ShuffleQuestions {
		s.shuffleQuestions(questions)
	}
	// Previous-year papers keep their printed option order even if a derived
	// pattern carries the flag.
	if pattern.ShuffleOptions && pattern.Type != models.PatternPYQ {
		for i := range questions {
			s.shuffleOptions(&questions[i])
		}
	}

	s.logger.DebugContext(ctx, "Selected test questions",
		"pattern", pattern.Name,
		"count", len(questions),
		"pool_size", len(pool))

	return &models.TestInstance{
		ID:          uuid.NewString(),
		PatternName: pattern.Name,
		PatternType: pattern.Type,
		Questions:   questions,
		CreatedAt:   time.Now(),
	}, nil
}

type subjectQuota struct {
	subject string
	count   int
}

// subjectQuotas resolves the pattern into per-subject draw counts. Without
// subject quotas the whole pool is one partition. Subjects are ordered by
// name so seeded selection stays deterministic.
func subjectQuotas(pattern *models.ExamPattern) []subjectQuota {
	if len(pattern.Subjects) == 0 {
		return []subjectQuota{{subject: "", count: pattern.TotalQuestions}}
	}

	subjects := make([]string, 0, len(pattern.Subjects))
	for subject := range pattern.Subjects {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)

	quotas := make([]subjectQuota, 0, len(subjects))
	for _, subject := range subjects {
		quotas = append(quotas, subjectQuota{subject: subject, count: pattern.Subjects[subject].QuestionCount})
	}
	return quotas
}

func filterBySubject(pool []models.Question, subject string, bySubject bool) []models.Question {
	if !bySubject {
		return pool
	}
	var partition []models.Question
	for _, q := range pool {
		if q.Subject == subject {
			partition = append(partition, q)
		}
	}
	return partition
}

// selectForSubject draws count questions from the partition, honoring the
// difficulty distribution when present and borrowing from the nearest
// difficulty bucket when one runs short.
func (s *Selector) selectForSubject(partition []models.Question, subject string, count int, distribution map[models.DifficultyLevel]float64) ([]models.Question, error) {
	if len(partition) < count {
		return nil, &apperrors.InsufficientQuestionsError{
			Subject:   subject,
			Required:  count,
			Available: len(partition),
		}
	}

	if len(distribution) == 0 {
		shuffled := s.shuffledCopy(partition)
		return shuffled[:count], nil
	}

	// Bucket the partition by difficulty; each bucket is pre-shuffled so
	// drawing is "take from the front, without replacement".
	buckets := make(map[models.DifficultyLevel][]models.Question, len(models.DifficultyLevels))
	for _, level := range models.DifficultyLevels {
		var bucket []models.Question
		for _, q := range partition {
			if q.Difficulty == level {
				bucket = append(bucket, q)
			}
		}
		buckets[level] = s.shuffledCopy(bucket)
	}

	targets := roundTargets(count, distribution)

	var selected []models.Question
	shortfalls := make(map[models.DifficultyLevel]int)
	for _, level := range models.DifficultyLevels {
		take := targets[level]
		bucket := buckets[level]
		if take > len(bucket) {
			shortfalls[level] = take - len(bucket)
			take = len(bucket)
		}
		selected = append(selected, bucket[:take]...)
		buckets[level] = bucket[take:]
	}

	// Borrow for short buckets from the closest difficulty first.
	for _, level := range models.DifficultyLevels {
		missing := shortfalls[level]
		for _, donor := range borrowOrder(level) {
			if missing == 0 {
				break
			}
			bucket := buckets[donor]
			take := missing
			if take > len(bucket) {
				take = len(bucket)
			}
			selected = append(selected, bucket[:take]...)
			buckets[donor] = bucket[take:]
			missing -= take
		}
		if missing > 0 {
			return nil, &apperrors.InsufficientQuestionsError{
				Subject:   subject,
				Required:  count,
				Available: len(selected),
			}
		}
	}

	return selected, nil
}

// roundTargets converts fractions into integer bucket counts that sum to
// quota exactly, via the largest-remainder method. Ties break toward the
// easier level.
func roundTargets(quota int, distribution map[models.DifficultyLevel]float64) map[models.DifficultyLevel]int {
	targets := make(map[models.DifficultyLevel]int, len(models.DifficultyLevels))

	type remainder struct {
		level models.DifficultyLevel
		frac  float64
	}
	var remainders []remainder

	assigned := 0
	for _, level := range models.DifficultyLevels {
		exact := distribution[level] * float64(quota)
		floor := int(exact)
		targets[level] = floor
		assigned += floor
		remainders = append(remainders, remainder{level: level, frac: exact - float64(floor)})
	}

	sort.SliceStable(remainders, func(i, j int) bool {
		return remainders[i].frac > remainders[j].frac
	})

	for i := 0; assigned < quota; i++ {
		targets[remainders[i%len(remainders)].level]++
		assigned++
	}

	return targets
}

// borrowOrder lists donor buckets by difficulty distance, easier first on ties.
func borrowOrder(level models.DifficultyLevel) []models.DifficultyLevel {
	donors := make([]models.DifficultyLevel, 0, len(models.DifficultyLevels)-1)
	for _, candidate := range models.DifficultyLevels {
		if candidate != level {
			donors = append(donors, candidate)
		}
	}
	sort.SliceStable(donors, func(i, j int) bool {
		di := abs(donors[i].Rank() - level.Rank())
		dj := abs(donors[j].Rank() - level.Rank())
		if di != dj {
			return di < dj
		}
		return donors[i].Rank() < donors[j].Rank()
	})
	return donors
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// materialize converts bank questions into instance snapshots with decoded options.
func materialize(selected []models.Question) ([]models.TestQuestion, error) {
	questions := make([]models.TestQuestion, 0, len(selected))
	for _, q := range selected {
		options, err := q.OptionList()
		if err != nil {
			return nil, fmt.Errorf("failed to decode options for question %d: %w", q.ID, err)
		}
		questions = append(questions, models.TestQuestion{
			QuestionID:   q.ID,
			Subject:      q.Subject,
			Chapter:      q.Chapter,
			Difficulty:   q.Difficulty,
			Text:         q.Text,
			Options:      options,
			CorrectIndex: q.CorrectIndex,
			IsPYQ:        q.IsPYQ,
		})
	}
	return questions, nil
}

func (s *Selector) shuffledCopy(questions []models.Question) []models.Question {
	shuffled := make([]models.Question, len(questions))
	copy(shuffled, questions)
	s.fisherYates(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

func (s *Selector) shuffleQuestions(questions []models.TestQuestion) {
	s.fisherYates(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
}

// shuffleOptions permutes a question's options and remaps the correct index
// so the right answer stays the right answer.
func (s *Selector) shuffleOptions(q *models.TestQuestion) {
	perm := s.rng.Perm(len(q.Options))
	shuffled := make([]string, len(q.Options))
	orig := q.CorrectIndex
	for newIdx, oldIdx := range perm {
		shuffled[newIdx] = q.Options[oldIdx]
		if oldIdx == orig {
			q.CorrectIndex = newIdx
		}
	}
	q.Options = shuffled
}

// fisherYates runs a uniform in-place shuffle over n elements.
func (s *Selector) fisherYates(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		swap(i, j)
	}
}
