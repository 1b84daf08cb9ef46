package repositories

import (
	"context"
	"errors"

	"github.com/prepforge/mocktest-service/internal/models"
)

// ErrNotFound is returned when a requested record or state key does not exist.
var ErrNotFound = errors.New("record not found")

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// QuestionFilters narrows and pages question listings.
type QuestionFilters struct {
	Subject    string
	Chapter    string
	Difficulty string
	IsPYQ      *bool
	Year       *int
	Search     string
	Limit      int
	Offset     int
	SortBy     string
	SortOrder  string
}

// QuestionRepository is the question pool provider. The selection and scoring
// components only read from it; mutation happens through explicit CRUD calls.
type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters QuestionFilters) ([]models.Question, int64, error)
	GetQuestions(ctx context.Context) ([]models.Question, error)
	Count(ctx context.Context) (int64, error)
}

// StateStore persists whole serialized state blobs under fixed keys.
// Save overwrites; Load returns ErrNotFound for a missing key.
type StateStore interface {
	Save(ctx context.Context, key string, data []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Close() error
}
