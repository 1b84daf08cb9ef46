package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/prepforge/mocktest-service/internal/models"
	"github.com/prepforge/mocktest-service/internal/repositories"
)

type QuestionSQLite struct {
	db *gorm.DB
}

func NewQuestionSQLite(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionSQLite{db: db}
}

// ===== BASIC OPERATIONS =====

// Create inserts a new question into the pool
func (q *QuestionSQLite) Create(ctx context.Context, question *models.Question) error {
	if err := q.db.WithContext(ctx).Create(question).Error; err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

// GetByID retrieves a question by ID
func (q *QuestionSQLite) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	if err := q.db.WithContext(ctx).First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return &question, nil
}

// Update saves an edited question
func (q *QuestionSQLite) Update(ctx context.Context, question *models.Question) error {
	result := q.db.WithContext(ctx).Save(question)
	if result.Error != nil {
		return fmt.Errorf("failed to update question: %w", result.Error)
	}
	return nil
}

// Delete removes a question from the pool
func (q *QuestionSQLite) Delete(ctx context.Context, id uint) error {
	result := q.db.WithContext(ctx).Delete(&models.Question{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete question: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// ===== LISTING =====

// List returns a filtered, paginated page of questions plus the total count
// matching the filters.
func (q *QuestionSQLite) List(ctx context.Context, filters repositories.QuestionFilters) ([]models.Question, int64, error) {
	query := q.db.WithContext(ctx).Model(&models.Question{})
	query = applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count questions: %w", err)
	}

	query = applySorting(query, filters)
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var questions []models.Question
	if err := query.Find(&questions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, total, nil
}

// GetQuestions returns the whole pool, the shape the selector consumes.
func (q *QuestionSQLite) GetQuestions(ctx context.Context) ([]models.Question, error) {
	var questions []models.Question
	if err := q.db.WithContext(ctx).Order("id ASC").Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to load question pool: %w", err)
	}
	return questions, nil
}

// Count returns the pool size
func (q *QuestionSQLite) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := q.db.WithContext(ctx).Model(&models.Question{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

func applyFilters(query *gorm.DB, filters repositories.QuestionFilters) *gorm.DB {
	if filters.Subject != "" {
		query = query.Where("subject = ?", filters.Subject)
	}
	if filters.Chapter != "" {
		query = query.Where("chapter = ?", filters.Chapter)
	}
	if filters.Difficulty != "" {
		query = query.Where("difficulty = ?", filters.Difficulty)
	}
	if filters.IsPYQ != nil {
		query = query.Where("is_pyq = ?", *filters.IsPYQ)
	}
	if filters.Year != nil {
		query = query.Where("year = ?", *filters.Year)
	}
	if filters.Search != "" {
		query = query.Where("text LIKE ?", "%"+filters.Search+"%")
	}
	return query
}

var sortableColumns = map[string]bool{
	"id":         true,
	"subject":    true,
	"chapter":    true,
	"difficulty": true,
	"year":       true,
	"created_at": true,
}

func applySorting(query *gorm.DB, filters repositories.QuestionFilters) *gorm.DB {
	column := filters.SortBy
	if !sortableColumns[column] {
		column = "id"
	}
	order := "ASC"
	if strings.EqualFold(filters.SortOrder, "desc") {
		order = "DESC"
	}
	return query.Order(fmt.Sprintf("%s %s", column, order))
}
