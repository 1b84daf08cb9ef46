package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/prepforge/mocktest-service/internal/repositories"
)

// StateBlob holds one whole serialized state tree under a fixed key.
type StateBlob struct {
	Key       string         `gorm:"primaryKey;size:100" json:"key"`
	Data      datatypes.JSON `gorm:"type:json" json:"data"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (StateBlob) TableName() string {
	return "state_blobs"
}

// StateSQLite persists state blobs in the embedded database.
type StateSQLite struct {
	db *gorm.DB
}

func NewStateSQLite(db *gorm.DB) repositories.StateStore {
	return &StateSQLite{db: db}
}

// Save overwrites the blob stored under key.
func (s *StateSQLite) Save(ctx context.Context, key string, data []byte) error {
	blob := StateBlob{
		Key:       key,
		Data:      datatypes.JSON(data),
		UpdatedAt: time.Now(),
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&blob).Error
	if err != nil {
		return fmt.Errorf("failed to save state blob %q: %w", key, err)
	}
	return nil
}

// Load returns the blob stored under key, or ErrNotFound.
func (s *StateSQLite) Load(ctx context.Context, key string) ([]byte, error) {
	var blob StateBlob
	if err := s.db.WithContext(ctx).First(&blob, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load state blob %q: %w", key, err)
	}
	return []byte(blob.Data), nil
}

// Delete removes the blob stored under key. Missing keys are not an error.
func (s *StateSQLite) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Delete(&StateBlob{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("failed to delete state blob %q: %w", key, err)
	}
	return nil
}

// Close is a no-op; the gorm connection is owned by the caller.
func (s *StateSQLite) Close() error {
	return nil
}
