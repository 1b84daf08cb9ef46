package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "Easy"
	DifficultyMedium DifficultyLevel = "Medium"
	DifficultyHard   DifficultyLevel = "Hard"
)

// DifficultyLevels lists all levels in canonical order, easiest first.
// Selection bucketing and rounding tie-breaks rely on this order.
var DifficultyLevels = []DifficultyLevel{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Rank returns the position of the level in the canonical order.
// Unknown levels rank after Hard.
func (d DifficultyLevel) Rank() int {
	for i, level := range DifficultyLevels {
		if level == d {
			return i
		}
	}
	return len(DifficultyLevels)
}

// Question is a single multiple-choice item in the question bank.
// Options are stored as a JSON array of option texts; CorrectIndex points
// into that array. Questions are immutable outside explicit repository updates.
type Question struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	Subject      string          `json:"subject" gorm:"not null;size:100;index" validate:"required,min=1,max=100"`
	Chapter      *string         `json:"chapter" gorm:"size:200;index" validate:"omitempty,max=200"`
	Difficulty   DifficultyLevel `json:"difficulty" gorm:"not null;size:10;index" validate:"required,difficulty_level"`
	Text         string          `json:"text" gorm:"type:text;not null" validate:"required"`
	Options      datatypes.JSON  `json:"options" gorm:"not null"` // []string
	CorrectIndex int             `json:"correct_index" gorm:"not null" validate:"min=0"`
	IsPYQ        bool            `json:"is_pyq" gorm:"default:false;index"`
	Year         *int            `json:"year" validate:"omitempty,min=1900,max=2100"`
	Source       *string         `json:"source" gorm:"size:200"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}

// OptionList decodes the stored JSON options into a string slice.
func (q *Question) OptionList() ([]string, error) {
	var options []string
	if len(q.Options) == 0 {
		return options, nil
	}
	if err := json.Unmarshal(q.Options, &options); err != nil {
		return nil, err
	}
	return options, nil
}

// SetOptions encodes the given option texts into the JSON column.
func (q *Question) SetOptions(options []string) error {
	data, err := json.Marshal(options)
	if err != nil {
		return err
	}
	q.Options = data
	return nil
}
