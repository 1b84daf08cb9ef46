package models

import "time"

// TestQuestion is a question snapshot inside a generated test. Option order
// and CorrectIndex may differ from the bank copy when option shuffling is on.
type TestQuestion struct {
	QuestionID   uint            `json:"question_id"`
	Subject      string          `json:"subject"`
	Chapter      *string         `json:"chapter,omitempty"`
	Difficulty   DifficultyLevel `json:"difficulty"`
	Text         string          `json:"text"`
	Options      []string        `json:"options"`
	CorrectIndex int             `json:"correct_index"`
	IsPYQ        bool            `json:"is_pyq"`
}

// TestInstance is one generated test. It is consumed by the test-taking
// client and discarded after scoring; only the TestResult persists.
type TestInstance struct {
	ID          string         `json:"id"`
	PatternName string         `json:"pattern_name"`
	PatternType PatternType    `json:"pattern_type"`
	Questions   []TestQuestion `json:"questions"`
	CreatedAt   time.Time      `json:"created_at"`
}

// UnansweredIndex marks a question the candidate left blank.
const UnansweredIndex = -1

// Response is the candidate's answer to one question.
type Response struct {
	SelectedIndex    int `json:"selected_index"`
	TimeSpentSeconds int `json:"time_spent_seconds"`
}

// ResponseSet maps question id to the candidate's response. Questions absent
// from the set are treated as unanswered.
type ResponseSet map[uint]Response
