package errors

import (
	"errors"
	"fmt"
)

// InsufficientQuestionsError is returned when the question pool cannot
// satisfy a subject quota even after borrowing across difficulty buckets.
type InsufficientQuestionsError struct {
	Subject   string `json:"subject"`
	Required  int    `json:"required"`
	Available int    `json:"available"`
}

func (e *InsufficientQuestionsError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("insufficient questions: need %d, pool has %d", e.Required, e.Available)
	}
	return fmt.Sprintf("insufficient questions for %s: need %d, pool has %d (short by %d)",
		e.Subject, e.Required, e.Available, e.Required-e.Available)
}

// MalformedResponseError is returned when a response set references a
// question that is not part of the test instance being scored.
type MalformedResponseError struct {
	QuestionID uint   `json:"question_id"`
	InstanceID string `json:"instance_id"`
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: question %d is not part of test instance %s", e.QuestionID, e.InstanceID)
}

// IsInsufficientQuestions checks if err is a pool-exhaustion failure.
func IsInsufficientQuestions(err error) bool {
	var iq *InsufficientQuestionsError
	return errors.As(err, &iq)
}

// IsMalformedResponse checks if err is a response/instance mismatch.
func IsMalformedResponse(err error) bool {
	var mr *MalformedResponseError
	return errors.As(err, &mr)
}

// IsValidation checks if err carries structured validation errors.
func IsValidation(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}
