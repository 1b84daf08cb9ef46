package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/prepforge/mocktest-service/internal/errors"
	"github.com/prepforge/mocktest-service/internal/models"
)

// Validator combines struct-tag validation with pattern arithmetic checks.
type Validator struct {
	structValidator *validator.Validate
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// ValidateQuestion runs struct-tag validation on a question and returns
// structured errors, plus checks the correct index against the option list.
func (v *Validator) ValidateQuestion(q *models.Question) errors.ValidationErrors {
	var errs errors.ValidationErrors

	if err := v.structValidator.Struct(q); err != nil {
		errs = append(errs, errors.ToValidationErrors(err)...)
	}

	options, err := q.OptionList()
	if err != nil {
		errs = append(errs, *errors.NewValidationError("options", "must be a JSON array of option texts", string(q.Options)))
		return errs
	}
	if len(options) < 2 {
		errs = append(errs, *errors.NewValidationError("options", "must contain at least 2 options", len(options)))
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(options) {
		errs = append(errs, *errors.NewValidationError("correct_index", "must point at an existing option", q.CorrectIndex))
	}

	return errs
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("difficulty_level", validateDifficultyLevel)
	validate.RegisterValidation("pattern_type", validatePatternType)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateDifficultyLevel(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, level := range models.DifficultyLevels {
		if string(level) == value {
			return true
		}
	}
	return false
}

func validatePatternType(fl validator.FieldLevel) bool {
	validTypes := []models.PatternType{
		models.PatternFullMock,
		models.PatternSubjectWise,
		models.PatternChapterWise,
		models.PatternCustom,
		models.PatternPYQ,
		models.PatternQuickTest,
	}

	value := fl.Field().String()
	for _, validType := range validTypes {
		if string(validType) == value {
			return true
		}
	}
	return false
}
