package patterns

import (
	"fmt"

	"github.com/prepforge/mocktest-service/internal/models"
)

// Catalog is a read-only registry of exam patterns, built once at startup.
// Returned patterns must not be mutated; use Derive for customization.
type Catalog struct {
	patterns map[string]*models.ExamPattern
	order    []string
}

// NewCatalog builds a catalog from the built-in pattern definitions.
func NewCatalog() *Catalog {
	return NewCatalogFrom(builtinPatterns())
}

// NewCatalogFrom builds a catalog from explicit definitions, preserving order.
// Later duplicates replace earlier ones.
func NewCatalogFrom(definitions []*models.ExamPattern) *Catalog {
	c := &Catalog{
		patterns: make(map[string]*models.ExamPattern, len(definitions)),
		order:    make([]string, 0, len(definitions)),
	}
	for _, p := range definitions {
		if _, exists := c.patterns[p.Name]; !exists {
			c.order = append(c.order, p.Name)
		}
		c.patterns[p.Name] = p
	}
	return c
}

// Get returns the pattern registered under name.
func (c *Catalog) Get(name string) (*models.ExamPattern, bool) {
	p, ok := c.patterns[name]
	return p, ok
}

// All returns every pattern in registration order.
func (c *Catalog) All() []*models.ExamPattern {
	all := make([]*models.ExamPattern, 0, len(c.order))
	for _, name := range c.order {
		all = append(all, c.patterns[name])
	}
	return all
}

// ByType returns the patterns of the given type in registration order.
func (c *Catalog) ByType(patternType models.PatternType) []*models.ExamPattern {
	var matched []*models.ExamPattern
	for _, name := range c.order {
		if p := c.patterns[name]; p.Type == patternType {
			matched = append(matched, p)
		}
	}
	return matched
}

// Overrides carries the fields a derived custom pattern replaces.
// Nil fields keep the base pattern's value.
type Overrides struct {
	Name                   *string
	TotalQuestions         *int
	TimeLimitMinutes       *float64
	Subjects               map[string]models.SubjectQuota
	DifficultyDistribution map[models.DifficultyLevel]float64
	MarkingScheme          *models.MarkingScheme
	PassingPercentage      *float64
	ShuffleQuestions       *bool
	ShuffleOptions         *bool
}

// Derive produces a custom pattern as a copy of base with overrides applied.
// The catalog itself is never modified.
func (c *Catalog) Derive(base string, overrides Overrides) (*models.ExamPattern, error) {
	source, ok := c.Get(base)
	if !ok {
		return nil, fmt.Errorf("unknown base pattern %q", base)
	}

	derived := source.Clone()
	derived.Type = models.PatternCustom

	if overrides.Name != nil {
		derived.Name = *overrides.Name
	} else {
		derived.Name = source.Name + " (custom)"
	}
	if overrides.TotalQuestions != nil {
		derived.TotalQuestions = *overrides.TotalQuestions
	}
	if overrides.TimeLimitMinutes != nil {
		derived.TimeLimitMinutes = *overrides.TimeLimitMinutes
	}
	if overrides.Subjects != nil {
		derived.Subjects = make(map[string]models.SubjectQuota, len(overrides.Subjects))
		for subject, quota := range overrides.Subjects {
			derived.Subjects[subject] = quota
		}
	}
	if overrides.DifficultyDistribution != nil {
		derived.DifficultyDistribution = make(map[models.DifficultyLevel]float64, len(overrides.DifficultyDistribution))
		for level, fraction := range overrides.DifficultyDistribution {
			derived.DifficultyDistribution[level] = fraction
		}
	}
	if overrides.MarkingScheme != nil {
		derived.MarkingScheme = *overrides.MarkingScheme
	}
	if overrides.PassingPercentage != nil {
		derived.PassingPercentage = *overrides.PassingPercentage
	}
	if overrides.ShuffleQuestions != nil {
		derived.ShuffleQuestions = *overrides.ShuffleQuestions
	}
	if overrides.ShuffleOptions != nil {
		derived.ShuffleOptions = *overrides.ShuffleOptions
	}

	return derived, nil
}
