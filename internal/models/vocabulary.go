package models

import (
	"errors"
	"fmt"
	"strings"
)

// Default category labels.
const (
	CategoryFood          = "Alimentação"
	CategoryTransport     = "Transporte"
	CategoryHealth        = "Saúde"
	CategoryHousing       = "Moradia"
	CategoryEntertainment = "Entretenimento"
	CategoryIncome        = "Renda"
	CategoryStudy         = "Estudo"
	CategoryOther         = "Outros"
)

// Vocabulary is the ordered set of category labels offered to the model.
// CatchAll is applied whenever no usable classification exists; Income is the
// label that must never be given to an outflow.
type Vocabulary struct {
	Labels   []string `yaml:"labels" json:"labels"`
	CatchAll string   `yaml:"catch_all" json:"catch_all"`
	Income   string   `yaml:"income" json:"income"`
}

// DefaultVocabulary returns a fresh copy of the built-in vocabulary.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Labels: []string{
			CategoryFood,
			CategoryTransport,
			CategoryHealth,
			CategoryHousing,
			CategoryEntertainment,
			CategoryIncome,
			CategoryStudy,
			CategoryOther,
		},
		CatchAll: CategoryOther,
		Income:   CategoryIncome,
	}
}

// Contains reports whether label is part of the vocabulary.
func (v Vocabulary) Contains(label string) bool {
	for _, l := range v.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// CatchAllLabel returns the catch-all, or CategoryOther when unset.
func (v Vocabulary) CatchAllLabel() string {
	if v.CatchAll == "" {
		return CategoryOther
	}
	return v.CatchAll
}

// Validate checks that the vocabulary is usable.
func (v Vocabulary) Validate() error {
	if len(v.Labels) == 0 {
		return errors.New("vocabulary has no labels")
	}
	seen := make(map[string]bool, len(v.Labels))
	for _, l := range v.Labels {
		if strings.TrimSpace(l) == "" {
			return errors.New("vocabulary has an empty label")
		}
		if seen[l] {
			return fmt.Errorf("duplicate label %q", l)
		}
		seen[l] = true
	}
	if !v.Contains(v.CatchAll) {
		return fmt.Errorf("catch-all %q is not a label", v.CatchAll)
	}
	if v.Income != "" && !v.Contains(v.Income) {
		return fmt.Errorf("income label %q is not a label", v.Income)
	}
	return nil
}
