package store

import "fjacquet/fincat/internal/models"

// MockCategoryStore is a VocabularySource for tests.
type MockCategoryStore struct {
	Vocabulary models.Vocabulary
	LoadError  error
	Loads      int
}

// LoadVocabulary returns the mock vocabulary, or the default one when unset.
func (m *MockCategoryStore) LoadVocabulary() (models.Vocabulary, error) {
	m.Loads++
	if m.LoadError != nil {
		return models.Vocabulary{}, m.LoadError
	}
	if len(m.Vocabulary.Labels) == 0 {
		return models.DefaultVocabulary(), nil
	}
	return m.Vocabulary, nil
}
