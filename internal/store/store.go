// Package store loads and saves the category vocabulary offered to the model.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/fincat/internal/logging"
	"fjacquet/fincat/internal/models"

	"gopkg.in/yaml.v3"
)

// DefaultCategoriesFile is looked up when no file is configured.
const DefaultCategoriesFile = "categories.yaml"

// VocabularySource provides the category vocabulary.
type VocabularySource interface {
	LoadVocabulary() (models.Vocabulary, error)
}

// CategoryStore manages loading and saving of the vocabulary file.
type CategoryStore struct {
	CategoriesFile string
	logger         logging.Logger
}

// NewCategoryStore creates a store for categoriesFile. An empty name uses
// DefaultCategoriesFile.
func NewCategoryStore(categoriesFile string, logger logging.Logger) *CategoryStore {
	if categoriesFile == "" {
		categoriesFile = DefaultCategoriesFile
	}
	return &CategoryStore{
		CategoriesFile: categoriesFile,
		logger:         logging.OrDefault(logger),
	}
}

// FindConfigFile looks for a configuration file in standard locations
func (s *CategoryStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join(".fincat", filename),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".fincat", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadVocabulary reads the vocabulary file. A missing file yields the default
// vocabulary; an unreadable or invalid one is an error.
//
// Two layouts are accepted: a mapping with labels, catch_all and income keys,
// or a bare list of labels.
func (s *CategoryStore) LoadVocabulary() (models.Vocabulary, error) {
	path, err := s.FindConfigFile(s.CategoriesFile)
	if err != nil {
		s.logger.Debug("Categories file not found, using default vocabulary",
			logging.Field{Key: logging.FieldFile, Value: s.CategoriesFile})
		return models.DefaultVocabulary(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.Vocabulary{}, fmt.Errorf("error reading categories file: %w", err)
	}

	vocab, err := decodeVocabulary(data)
	if err != nil {
		return models.Vocabulary{}, fmt.Errorf("error parsing categories file %s: %w", path, err)
	}
	if err := vocab.Validate(); err != nil {
		return models.Vocabulary{}, fmt.Errorf("invalid categories file %s: %w", path, err)
	}

	s.logger.Debug("Loaded category vocabulary",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(vocab.Labels)})
	return vocab, nil
}

func decodeVocabulary(data []byte) (models.Vocabulary, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return models.Vocabulary{}, err
	}
	if len(node.Content) == 0 {
		return models.Vocabulary{}, errors.New("empty document")
	}

	doc := node.Content[0]
	switch doc.Kind {
	case yaml.MappingNode:
		var vocab models.Vocabulary
		if err := doc.Decode(&vocab); err != nil {
			return models.Vocabulary{}, err
		}
		if vocab.CatchAll == "" && vocab.Contains(models.CategoryOther) {
			vocab.CatchAll = models.CategoryOther
		}
		return vocab, nil
	case yaml.SequenceNode:
		var labels []string
		if err := doc.Decode(&labels); err != nil {
			return models.Vocabulary{}, err
		}
		return fromLabels(labels), nil
	default:
		return models.Vocabulary{}, errors.New("expected a mapping or a list of labels")
	}
}

// fromLabels picks the catch-all and income labels of a bare list: the
// defaults when listed, otherwise the last label and none.
func fromLabels(labels []string) models.Vocabulary {
	vocab := models.Vocabulary{Labels: labels}
	if vocab.Contains(models.CategoryOther) {
		vocab.CatchAll = models.CategoryOther
	} else if len(labels) > 0 {
		vocab.CatchAll = labels[len(labels)-1]
	}
	if vocab.Contains(models.CategoryIncome) {
		vocab.Income = models.CategoryIncome
	}
	return vocab
}

// SaveVocabulary writes vocab to the store's file, creating parent
// directories as needed.
func (s *CategoryStore) SaveVocabulary(vocab models.Vocabulary) error {
	if err := vocab.Validate(); err != nil {
		return fmt.Errorf("refusing to save vocabulary: %w", err)
	}

	path := s.CategoriesFile
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("error creating categories directory: %w", err)
		}
	}

	data, err := yaml.Marshal(vocab)
	if err != nil {
		return fmt.Errorf("error marshaling vocabulary: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("error writing categories file: %w", err)
	}

	s.logger.Info("Saved category vocabulary",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(vocab.Labels)})
	return nil
}
