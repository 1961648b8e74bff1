package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ledgerdash/internal/core"
)

// ErrEmptyVocabulary is returned for a document without any labels
var ErrEmptyVocabulary = errors.New("vocabulary has no categories")

// vocabularyFile is the YAML layout of VOCABULARY_FILE:
//
//	income:
//	  - Доход от рефералов
//	expense:
//	  - Зарплаты
type vocabularyFile struct {
	Income  []string `yaml:"income"`
	Expense []string `yaml:"expense"`
}

// LoadVocabulary reads the category vocabulary from path. An empty path
// returns the built-in vocabulary.
func LoadVocabulary(path string) (core.Vocabulary, error) {
	if path == "" {
		return core.DefaultVocabulary(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return core.Vocabulary{}, fmt.Errorf("read vocabulary file: %w", err)
	}
	return ParseVocabulary(data)
}

// ParseVocabulary decodes a YAML vocabulary document
func ParseVocabulary(data []byte) (core.Vocabulary, error) {
	var f vocabularyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return core.Vocabulary{}, fmt.Errorf("decode vocabulary: %w", err)
	}
	if len(f.Income) == 0 && len(f.Expense) == 0 {
		return core.Vocabulary{}, ErrEmptyVocabulary
	}

	v, err := core.NewVocabulary(f.Income, f.Expense)
	if err != nil {
		return core.Vocabulary{}, fmt.Errorf("build vocabulary: %w", err)
	}
	return v, nil
}
