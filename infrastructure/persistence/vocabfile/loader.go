// Package vocabfile loads vocabulary and embedding table overrides
// from a YAML file, for operators extending the closed literal sets
// without a rebuild.
package vocabfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"memcore/domain/embedding"
	"memcore/domain/vocab"
)

// File is the persisted form of vocabulary and embedding overrides
type File struct {
	Vocabularies    []VocabularyEntry `yaml:"vocabularies"`
	EmbeddingModels []EmbeddingEntry  `yaml:"embedding_models"`
}

// VocabularyEntry is one vocabulary's member table. Applying it
// replaces the whole builtin vocabulary of the same name, so a file
// that extends a builtin set must restate the builtin members too.
type VocabularyEntry struct {
	Name    string         `yaml:"name"`
	Members []vocab.Member `yaml:"members"`
}

// EmbeddingEntry registers one model identity's required dimension
type EmbeddingEntry struct {
	Model     string `yaml:"model"`
	Dimension int    `yaml:"dimension"`
}

// Load reads and parses an override file
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse vocabulary file %s: %w", path, err)
	}

	for i, entry := range f.Vocabularies {
		if entry.Name == "" {
			return nil, fmt.Errorf("vocabulary file %s: entry %d has no name", path, i)
		}
	}
	for i, entry := range f.EmbeddingModels {
		if entry.Model == "" {
			return nil, fmt.Errorf("vocabulary file %s: embedding entry %d has no model", path, i)
		}
		if entry.Dimension <= 0 {
			return nil, fmt.Errorf("vocabulary file %s: model %q has non-positive dimension %d", path, entry.Model, entry.Dimension)
		}
	}

	return &f, nil
}

// ApplyRegistry returns a new registry with the file's vocabularies
// applied on top of the given one. Each named vocabulary is replaced
// wholesale; vocabularies the file does not mention are untouched.
func (f *File) ApplyRegistry(r *vocab.Registry) (*vocab.Registry, error) {
	for _, entry := range f.Vocabularies {
		v, err := vocab.NewVocabulary(entry.Name, entry.Members)
		if err != nil {
			return nil, err
		}
		r = r.With(v)
	}
	return r, nil
}

// ApplyResolver returns a new resolver with the file's model entries
// merged in. Re-declaring a known identity with a different dimension
// fails; the table never silently reinterprets stored vectors.
func (f *File) ApplyResolver(r *embedding.Resolver) (*embedding.Resolver, error) {
	for _, entry := range f.EmbeddingModels {
		next, err := r.WithModel(entry.Model, entry.Dimension)
		if err != nil {
			return nil, err
		}
		r = next
	}
	return r, nil
}
