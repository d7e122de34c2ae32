package similarity

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Pattern is one reference passage with its bibliographic source
type Pattern struct {
	Text    string `yaml:"text" json:"text"`
	Title   string `yaml:"title" json:"title"`
	Authors string `yaml:"authors" json:"authors"`
	Year    int    `yaml:"year" json:"year"`
	URL     string `yaml:"url" json:"url"`
}

// Source returns the attribution for the pattern
func (p Pattern) Source() Source {
	authors := p.Authors
	if authors == "" {
		authors = "Unknown"
	}
	title := p.Title
	if title == "" {
		title = "Reference corpus"
	}
	return Source{Title: title, Authors: authors, Year: p.Year, URL: p.URL}
}

type corpusFile struct {
	Patterns []Pattern `yaml:"patterns" json:"patterns"`
}

// LoadCorpus reads reference patterns from a YAML or JSON file.
// An empty path yields an empty corpus.
func LoadCorpus(path string) ([]Pattern, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	return ParseCorpus(data, filepath.Ext(path))
}

// ParseCorpus decodes patterns; ext selects JSON for ".json", YAML otherwise.
// Both a bare list and a {patterns: [...]} document are accepted.
func ParseCorpus(data []byte, ext string) ([]Pattern, error) {
	unmarshal := yaml.Unmarshal
	if strings.EqualFold(ext, ".json") {
		unmarshal = json.Unmarshal
	}

	var patterns []Pattern
	if err := unmarshal(data, &patterns); err != nil {
		var wrapped corpusFile
		if err2 := unmarshal(data, &wrapped); err2 != nil {
			return nil, fmt.Errorf("parse corpus: %w", err)
		}
		patterns = wrapped.Patterns
	}

	kept := patterns[:0]
	for _, p := range patterns {
		p.Text = strings.TrimSpace(p.Text)
		if p.Text != "" {
			kept = append(kept, p)
		}
	}
	return kept, nil
}
