package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/guarzo/psalistings/internal/model"
)

// Search is one entry of a batch: the filters plus how to label and save it.
type Search struct {
	Label   string `yaml:"label"`
	Name    string `yaml:"name"`
	SetName string `yaml:"set"`
	Grade   *int   `yaml:"grade"`
	Limit   int    `yaml:"limit"`
	// Output is the filename to save to; empty generates a timestamped name.
	Output string `yaml:"output"`
}

// Filters returns the search filters for this entry
func (s Search) Filters() model.SearchFilters {
	return model.SearchFilters{
		Name:    s.Name,
		SetName: s.SetName,
		Grade:   s.Grade,
		Limit:   s.Limit,
	}
}

// BatchFile is the YAML layout accepted by LoadSearches. Settings left out of
// the file keep their environment values.
type BatchFile struct {
	Sandbox           *bool    `yaml:"sandbox"`
	OutputDir         string   `yaml:"output_dir"`
	FilePrefix        string   `yaml:"prefix"`
	CSV               *bool    `yaml:"csv"`
	RequestsPerSecond *float64 `yaml:"requests_per_second"`
	Schedule          string   `yaml:"schedule"`
	Searches          []Search `yaml:"searches"`
}

// DefaultSearches returns the built-in example batch.
func DefaultSearches() []Search {
	return []Search{
		{
			Label:  "PSA 10 Charizard Cards",
			Name:   "Charizard",
			Grade:  model.Grade(10),
			Limit:  20,
			Output: "charizard_psa10.json",
		},
		{
			Label:  "PSA Graded Pikachu Cards",
			Name:   "Pikachu",
			Limit:  20,
			Output: "pikachu_psa.json",
		},
		{
			Label:   "Base Set PSA Graded Cards",
			SetName: "Base Set",
			Limit:   20,
			Output:  "base_set_psa.json",
		},
	}
}

var envRef = regexp.MustCompile(`\$\{(\w+)\}`)

// expandEnvRefs substitutes ${NAME} references only. A bare $ is left alone
// so labels and card names like "Under $100" survive.
func expandEnvRefs(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(ref []byte) []byte {
		return []byte(os.Getenv(string(envRef.FindSubmatch(ref)[1])))
	})
}

// LoadSearches reads a batch file from disk
func LoadSearches(path string) (*BatchFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseSearches(data)
}

// ParseSearches expands ${VAR} references, decodes the YAML, fills defaults
// and validates the result.
func ParseSearches(data []byte) (*BatchFile, error) {
	var file BatchFile
	if err := yaml.Unmarshal(expandEnvRefs(data), &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	file.setDefaults()

	if errs := file.validate(); len(errs) > 0 {
		joined := make([]error, len(errs))
		for i, e := range errs {
			joined[i] = e
		}
		return nil, fmt.Errorf("validation failed: %w", errors.Join(joined...))
	}

	return &file, nil
}

// Apply copies file settings over cfg.
func (f *BatchFile) Apply(cfg *Config) {
	if f.Sandbox != nil {
		cfg.Sandbox = *f.Sandbox
	}
	if f.OutputDir != "" {
		cfg.OutputDir = f.OutputDir
	}
	if f.FilePrefix != "" {
		cfg.FilePrefix = f.FilePrefix
	}
	if f.CSV != nil {
		cfg.CSV = *f.CSV
	}
	if f.RequestsPerSecond != nil {
		cfg.RequestsPerSecond = *f.RequestsPerSecond
	}
	if f.Schedule != "" {
		cfg.Schedule = f.Schedule
	}
	if len(f.Searches) > 0 {
		cfg.Searches = f.Searches
	}
}

func (f *BatchFile) setDefaults() {
	for i := range f.Searches {
		s := &f.Searches[i]
		if s.Limit == 0 {
			s.Limit = model.DefaultLimit
		}
	}
}

func (f *BatchFile) validate() []ValidationError {
	var errs []ValidationError

	for i, s := range f.Searches {
		if s.Label == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("searches[%d].label", i),
				Message: "label is required",
			})
		}
	}

	if f.RequestsPerSecond != nil && *f.RequestsPerSecond < 0 {
		errs = append(errs, ValidationError{Field: "requests_per_second", Message: "must not be negative"})
	}

	return errs
}
