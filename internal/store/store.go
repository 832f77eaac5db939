// Package store loads and saves the rule tables kept on disk as YAML.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"nvv/ebh-import/internal/logging"
	"nvv/ebh-import/internal/models"
	"nvv/ebh-import/internal/rules"
)

// DefaultRulesFile is the file name looked up when no rules file is configured.
const DefaultRulesFile = "rules.yaml"

// RuleSource provides the rule set used by the classifiers.
type RuleSource interface {
	Load() (rules.RuleSet, error)
}

// RuleStore manages loading and saving of rule tables.
type RuleStore struct {
	RulesFile string
	logger    logging.Logger
}

// NewRuleStore creates a store for rulesFile. An empty rulesFile means the
// built-in tables, optionally overridden by a rules.yaml found in one of the
// standard locations.
func NewRuleStore(rulesFile string, logger logging.Logger) *RuleStore {
	return &RuleStore{RulesFile: rulesFile, logger: logging.OrNop(logger)}
}

// FindConfigFile looks for filename in the standard locations: as given,
// ./config/ and ~/.config/ebh-import/.
func (s *RuleStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".config", "ebh-import", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// Load returns the rule set. Tables present in the rules file replace the
// built-in ones; tables it omits keep their built-in values. An explicitly
// configured file that does not exist is an error, a missing default file
// is not.
func (s *RuleStore) Load() (rules.RuleSet, error) {
	rs := rules.Default()

	filename := s.RulesFile
	explicit := filename != ""
	if !explicit {
		filename = DefaultRulesFile
	}

	path, err := s.FindConfigFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			s.logger.Debug("No rules file found, using built-in rules",
				logging.Field{Key: logging.FieldFile, Value: filename})
			return rs, nil
		}
		return rules.RuleSet{}, fmt.Errorf("rules file %s: %w", filename, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return rules.RuleSet{}, fmt.Errorf("error reading rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return rules.RuleSet{}, fmt.Errorf("error parsing rules file %s: %w", path, err)
	}

	s.logger.Info("Loaded rules file",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: "keyword_groups", Value: len(rs.Keywords)},
		logging.Field{Key: "extraction_patterns", Value: len(rs.Party.ExtractionPatterns)})
	return rs, nil
}

// LoadCompiled loads and compiles the rule set.
func (s *RuleStore) LoadCompiled() (*rules.Compiled, error) {
	rs, err := s.Load()
	if err != nil {
		return nil, err
	}
	compiled, err := rules.Compile(rs)
	if err != nil {
		return nil, fmt.Errorf("error compiling rules: %w", err)
	}
	return compiled, nil
}

// Save writes rs to path as YAML, creating parent directories as needed.
func (s *RuleStore) Save(rs rules.RuleSet, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
			return fmt.Errorf("error creating directory for rules file: %w", err)
		}
	}

	data, err := yaml.Marshal(rs)
	if err != nil {
		return fmt.Errorf("error marshaling rules: %w", err)
	}
	if err := os.WriteFile(path, data, models.PermissionReportFile); err != nil {
		return fmt.Errorf("error writing rules file: %w", err)
	}

	s.logger.Info("Saved rules file", logging.Field{Key: logging.FieldFile, Value: path})
	return nil
}
