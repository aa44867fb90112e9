// Package config loads the practice programs' YAML configuration. A user
// file is overlaid on the embedded defaults, so it only needs the keys it
// changes.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/JuniperPractice/core/errors"
)

//go:embed default.yaml
var defaultYAML []byte

// Config holds all practice configuration.
type Config struct {
	Scripture   ScriptureConfig   `yaml:"scripture"`
	Journal     JournalConfig     `yaml:"journal"`
	Goals       GoalsConfig       `yaml:"goals"`
	Mindfulness MindfulnessConfig `yaml:"mindfulness"`
	Videos      VideosConfig      `yaml:"videos"`
}

// ScriptureConfig configures the memorizer.
type ScriptureConfig struct {
	Source       string `yaml:"source"`
	InitialHide  int    `yaml:"initial_hide"`  // words hidden when a round starts
	EscalateHide int    `yaml:"escalate_hide"` // extra words hidden after a round
	ClearScreen  bool   `yaml:"clear_screen"`
	History      bool   `yaml:"history"` // record results in the practice database
}

// JournalConfig configures the journal.
type JournalConfig struct {
	Prompts []string `yaml:"prompts"`
}

// GoalsConfig configures the goal tracker.
type GoalsConfig struct {
	// LevelThresholds[i] is the score needed for level i+1.
	LevelThresholds []int `yaml:"level_thresholds"`
}

// MindfulnessConfig configures the mindfulness activities.
type MindfulnessConfig struct {
	ReflectionPrompts   []string `yaml:"reflection_prompts"`
	ReflectionQuestions []string `yaml:"reflection_questions"`
	ListingPrompts      []string `yaml:"listing_prompts"`
}

// VideosConfig configures the video catalog. An empty Catalog selects the
// built-in sample catalog.
type VideosConfig struct {
	Catalog string `yaml:"catalog"`
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultYAML, cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load reads the YAML file at path over the defaults. An empty path or a
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.NewIO("read", path, err)
	}

	if err := Parse(data, cfg); err != nil {
		return nil, &errors.ParseError{Format: "yaml", Path: path, Message: err.Error(), Err: err}
	}
	return cfg, nil
}

// Parse overlays the YAML document in data on cfg and validates the result.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewIO("mkdir", filepath.Dir(path), err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewIO("write", path, err)
	}
	return nil
}

// Validate checks the configuration for values the programs cannot use.
func (c *Config) Validate() error {
	if c.Scripture.Source == "" {
		return errors.NewValidation("scripture.source", "must not be empty")
	}
	if c.Scripture.InitialHide < 1 {
		return errors.NewValidation("scripture.initial_hide", fmt.Sprintf("must be positive, got %d", c.Scripture.InitialHide))
	}
	if c.Scripture.EscalateHide < 1 {
		return errors.NewValidation("scripture.escalate_hide", fmt.Sprintf("must be positive, got %d", c.Scripture.EscalateHide))
	}

	lists := []struct {
		field  string
		values []string
	}{
		{"journal.prompts", c.Journal.Prompts},
		{"mindfulness.reflection_prompts", c.Mindfulness.ReflectionPrompts},
		{"mindfulness.reflection_questions", c.Mindfulness.ReflectionQuestions},
		{"mindfulness.listing_prompts", c.Mindfulness.ListingPrompts},
	}
	for _, l := range lists {
		if len(l.values) == 0 {
			return errors.NewValidation(l.field, "must list at least one entry")
		}
	}

	thresholds := c.Goals.LevelThresholds
	if len(thresholds) == 0 || thresholds[0] != 0 {
		return errors.NewValidation("goals.level_thresholds", "must start at 0")
	}
	for i := 1; i < len(thresholds); i++ {
		if thresholds[i] <= thresholds[i-1] {
			return errors.NewValidation("goals.level_thresholds", "must be strictly ascending")
		}
	}
	return nil
}
