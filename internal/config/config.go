// Package config loads captime settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mgpai22/captime/internal/subtitle"
)

// Config holds the rendering and transcription settings. Values absent from
// the YAML file keep their defaults.
type Config struct {
	Format          string  `yaml:"format"`
	WordsPerSegment int     `yaml:"words_per_segment"`
	HighlightColor  string  `yaml:"highlight_color"`
	GapThreshold    float64 `yaml:"gap_threshold"`

	ITT subtitle.ITTOptions `yaml:"itt"`

	Transcription struct {
		Provider      string  `yaml:"provider"`
		Model         string  `yaml:"model"`
		Language      string  `yaml:"language"`
		ChunkDuration float64 `yaml:"chunk_duration"` // seconds
		Concurrency   int     `yaml:"concurrency"`
	} `yaml:"transcription"`

	path string
}

// Default returns the built-in configuration.
func Default() *Config {
	c := &Config{
		Format:       string(subtitle.FormatSRT),
		GapThreshold: subtitle.DefaultGapThreshold,
		ITT:          subtitle.DefaultITTOptions(),
	}

	c.Transcription.Provider = "gemini"
	c.Transcription.ChunkDuration = 60
	c.Transcription.Concurrency = 3

	return c
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Path is the file the config was loaded from, empty for defaults.
func (c *Config) Path() string {
	return c.path
}

var validDropModes = []string{"nonDrop", "dropNTSC", "dropPAL"}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if _, err := subtitle.ParseFormat(c.Format); err != nil {
		errs = append(errs, err)
	}
	if c.WordsPerSegment < 0 {
		errs = append(errs, fmt.Errorf("words_per_segment must not be negative, got %d", c.WordsPerSegment))
	}
	if c.GapThreshold < 0 {
		errs = append(errs, fmt.Errorf("gap_threshold must not be negative, got %v", c.GapThreshold))
	}
	if c.ITT.FrameRate <= 0 {
		errs = append(errs, fmt.Errorf("itt.frame_rate must be positive, got %d", c.ITT.FrameRate))
	}
	if !slices.Contains(validDropModes, c.ITT.DropMode) {
		errs = append(errs, fmt.Errorf(
			"itt.drop_mode must be one of %s, got %q",
			strings.Join(validDropModes, ", "),
			c.ITT.DropMode,
		))
	}
	if c.Transcription.ChunkDuration <= 0 {
		errs = append(errs, fmt.Errorf("transcription.chunk_duration must be positive, got %v", c.Transcription.ChunkDuration))
	}
	if c.Transcription.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("transcription.concurrency must be positive, got %d", c.Transcription.Concurrency))
	}

	return errors.Join(errs...)
}

// RenderOptions converts the config into converter render options.
func (c *Config) RenderOptions() subtitle.RenderOptions {
	return subtitle.RenderOptions{
		WordsPerSegment: c.WordsPerSegment,
		HighlightColor:  c.HighlightColor,
		GapThreshold:    c.GapThreshold,
		ITT:             c.ITT,
	}
}
