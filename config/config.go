// Package config loads interpreter and REPL settings from a YAML file.
//
// A missing file is not an error: callers get Default(). Fields absent from
// the file keep their default values. Unknown fields are rejected so typos
// surface instead of being ignored.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/deosjr/crisp/log"
)

// Config is the top-level crisp.yaml configuration.
type Config struct {
	Log  Log  `yaml:"log"`
	GC   GC   `yaml:"gc"`
	REPL REPL `yaml:"repl"`
}

// Log configures the process logger.
type Log struct {
	// Level is one of fatal, error, info, debug, in any case.
	Level string `yaml:"level"`
}

// GC configures the collector schedule.
type GC struct {
	// Every runs a collection after this many top-level evaluations.
	// Zero disables automatic collection.
	Every int `yaml:"every"`

	// Trace logs each object the collector frees.
	Trace bool `yaml:"trace"`
}

// REPL configures the interactive loop.
type REPL struct {
	Prompt   string `yaml:"prompt"`
	Continue string `yaml:"continue"`

	// History is the history file, relative to the home directory unless
	// absolute. Empty disables history.
	History string `yaml:"history"`

	// Color controls ANSI colour on a terminal: auto, always, never.
	Color string `yaml:"color"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: Log{Level: "info"},
		GC:  GC{Every: 1},
		REPL: REPL{
			Prompt:   DefaultPrompt,
			Continue: DefaultContinue,
			History:  HistoryFile,
			Color:    "auto",
		},
	}
}

// Load reads the configuration at path. A missing file yields Default().
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Default() and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if c.GC.Every < 0 {
		return fmt.Errorf("gc.every must not be negative, got %d", c.GC.Every)
	}
	switch c.REPL.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("repl.color must be auto, always or never, got %q", c.REPL.Color)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Marshal renders the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
