// SPDX-License-Identifier: MIT

// Package config loads cellauto run settings from YAML and the environment
// and turns them into batch jobs.
//
// Precedence, lowest first: Default, the YAML file, CELLAUTO_* environment
// variables. Command-line flags are applied by the caller on top.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/cellauto/batch"
	"github.com/katalvlaran/cellauto/cell"
	"github.com/katalvlaran/cellauto/evolve"
	"github.com/katalvlaran/cellauto/rule"
	"github.com/katalvlaran/cellauto/seed"
	"github.com/katalvlaran/cellauto/store"
	"github.com/katalvlaran/cellauto/telemetry"
)

var (
	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("config: invalid configuration")

	// ErrNoCentralLine indicates boosting a pattern with no natural central
	// line and no explicit one.
	ErrNoCentralLine = errors.New("config: boost needs a central line for this pattern")
)

// Config is the full run configuration.
type Config struct {
	Automaton   AutomatonConfig   `yaml:"automaton"`
	Recognition RecognitionConfig `yaml:"recognition"`
	Batch       BatchConfig       `yaml:"batch"`
	Cache       CacheConfig       `yaml:"cache"`
	Log         LogConfig         `yaml:"log"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
}

// AutomatonConfig describes one canvas.
type AutomatonConfig struct {
	// Rule is the elementary rule number, used when RuleSpec is empty.
	Rule int `yaml:"rule"`

	// RuleSpec is an explicit flat quadruplet list; it overrides Rule.
	RuleSpec []int `yaml:"rule_spec"`

	Columns int `yaml:"columns"`

	// Rows is the canvas depth; 0 selects columns/2+1.
	Rows int `yaml:"rows"`

	Pattern string `yaml:"pattern"`
	Seed    int64  `yaml:"seed"`
	Boost   bool   `yaml:"boost"`

	// CentralLine is the boost column; -1 derives it from Pattern.
	CentralLine int    `yaml:"central_line"`
	Layout      string `yaml:"layout"`
}

// RecognitionConfig controls segment recognition; PatternLength 0 disables it.
type RecognitionConfig struct {
	PatternLength int `yaml:"pattern_length"`
	Top           int `yaml:"top"`
}

// BatchConfig controls concurrent runs.
type BatchConfig struct {
	Concurrency int   `yaml:"concurrency"`
	Rules       []int `yaml:"rules"`
}

// CacheConfig controls the canvas cache.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Path       string `yaml:"path"`
	InMemory   bool   `yaml:"in_memory"`
	SyncWrites bool   `yaml:"sync_writes"`
}

// TelemetryConfig selects the OpenTelemetry exporter: "none" or "stdout".
type TelemetryConfig struct {
	Exporter string `yaml:"exporter"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns rule 30 from a standard seed on 101 columns, boosted.
func Default() Config {
	return Config{
		Automaton: AutomatonConfig{
			Rule:        30,
			Columns:     101,
			Pattern:     seed.Standard.String(),
			Seed:        1,
			Boost:       true,
			CentralLine: -1,
			Layout:      evolve.Contiguous.String(),
		},
		Recognition: RecognitionConfig{PatternLength: 5, Top: 10},
		Batch:       BatchConfig{Concurrency: 4},
		Cache:       CacheConfig{Path: ".cellauto-cache", SyncWrites: true},
		Log:         LogConfig{Level: "info"},
		Telemetry:   TelemetryConfig{Exporter: telemetry.ExporterNone},
	}
}

// Load reads path (if not empty) over Default, then applies the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if cfg, err = Parse(data); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)

	return cfg, cfg.Validate()
}

// Parse decodes YAML over Default. Unknown fields are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("config: parse: %w", err)
	}

	return cfg, nil
}

// applyEnv overrides fields from CELLAUTO_* variables. Unparsable values are ignored.
func applyEnv(cfg *Config) {
	if v := os.Getenv("CELLAUTO_RULE"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Automaton.Rule = i
			cfg.Automaton.RuleSpec = nil
		}
	}
	if v := os.Getenv("CELLAUTO_COLUMNS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Automaton.Columns = i
		}
	}
	if v := os.Getenv("CELLAUTO_ROWS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Automaton.Rows = i
		}
	}
	if v := os.Getenv("CELLAUTO_PATTERN"); v != "" {
		cfg.Automaton.Pattern = v
	}
	if v := os.Getenv("CELLAUTO_BOOST"); v != "" {
		cfg.Automaton.Boost = v == "true" || v == "1"
	}
	if v := os.Getenv("CELLAUTO_LAYOUT"); v != "" {
		cfg.Automaton.Layout = v
	}
	if v := os.Getenv("CELLAUTO_CONCURRENCY"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Batch.Concurrency = i
		}
	}
	if v := os.Getenv("CELLAUTO_CACHE_PATH"); v != "" {
		cfg.Cache.Path = v
	}
	if v := os.Getenv("CELLAUTO_TELEMETRY"); v != "" {
		cfg.Telemetry.Exporter = v
	}
	if v := os.Getenv("CELLAUTO_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Validate checks every field that does not depend on another package's
// runtime checks.
func (c Config) Validate() error {
	a := c.Automaton
	if len(a.RuleSpec) == 0 && (a.Rule < 0 || a.Rule > 255) {
		return fmt.Errorf("%w: rule %d outside 0..255", ErrInvalid, a.Rule)
	}
	if len(a.RuleSpec)%4 != 0 {
		return fmt.Errorf("%w: rule_spec length %d is not a multiple of 4", ErrInvalid, len(a.RuleSpec))
	}
	if a.Columns < 1 {
		return fmt.Errorf("%w: columns must be >= 1", ErrInvalid)
	}
	if a.Rows < 0 {
		return fmt.Errorf("%w: rows must be >= 0", ErrInvalid)
	}
	if a.CentralLine >= a.Columns {
		return fmt.Errorf("%w: central_line %d outside %d columns", ErrInvalid, a.CentralLine, a.Columns)
	}
	if _, err := seed.ParsePattern(a.Pattern); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := evolve.ParseLayout(a.Layout); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Recognition.PatternLength < 0 {
		return fmt.Errorf("%w: pattern_length must be >= 0", ErrInvalid)
	}
	for _, r := range c.Batch.Rules {
		if r < 0 || r > 255 {
			return fmt.Errorf("%w: batch rule %d outside 0..255", ErrInvalid, r)
		}
	}
	if c.Cache.Enabled && !c.Cache.InMemory && c.Cache.Path == "" {
		return fmt.Errorf("%w: cache path is required", ErrInvalid)
	}
	switch c.Telemetry.Exporter {
	case "", telemetry.ExporterNone, telemetry.ExporterStdout:
	default:
		return fmt.Errorf("%w: telemetry exporter %q", ErrInvalid, c.Telemetry.Exporter)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return nil
}

// SlogLevel parses Level ("debug", "info", "warn", "error").
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(l.Level))); err != nil {
		return slog.LevelInfo, err
	}

	return lvl, nil
}

// StoreConfig returns the store settings with logger attached.
func (c CacheConfig) StoreConfig(logger *slog.Logger) store.Config {
	cfg := store.DefaultConfig()
	if c.InMemory {
		cfg = store.InMemoryConfig()
	}
	cfg.Path = c.Path
	cfg.SyncWrites = c.SyncWrites && !c.InMemory
	cfg.Logger = logger

	return cfg
}

// Spec returns the flat rule specification: RuleSpec when set, otherwise
// the elementary specification of Rule.
func (a AutomatonConfig) Spec() ([]byte, error) {
	if len(a.RuleSpec) == 0 {
		return rule.ElementarySpec(a.Rule)
	}
	spec := make([]byte, len(a.RuleSpec))
	for i, v := range a.RuleSpec {
		if v != 0 && v != 1 {
			return nil, fmt.Errorf("config: rule_spec[%d] = %d: %w", i, v, cell.ErrInvalidCellValue)
		}
		spec[i] = byte(v)
	}

	return spec, nil
}

// Depth returns Rows, or the default depth for Columns when Rows is 0.
func (a AutomatonConfig) Depth() int {
	if a.Rows == 0 {
		return seed.DefaultRows(a.Columns)
	}

	return a.Rows
}

// Job builds the batch job described by the configuration.
func (c Config) Job() (batch.Job, error) {
	a := c.Automaton
	spec, err := a.Spec()
	if err != nil {
		return batch.Job{}, err
	}
	p, err := seed.ParsePattern(a.Pattern)
	if err != nil {
		return batch.Job{}, err
	}
	layout, err := evolve.ParseLayout(a.Layout)
	if err != nil {
		return batch.Job{}, err
	}
	initial, err := seed.Build(p, a.Columns, seed.WithSeed(a.Seed))
	if err != nil {
		return batch.Job{}, err
	}

	job := batch.Job{
		RuleSpec:      spec,
		Initial:       initial,
		Rows:          a.Depth(),
		Layout:        layout,
		PatternLength: c.Recognition.PatternLength,
	}
	if a.Boost {
		cl := a.CentralLine
		if cl < 0 {
			var ok bool
			if cl, ok = seed.CentralLine(p, a.Columns); !ok {
				return batch.Job{}, fmt.Errorf("%w: %v", ErrNoCentralLine, p)
			}
		}
		job.Boost = true
		job.CentralLine = cl
	}

	return job, nil
}

// Jobs builds one job per elementary rule in rules, all sharing the
// automaton settings. An empty rules falls back to Batch.Rules, then to Job.
func (c Config) Jobs(rules []int) ([]batch.Job, error) {
	if len(rules) == 0 {
		rules = c.Batch.Rules
	}
	if len(rules) == 0 {
		j, err := c.Job()
		if err != nil {
			return nil, err
		}
		return []batch.Job{j}, nil
	}

	jobs := make([]batch.Job, 0, len(rules))
	for _, n := range rules {
		cc := c
		cc.Automaton.Rule = n
		cc.Automaton.RuleSpec = nil
		j, err := cc.Job()
		if err != nil {
			return nil, fmt.Errorf("config: rule %d: %w", n, err)
		}
		j.ID = fmt.Sprintf("rule-%d", n)
		jobs = append(jobs, j)
	}

	return jobs, nil
}
