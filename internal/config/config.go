// Package config loads nlpurify settings from a TOML file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/baditaflorin/go_nlpurify/internal/core/domain"
	"github.com/baditaflorin/go_nlpurify/internal/core/fuzzy"
	"github.com/baditaflorin/go_nlpurify/internal/core/pipeline"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Matcher configures fuzzy scoring and classification.
type Matcher struct {
	Metric    domain.Metric `toml:"metric"`
	Threshold float64       `toml:"threshold"`
	// NormalizeFirst runs the [normalize] pipeline on both sides before scoring.
	NormalizeFirst bool `toml:"normalize_first"`
	Parallelism    int  `toml:"parallelism"`
}

// Stream configures line-by-line normalization.
type Stream struct {
	BatchSize   int  `toml:"batch_size"`
	MaxLineSize int  `toml:"max_line_size"`
	Workers     int  `toml:"workers"`
	SkipEmpty   bool `toml:"skip_empty"`
}

// Server configures the HTTP API.
type Server struct {
	Addr                string `toml:"addr"`
	ReadTimeoutSeconds  int    `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `toml:"write_timeout_seconds"`
	MaxBodyBytes        int    `toml:"max_body_bytes"`
	Warmup              bool   `toml:"warmup"`
}

// Logging configures the structured logger.
type Logging struct {
	JSON bool `toml:"json"`
	// File is the log destination; empty means stderr.
	File string `toml:"file"`
}

// Config is the full file configuration.
type Config struct {
	Normalize pipeline.Config `toml:"normalize"`
	Matcher   Matcher         `toml:"matcher"`
	Stream    Stream          `toml:"stream"`
	Server    Server          `toml:"server"`
	Logging   Logging         `toml:"logging"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Normalize: pipeline.Config{
			UnicodeForm:     pipeline.FormNFC,
			StripLinebreaks: true,
			StripWhitespace: true,
		},
		Matcher: Matcher{
			Metric:         domain.TokenSort,
			Threshold:      0.8,
			NormalizeFirst: true,
			Parallelism:    4,
		},
		Stream: Stream{
			BatchSize:   256,
			MaxLineSize: 1024 * 1024,
			Workers:     1,
		},
		Server: Server{
			Addr:                ":8080",
			ReadTimeoutSeconds:  10,
			WriteTimeoutSeconds: 10,
			MaxBodyBytes:        4 * 1024 * 1024,
		},
	}
}

// Load reads path over the defaults and validates the result. A missing file
// is not an error; exists reports whether one was read.
func Load(path string) (cfg Config, exists bool, err error) {
	cfg = Default()
	if strings.TrimSpace(path) == "" {
		return cfg, false, cfg.Validate()
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, false, cfg.Validate()
		}
		return Config{}, false, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, true, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, true, err
	}
	return cfg, true, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Normalize.Validate(); err != nil {
		return err
	}
	if !c.Matcher.Metric.Valid() {
		return domain.NewConfigError("matcher.metric", "unknown metric")
	}
	if err := fuzzy.ValidateThreshold(c.Matcher.Threshold); err != nil {
		return domain.NewConfigError("matcher.threshold", "must be between 0 and 1")
	}
	if c.Matcher.Parallelism < 0 {
		return domain.NewConfigError("matcher.parallelism", "must not be negative")
	}
	if c.Stream.BatchSize < 0 || c.Stream.MaxLineSize < 0 || c.Stream.Workers < 0 {
		return domain.NewConfigError("stream", "sizes must not be negative")
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return domain.NewConfigError("server.addr", "must be set")
	}
	if c.Server.MaxBodyBytes < 0 {
		return domain.NewConfigError("server.max_body_bytes", "must not be negative")
	}
	return nil
}

// Marshal renders c as TOML.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// CreateSample writes a commented sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
