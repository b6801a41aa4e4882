// Package streaming normalizes large inputs line by line without loading them into memory.
package streaming

import (
	"context"
	"io"
	"strings"

	"github.com/baditaflorin/go_nlpurify/internal/adapters/decoder"
	"github.com/baditaflorin/go_nlpurify/internal/adapters/logger"
	"github.com/baditaflorin/go_nlpurify/internal/adapters/normalizer"
	"github.com/baditaflorin/go_nlpurify/internal/adapters/stream"
	"github.com/baditaflorin/go_nlpurify/internal/core/pipeline"
	"github.com/baditaflorin/go_nlpurify/internal/ports"
	"github.com/baditaflorin/l"
)

// Stats reports what a streaming run did.
type Stats = ports.StreamResult

// StreamingNormalizer applies one normalization configuration to every line of a stream.
type StreamingNormalizer struct {
	processor ports.StreamProcessor
	logger    ports.Logger
	charset   string
}

// StreamingOption defines a functional option for configuring StreamingNormalizer
type StreamingOption func(*streamingConfig)

type streamingConfig struct {
	Normalization pipeline.Config
	Processing    stream.ProcessingConfig
	Charset       string
	Logger        ports.Logger
	err           error
}

// WithStreamingNormalization sets the per-line normalization.
func WithStreamingNormalization(cfg pipeline.Config) StreamingOption {
	return func(c *streamingConfig) {
		c.Normalization = cfg
	}
}

// WithStreamingPreset uses a named normalizer preset for every line.
func WithStreamingPreset(name string) StreamingOption {
	return func(c *streamingConfig) {
		t, err := normalizer.ParseNormalizerType(name)
		if err != nil {
			c.err = err
			return
		}
		c.Normalization = normalizer.PresetConfig(t)
	}
}

// WithStreamingBatchSize sets how many lines are normalized per batch.
func WithStreamingBatchSize(size int) StreamingOption {
	return func(c *streamingConfig) {
		c.Processing.BatchSize = size
	}
}

// WithStreamingWorkers normalizes the lines of a batch on up to n goroutines.
func WithStreamingWorkers(n int) StreamingOption {
	return func(c *streamingConfig) {
		c.Processing.Workers = n
	}
}

// WithStreamingMaxLineSize sets the longest accepted line in bytes.
func WithStreamingMaxLineSize(size int) StreamingOption {
	return func(c *streamingConfig) {
		c.Processing.MaxLineSize = size
	}
}

// WithStreamingSkipEmpty drops lines that normalize to nothing.
func WithStreamingSkipEmpty(skip bool) StreamingOption {
	return func(c *streamingConfig) {
		c.Processing.SkipEmpty = skip
	}
}

// WithStreamingCharset decodes the input from charset before normalizing.
func WithStreamingCharset(charset string) StreamingOption {
	return func(c *streamingConfig) {
		c.Charset = charset
	}
}

// WithStreamingLogger sets a custom logger for streaming normalization
func WithStreamingLogger(lg l.Logger) StreamingOption {
	return func(c *streamingConfig) {
		c.Logger = logger.FromExisting(lg)
	}
}

// NewStreamingNormalizer creates a new StreamingNormalizer
func NewStreamingNormalizer(opts ...StreamingOption) (*StreamingNormalizer, error) {
	cfg := &streamingConfig{
		Processing: stream.ProcessingConfig{
			BatchSize:   stream.DefaultBatchSize,
			MaxLineSize: stream.DefaultMaxLineSize,
			Workers:     1,
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.err != nil {
		return nil, cfg.err
	}
	if cfg.Charset != "" {
		if _, err := decoder.NewReader(strings.NewReader(""), cfg.Charset); err != nil {
			return nil, err
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNopLogger()
	}

	proc, err := stream.NewProcessorFactory(cfg.Logger).CreateProcessorWithConfig(cfg.Normalization, cfg.Processing)
	if err != nil {
		return nil, err
	}
	return &StreamingNormalizer{
		processor: proc,
		logger:    cfg.Logger,
		charset:   cfg.Charset,
	}, nil
}

// NormalizeLines reads r line by line and writes each normalized line to w,
// terminated by '\n', in input order. It stops at the first failing line or when ctx ends.
func (s *StreamingNormalizer) NormalizeLines(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	if s.charset != "" {
		decoded, err := decoder.NewReader(r, s.charset)
		if err != nil {
			return Stats{}, err
		}
		r = decoded
	}
	return s.processor.ProcessStream(ctx, r, w)
}

// NormalizeString is a convenience wrapper around NormalizeLines for in-memory text.
func (s *StreamingNormalizer) NormalizeString(ctx context.Context, text string) (string, Stats, error) {
	var sb strings.Builder
	stats, err := s.NormalizeLines(ctx, strings.NewReader(text), &sb)
	if err != nil {
		return "", stats, err
	}
	return sb.String(), stats, nil
}
