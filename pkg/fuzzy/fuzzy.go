// Package fuzzy scores string similarity and classifies strings against labelled choices.
package fuzzy

import (
	"context"
	"sync"

	"github.com/baditaflorin/go_nlpurify/internal/adapters/logger"
	"github.com/baditaflorin/go_nlpurify/internal/adapters/normalizer"
	"github.com/baditaflorin/go_nlpurify/internal/core/domain"
	"github.com/baditaflorin/go_nlpurify/internal/core/fuzzy"
	"github.com/baditaflorin/go_nlpurify/internal/core/pipeline"
	"github.com/baditaflorin/go_nlpurify/internal/ports"
	"github.com/baditaflorin/go_nlpurify/internal/warmup"
	"github.com/baditaflorin/l"
)

type (
	// Metric selects a similarity function.
	Metric = domain.Metric
	// MatchResult is a score in [0,1] and the metric that produced it.
	MatchResult = domain.MatchResult
	// Choice is a labelled classification target.
	Choice = domain.Choice
	// Classification is the winning choice of a Classify call.
	Classification = domain.Classification
	// Logic combines per-reference comparisons.
	Logic = fuzzy.Logic
	// Operator compares a score with a threshold.
	Operator = fuzzy.Operator
)

const (
	EditRatio    = domain.EditRatio
	TokenSort    = domain.TokenSort
	LCSRatio     = domain.LCSRatio
	PartialRatio = domain.PartialRatio

	Any = fuzzy.Any
	All = fuzzy.All

	GreaterOrEqual = fuzzy.GreaterOrEqual
	LessOrEqual    = fuzzy.LessOrEqual
	Greater        = fuzzy.Greater
	Less           = fuzzy.Less
	Equal          = fuzzy.Equal
)

// Defaults used by NewMatcher.
const (
	DefaultMetric    = domain.TokenSort
	DefaultThreshold = 0.8
)

// ParseMetric resolves a metric name such as "ratio" or "token_sort".
func ParseMetric(name string) (Metric, error) { return domain.ParseMetric(name) }

// ParseLogic resolves "any" or "all".
func ParseLogic(name string) (Logic, error) { return fuzzy.ParseLogic(name) }

// ParseOperator resolves ">=", "<=", ">", "<" or "=="; "" means ">=".
func ParseOperator(op string) (Operator, error) { return fuzzy.ParseOperator(op) }

// Matcher scores and classifies with a fixed metric and threshold.
type Matcher struct {
	classifier *fuzzy.Classifier
	calculator *fuzzy.Calculator
	normalizer ports.Normalizer
	logger     ports.Logger
	warmOnce   sync.Once
}

// Option configures a Matcher.
type Option func(*matcherConfig)

type matcherConfig struct {
	Metric        Metric
	Threshold     float64
	Parallelism   int
	Normalization *pipeline.Config
	Logger        ports.Logger
	WarmUp        bool
}

// WithMetric sets the similarity metric.
func WithMetric(m Metric) Option {
	return func(cfg *matcherConfig) {
		cfg.Metric = m
	}
}

// WithThreshold sets the minimum score Classify accepts. It must lie in [0,1].
func WithThreshold(th float64) Option {
	return func(cfg *matcherConfig) {
		cfg.Threshold = th
	}
}

// WithNormalization normalizes both sides with cfg before scoring.
func WithNormalization(cfg pipeline.Config) Option {
	return func(c *matcherConfig) {
		c.Normalization = &cfg
	}
}

// WithParallelism bounds the goroutines Classify uses for large choice lists.
func WithParallelism(n int) Option {
	return func(cfg *matcherConfig) {
		cfg.Parallelism = n
	}
}

// WithLogger sets a custom logger.
func WithLogger(lg l.Logger) Option {
	return func(cfg *matcherConfig) {
		cfg.Logger = logger.FromExisting(lg)
	}
}

// WithWarmUp enables warm-up on initialization.
func WithWarmUp(enable bool) Option {
	return func(cfg *matcherConfig) {
		cfg.WarmUp = enable
	}
}

// NewMatcher validates the options eagerly: an unknown metric, a threshold
// outside [0,1] or a conflicting normalization returns a *ConfigError.
func NewMatcher(opts ...Option) (*Matcher, error) {
	cfg := &matcherConfig{
		Metric:      DefaultMetric,
		Threshold:   DefaultThreshold,
		Parallelism: 1,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNopLogger()
	}

	var norm ports.Normalizer
	var prepare func(string) (string, error)
	if cfg.Normalization != nil {
		pn, err := normalizer.NewPipelineNormalizer(*cfg.Normalization, cfg.Logger)
		if err != nil {
			return nil, err
		}
		norm = pn
		prepare = pn.Normalize
	}

	classifier, err := fuzzy.NewClassifier(cfg.Metric, cfg.Threshold, cfg.Parallelism, prepare)
	if err != nil {
		return nil, err
	}
	calculator, err := fuzzy.NewCalculator(cfg.Metric)
	if err != nil {
		return nil, err
	}

	m := &Matcher{
		classifier: classifier,
		calculator: calculator,
		normalizer: norm,
		logger:     cfg.Logger,
	}
	if cfg.WarmUp {
		m.WarmUp(context.Background())
	}
	return m, nil
}

// Score compares a and b. It fails only when normalization rejects an input.
func (m *Matcher) Score(a, b string) (MatchResult, error) {
	a, b, err := m.prepare(a, b)
	if err != nil {
		return MatchResult{}, err
	}
	return m.calculator.Score(a, b), nil
}

// Classify returns the best choice scoring at least the threshold. ok is false
// when choices is empty or nothing reaches the threshold. Ties go to the earliest choice.
func (m *Matcher) Classify(candidate string, choices []Choice) (result Classification, ok bool, err error) {
	result, ok, err = m.classifier.Classify(candidate, choices)
	if err != nil {
		m.logger.Warn("Classification failed", "error", err, "choices", len(choices))
		return result, ok, err
	}
	m.logger.Debug("Classified candidate",
		"choices", len(choices),
		"matched", ok,
		"score", result.Score,
		"index", result.Index,
	)
	return result, ok, nil
}

// Scores returns the score of candidate against every choice, in order.
func (m *Matcher) Scores(candidate string, choices []Choice) ([]float64, error) {
	return m.classifier.Scores(candidate, choices)
}

// Evaluate scores statement against each reference and combines the comparisons
// with the matcher's threshold. With no references All holds and Any does not.
func (m *Matcher) Evaluate(statement string, references []string, logic Logic, op Operator) (bool, error) {
	choices := make([]Choice, len(references))
	for i, ref := range references {
		choices[i] = Choice{Text: ref}
	}
	scores, err := m.classifier.Scores(statement, choices)
	if err != nil {
		return false, err
	}
	return fuzzy.Evaluate(scores, m.classifier.Threshold(), logic, op)
}

// Metric returns the configured metric.
func (m *Matcher) Metric() Metric { return m.classifier.Metric() }

// Threshold returns the configured threshold.
func (m *Matcher) Threshold() float64 { return m.classifier.Threshold() }

// WarmUp exercises the metric and the normalizer. Only the first call does any
// work; concurrent callers wait for it.
func (m *Matcher) WarmUp(ctx context.Context) {
	m.warmOnce.Do(func() {
		mgr := warmup.NewManager(m.logger, warmup.DefaultConfig())
		mgr.RegisterCalculator(m.calculator)
		if m.normalizer != nil {
			mgr.RegisterNormalizer(m.normalizer)
		}
		mgr.WarmUp(ctx)
	})
}

func (m *Matcher) prepare(a, b string) (string, string, error) {
	if m.normalizer == nil {
		return a, b, nil
	}
	na, err := m.normalizer.Normalize(a)
	if err != nil {
		return "", "", err
	}
	nb, err := m.normalizer.Normalize(b)
	if err != nil {
		return "", "", err
	}
	return na, nb, nil
}

// Score compares a and b with metric. Unknown metrics fall back to EditRatio.
func Score(a, b string, metric Metric) float64 {
	return fuzzy.Compute(metric, a, b)
}

// Classify is a one-shot classification. The threshold is validated before any scoring.
func Classify(candidate string, choices []Choice, metric Metric, threshold float64) (Classification, bool, error) {
	c, err := fuzzy.NewClassifier(metric, threshold, 1, nil)
	if err != nil {
		return Classification{}, false, err
	}
	return c.Classify(candidate, choices)
}

// Evaluate is a one-shot logical comparison of statement against references.
func Evaluate(statement string, references []string, metric Metric, threshold float64, logic Logic, op Operator) (bool, error) {
	if !metric.Valid() {
		return false, domain.NewConfigError("metric", "unknown metric")
	}
	return fuzzy.Evaluate(fuzzy.Scores(metric, statement, references...), threshold, logic, op)
}
