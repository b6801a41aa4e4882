// Package nlpurify cleans text and compares strings.
//
// Normalize applies a fixed pipeline of optional stages (Unicode form, character
// stripping, line breaks, whitespace, stop words, case) to a string. Score and
// Classify compare strings with edit-distance, token-sort, LCS or partial ratios
// in [0,1]. For reusable, configured instances see the pkg/normalize, pkg/fuzzy
// and pkg/streaming packages.
//
// Configuration problems are reported as *ConfigError when a configuration is
// built; text that is not valid UTF-8 is reported as *EncodingError.
package nlpurify

import (
	"github.com/baditaflorin/go_nlpurify/internal/core/domain"
	"github.com/baditaflorin/go_nlpurify/internal/core/fuzzy"
	"github.com/baditaflorin/go_nlpurify/internal/core/pipeline"
)

type (
	// Config holds every normalization option. The zero value changes nothing.
	Config = pipeline.Config
	// StopWordConfig controls stop-word removal.
	StopWordConfig = pipeline.StopWordConfig
	// UnicodeForm selects Unicode canonicalization.
	UnicodeForm = pipeline.UnicodeForm
	// Metric selects a similarity function.
	Metric = domain.Metric
	// MatchResult is a score and the metric that produced it.
	MatchResult = domain.MatchResult
	// Choice is a labelled classification target.
	Choice = domain.Choice
	// Classification is the winning choice of Classify.
	Classification = domain.Classification
	// ConfigError reports conflicting or out-of-range options.
	ConfigError = domain.ConfigError
	// EncodingError reports malformed input bytes.
	EncodingError = domain.EncodingError
)

const (
	NFC  = pipeline.FormNFC
	NFD  = pipeline.FormNFD
	NFKC = pipeline.FormNFKC
	NFKD = pipeline.FormNFKD

	EditRatio    = domain.EditRatio
	TokenSort    = domain.TokenSort
	LCSRatio     = domain.LCSRatio
	PartialRatio = domain.PartialRatio
)

var (
	// ErrConfig matches any *ConfigError with errors.Is.
	ErrConfig = domain.ErrConfig
	// ErrEncoding matches any *EncodingError with errors.Is.
	ErrEncoding = domain.ErrEncoding
)

// Normalize applies cfg to text. Empty text returns "" without validating cfg.
func Normalize(text string, cfg Config) (string, error) {
	if text == "" {
		return "", nil
	}
	p, err := pipeline.New(cfg)
	if err != nil {
		return "", err
	}
	return p.Normalize(text)
}

// Score compares a and b with metric. When normalizeFirst is not nil both
// strings go through it before scoring, and only that step can fail on input.
func Score(a, b string, metric Metric, normalizeFirst *Config) (MatchResult, error) {
	calc, err := fuzzy.NewCalculator(metric)
	if err != nil {
		return MatchResult{}, err
	}
	if normalizeFirst != nil {
		p, err := pipeline.New(*normalizeFirst)
		if err != nil {
			return MatchResult{}, err
		}
		if a, err = p.Normalize(a); err != nil {
			return MatchResult{}, err
		}
		if b, err = p.Normalize(b); err != nil {
			return MatchResult{}, err
		}
	}
	return calc.Score(a, b), nil
}

// Classify returns the highest scoring choice if it reaches threshold. ok is
// false when nothing qualifies; ties go to the earliest choice.
func Classify(candidate string, choices []Choice, metric Metric, threshold float64) (result Classification, ok bool, err error) {
	c, err := fuzzy.NewClassifier(metric, threshold, 1, nil)
	if err != nil {
		return Classification{}, false, err
	}
	return c.Classify(candidate, choices)
}
