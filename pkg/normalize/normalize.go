// Package normalize is the public entry point for text normalization.
//
// A Normalizer is built once from options, validated eagerly and then safe for
// concurrent use:
//
//	n, err := normalize.New(
//		normalize.WithUnicodeForm(normalize.NFKC),
//		normalize.WithStripWhitespace(true),
//		normalize.WithLowercase(true),
//	)
//	out, err := n.Normalize("Ｈｅｌｌｏ   World")
package normalize

import (
	"context"
	"sync"

	"github.com/baditaflorin/go_nlpurify/internal/adapters/decoder"
	"github.com/baditaflorin/go_nlpurify/internal/adapters/logger"
	"github.com/baditaflorin/go_nlpurify/internal/adapters/normalizer"
	"github.com/baditaflorin/go_nlpurify/internal/core/domain"
	"github.com/baditaflorin/go_nlpurify/internal/core/pipeline"
	"github.com/baditaflorin/go_nlpurify/internal/ports"
	"github.com/baditaflorin/go_nlpurify/internal/warmup"
	"github.com/baditaflorin/l"
)

type (
	// Config holds every normalization option.
	Config = pipeline.Config
	// StopWordConfig controls stop-word removal.
	StopWordConfig = pipeline.StopWordConfig
	// UnicodeForm selects Unicode canonicalization.
	UnicodeForm = pipeline.UnicodeForm
	// NormalizedText is a normalization result with per-stage provenance.
	NormalizedText = domain.NormalizedText
	// Stage names a pipeline stage.
	Stage = domain.Stage
)

const (
	None = pipeline.FormNone
	NFC  = pipeline.FormNFC
	NFD  = pipeline.FormNFD
	NFKC = pipeline.FormNFKC
	NFKD = pipeline.FormNFKD
)

// ParseUnicodeForm resolves "nfc", "nfkd", ...; the empty string means None.
func ParseUnicodeForm(name string) (UnicodeForm, error) {
	return pipeline.ParseUnicodeForm(name)
}

// StopWordLanguages lists the built-in stop-word lists.
func StopWordLanguages() []string {
	return pipeline.StopWordLanguages()
}

// Normalizer applies a fixed normalization configuration.
type Normalizer struct {
	normalizer *normalizer.PipelineNormalizer
	logger     ports.Logger
	warmOnce   sync.Once
}

// Option configures a Normalizer.
type Option func(*options)

type options struct {
	config Config
	logger ports.Logger
	warmUp bool
	err    error
}

// WithConfig replaces the whole configuration. Options after it still apply.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

// WithPreset replaces the configuration with a named preset: "identity",
// "whitespace", "matching" or "strict". Options after it still apply.
func WithPreset(name string) Option {
	return func(o *options) {
		t, err := normalizer.ParseNormalizerType(name)
		if err != nil {
			o.err = err
			return
		}
		o.config = normalizer.PresetConfig(t)
	}
}

// WithUnicodeForm sets the canonicalization form.
func WithUnicodeForm(form UnicodeForm) Option {
	return func(o *options) {
		o.config.UnicodeForm = form
	}
}

// WithStripChars removes every character of chars from the text.
func WithStripChars(chars string) Option {
	return func(o *options) {
		o.config.StripChars = chars
	}
}

// WithStripLinebreaks replaces each run of line breaks with a single space.
func WithStripLinebreaks(enable bool) Option {
	return func(o *options) {
		o.config.StripLinebreaks = enable
	}
}

// WithTrimLines trims every line and drops blank lines at either end.
func WithTrimLines(enable bool) Option {
	return func(o *options) {
		o.config.TrimLines = enable
	}
}

// WithLineSeparator restricts line handling to sep: "\n", "\r\n" or "\r".
func WithLineSeparator(sep string) Option {
	return func(o *options) {
		o.config.LineSeparator = sep
	}
}

// WithTrimLeft trims leading whitespace only.
func WithTrimLeft(enable bool) Option {
	return func(o *options) {
		o.config.TrimLeft = enable
	}
}

// WithTrimRight trims trailing whitespace only.
func WithTrimRight(enable bool) Option {
	return func(o *options) {
		o.config.TrimRight = enable
	}
}

// WithStripWhitespace collapses whitespace runs and trims the ends.
func WithStripWhitespace(enable bool) Option {
	return func(o *options) {
		o.config.StripWhitespace = enable
	}
}

// WithStopWords removes the stop words of language plus any extra words.
func WithStopWords(language string, extra ...string) Option {
	return func(o *options) {
		o.config.StopWords = StopWordConfig{Enabled: true, Language: language, Extra: extra}
	}
}

// WithLowercase lowercases the text.
func WithLowercase(enable bool) Option {
	return func(o *options) {
		o.config.Lowercase = enable
	}
}

// WithUppercase uppercases the text.
func WithUppercase(enable bool) Option {
	return func(o *options) {
		o.config.Uppercase = enable
	}
}

// WithSentenceCase capitalizes the first letter of every sentence.
func WithSentenceCase(enable bool) Option {
	return func(o *options) {
		o.config.SentenceCase = enable
	}
}

// WithReplaceInvalid substitutes U+FFFD for invalid UTF-8 instead of failing.
func WithReplaceInvalid(enable bool) Option {
	return func(o *options) {
		o.config.ReplaceInvalid = enable
	}
}

// WithLogger sets a custom logger. Normalizations are logged at debug level.
func WithLogger(lg l.Logger) Option {
	return func(o *options) {
		o.logger = logger.FromExisting(lg)
	}
}

// WithWarmUp runs a short warm-up when the Normalizer is created.
func WithWarmUp(enable bool) Option {
	return func(o *options) {
		o.warmUp = enable
	}
}

// New validates the options and builds a Normalizer. Conflicting options
// return a *ConfigError here, never later.
func New(opts ...Option) (*Normalizer, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if o.logger == nil {
		o.logger = logger.NewNopLogger()
	}

	pn, err := normalizer.NewPipelineNormalizer(o.config, o.logger)
	if err != nil {
		return nil, err
	}
	n := &Normalizer{normalizer: pn, logger: o.logger}
	if o.warmUp {
		n.WarmUp(context.Background())
	}
	return n, nil
}

// Normalize returns the normalized text. Empty input yields "" and no error.
func (n *Normalizer) Normalize(text string) (string, error) {
	return n.normalizer.Normalize(text)
}

// Trace returns the normalized text and the stages that changed it.
func (n *Normalizer) Trace(text string) (NormalizedText, error) {
	return n.normalizer.Trace(text)
}

// NormalizeBytes decodes data from charset and normalizes the result.
// An unknown charset or undecodable data yields an *EncodingError.
func (n *Normalizer) NormalizeBytes(data []byte, charset string) (string, error) {
	text, err := decoder.Decode(data, charset)
	if err != nil {
		return "", err
	}
	return n.normalizer.Normalize(text)
}

// Config returns a copy of the active configuration.
func (n *Normalizer) Config() Config {
	return n.normalizer.Config()
}

// WarmUp exercises the normalizer so pooled buffers are allocated. Only the
// first call does any work; concurrent callers wait for it.
func (n *Normalizer) WarmUp(ctx context.Context) {
	n.warmOnce.Do(func() {
		mgr := warmup.NewManager(n.logger, warmup.DefaultConfig())
		mgr.RegisterNormalizer(n.normalizer)
		mgr.WarmUp(ctx)
	})
}

// Normalize runs text through cfg once. Build a Normalizer to reuse a configuration.
// Empty input yields "" without validating cfg.
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
