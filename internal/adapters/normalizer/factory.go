package normalizer

import (
	"strconv"
	"strings"

	"github.com/baditaflorin/go_nlpurify/internal/core/domain"
	"github.com/baditaflorin/go_nlpurify/internal/core/pipeline"
	"github.com/baditaflorin/go_nlpurify/internal/ports"
)

// ASCIIPunctuation lists every printable ASCII punctuation character.
const ASCIIPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// NormalizerType names a ready-made pipeline configuration.
type NormalizerType int

const (
	// IdentityNormalizerType disables every stage.
	IdentityNormalizerType NormalizerType = iota
	// WhitespaceNormalizerType collapses line breaks and whitespace.
	WhitespaceNormalizerType
	// MatchingNormalizerType adds NFKC and lowercasing, suited to fuzzy matching.
	MatchingNormalizerType
	// StrictNormalizerType also strips ASCII punctuation and english stop words.
	StrictNormalizerType
)

var typeNames = map[string]NormalizerType{
	"identity":   IdentityNormalizerType,
	"none":       IdentityNormalizerType,
	"whitespace": WhitespaceNormalizerType,
	"matching":   MatchingNormalizerType,
	"strict":     StrictNormalizerType,
}

// ParseNormalizerType resolves a preset name.
func ParseNormalizerType(name string) (NormalizerType, error) {
	if t, ok := typeNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t, nil
	}
	return IdentityNormalizerType, domain.NewConfigError("preset", "unknown preset "+strconv.Quote(name))
}

// PresetConfig returns the pipeline configuration behind a preset.
func PresetConfig(t NormalizerType) pipeline.Config {
	switch t {
	case WhitespaceNormalizerType:
		return pipeline.Config{StripLinebreaks: true, StripWhitespace: true}
	case MatchingNormalizerType:
		return pipeline.Config{
			UnicodeForm:     pipeline.FormNFKC,
			StripLinebreaks: true,
			StripWhitespace: true,
			Lowercase:       true,
		}
	case StrictNormalizerType:
		return pipeline.Config{
			UnicodeForm:     pipeline.FormNFKC,
			StripChars:      ASCIIPunctuation,
			StripLinebreaks: true,
			StripWhitespace: true,
			StopWords:       pipeline.StopWordConfig{Enabled: true},
			Lowercase:       true,
		}
	default:
		return pipeline.Config{}
	}
}

// NormalizerFactory creates preset normalizers sharing one logger.
type NormalizerFactory struct {
	logger ports.Logger
}

// NewNormalizerFactory creates a new normalizer factory
func NewNormalizerFactory(logger ports.Logger) *NormalizerFactory {
	return &NormalizerFactory{logger: logger}
}

// CreateNormalizer creates a normalizer of the specified type
func (f *NormalizerFactory) CreateNormalizer(normalizerType NormalizerType) *PipelineNormalizer {
	n, err := NewPipelineNormalizer(PresetConfig(normalizerType), f.logger)
	if err != nil {
		// Presets are constant and always valid.
		panic(err)
	}
	return n
}
