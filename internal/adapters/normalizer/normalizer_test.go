package normalizer

import (
	"testing"

	"github.com/baditaflorin/go_nlpurify/internal/adapters/logger"
	"github.com/baditaflorin/go_nlpurify/internal/core/domain"
	"github.com/baditaflorin/go_nlpurify/internal/core/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresets(t *testing.T) {
	factory := NewNormalizerFactory(logger.NewNopLogger())
	input := "The  Quick,\r\n brown\tfox!"

	tests := []struct {
		name   string
		preset NormalizerType
		want   string
	}{
		{"identity", IdentityNormalizerType, input},
		{"whitespace", WhitespaceNormalizerType, "The Quick, brown fox!"},
		{"matching", MatchingNormalizerType, "the quick, brown fox!"},
		{"strict", StrictNormalizerType, "quick brown fox"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := factory.CreateNormalizer(tc.preset).Normalize(input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseNormalizerType(t *testing.T) {
	got, err := ParseNormalizerType(" Strict ")
	require.NoError(t, err)
	assert.Equal(t, StrictNormalizerType, got)

	got, err = ParseNormalizerType("none")
	require.NoError(t, err)
	assert.Equal(t, IdentityNormalizerType, got)

	_, err = ParseNormalizerType("aggressive")
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestPipelineNormalizerErrors(t *testing.T) {
	_, err := NewPipelineNormalizer(pipeline.Config{Lowercase: true, Uppercase: true}, logger.NewNopLogger())
	assert.ErrorIs(t, err, domain.ErrConfig)

	n, err := NewPipelineNormalizer(pipeline.Config{StripWhitespace: true}, logger.NewNopLogger())
	require.NoError(t, err)
	_, err = n.Normalize("ok \xff")
	assert.ErrorIs(t, err, domain.ErrEncoding)
}

func TestTraceReportsStages(t *testing.T) {
	n, err := NewPipelineNormalizer(PresetConfig(MatchingNormalizerType), logger.NewNopLogger())
	require.NoError(t, err)

	out, err := n.Trace("Hello   World")
	require.NoError(t, err)
	assert.Equal(t, "hello world", out.Text)
	assert.True(t, out.Altered(domain.StageWhitespace))
	assert.True(t, out.Altered(domain.StageCase))
	assert.False(t, out.Altered(domain.StageUnicode))
	assert.Equal(t, pipeline.FormNFKC, n.Config().UnicodeForm)
}
