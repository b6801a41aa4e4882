package warmup

import (
	"context"
	"testing"
	"unicode/utf8"

	"github.com/baditaflorin/go_nlpurify/internal/adapters/logger"
	"github.com/baditaflorin/go_nlpurify/internal/adapters/normalizer"
	"github.com/baditaflorin/go_nlpurify/internal/adapters/stream"
	"github.com/baditaflorin/go_nlpurify/internal/core/domain"
	"github.com/baditaflorin/go_nlpurify/internal/core/fuzzy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarmUpCounts(t *testing.T) {
	log := logger.NewNopLogger()
	m := NewManager(log, Config{Concurrency: 2, Iterations: 20, SampleTextSize: 128})

	m.RegisterNormalizer(normalizer.NewNormalizerFactory(log).CreateNormalizer(normalizer.StrictNormalizerType))
	calc, err := fuzzy.NewCalculator(domain.TokenSort)
	require.NoError(t, err)
	m.RegisterCalculator(calc)
	m.RegisterStreamProcessor(stream.NewProcessorFactory(log).CreateProcessor(normalizer.MatchingNormalizerType, stream.ProcessingConfig{}))

	report := m.WarmUp(context.Background())
	assert.Equal(t, int64(40), report.Normalizations)
	assert.Equal(t, int64(40), report.Scores)
	assert.Equal(t, int64(4), report.Streams)
}

func TestWarmUpStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewManager(logger.NewNopLogger(), Config{Concurrency: 4, Iterations: 1000})
	calc, err := fuzzy.NewCalculator(domain.EditRatio)
	require.NoError(t, err)
	m.RegisterCalculator(calc)

	assert.Zero(t, m.WarmUp(ctx).Scores)
}

func TestSampleText(t *testing.T) {
	s := SampleText(300)
	assert.GreaterOrEqual(t, len(s), 300)
	assert.True(t, utf8.ValidString(s))
	assert.NotEqual(t, s, mutate(s, 0.5))
}
