package normalize_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/baditaflorin/go_nlpurify/internal/core/domain"
	"github.com/baditaflorin/go_nlpurify/pkg/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizerOptions(t *testing.T) {
	tests := []struct {
		name  string
		opts  []normalize.Option
		input string
		want  string
	}{
		{
			name:  "no options is identity",
			input: "  Keep\tAS IS ",
			want:  "  Keep\tAS IS ",
		},
		{
			name:  "whitespace and line breaks",
			opts:  []normalize.Option{normalize.WithStripWhitespace(true), normalize.WithStripLinebreaks(true)},
			input: "a   b\n\nc",
			want:  "a b c",
		},
		{
			name:  "sentence case",
			opts:  []normalize.Option{normalize.WithSentenceCase(true), normalize.WithStripWhitespace(true)},
			input: "hELLO world.   this IS it! ok",
			want:  "Hello world. This is it! Ok",
		},
		{
			name:  "nfkc lowercase",
			opts:  []normalize.Option{normalize.WithUnicodeForm(normalize.NFKC), normalize.WithLowercase(true)},
			input: "ＨＥＬＬＯ",
			want:  "hello",
		},
		{
			name:  "stop words with extras",
			opts:  []normalize.Option{normalize.WithStopWords("english", "fox"), normalize.WithStripWhitespace(true)},
			input: "The quick brown fox is here",
			want:  "quick brown",
		},
		{
			name:  "preset then override",
			opts:  []normalize.Option{normalize.WithPreset("matching"), normalize.WithLowercase(false)},
			input: "Hello \n World",
			want:  "Hello World",
		},
		{
			name: "trim lines on crlf only",
			opts: []normalize.Option{
				normalize.WithTrimLines(true),
				normalize.WithStripLinebreaks(true),
				normalize.WithLineSeparator("\r\n"),
			},
			input: "  one \r\n two\n ",
			want:  "one two",
		},
		{
			name:  "trim one end",
			opts:  []normalize.Option{normalize.WithTrimLeft(true)},
			input: "  left  ",
			want:  "left  ",
		},
		{
			name:  "trim right end",
			opts:  []normalize.Option{normalize.WithTrimRight(true)},
			input: "  right  ",
			want:  "  right",
		},
		{
			name:  "strip chars",
			opts:  []normalize.Option{normalize.WithStripChars("-_")},
			input: "a-b_c",
			want:  "abc",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n, err := normalize.New(tc.opts...)
			require.NoError(t, err)
			got, err := n.Normalize(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewRejectsConflicts(t *testing.T) {
	_, err := normalize.New(normalize.WithLowercase(true), normalize.WithSentenceCase(true))
	require.ErrorIs(t, err, domain.ErrConfig)
	var cfgErr *domain.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "case", cfgErr.Field)

	_, err = normalize.New(normalize.WithPreset("bogus"))
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestNormalizeBytes(t *testing.T) {
	n, err := normalize.New(normalize.WithUppercase(true))
	require.NoError(t, err)

	got, err := n.NormalizeBytes([]byte("caf\xe9"), "iso-8859-1")
	require.NoError(t, err)
	assert.Equal(t, "CAFÉ", got)

	_, err = n.NormalizeBytes([]byte("caf\xe9"), "utf-8")
	assert.ErrorIs(t, err, domain.ErrEncoding)
}

func TestReplaceInvalid(t *testing.T) {
	strict, err := normalize.New()
	require.NoError(t, err)
	_, err = strict.Normalize("a\xffb")
	assert.ErrorIs(t, err, domain.ErrEncoding)

	lenient, err := normalize.New(normalize.WithReplaceInvalid(true))
	require.NoError(t, err)
	got, err := lenient.Normalize("a\xffb")
	require.NoError(t, err)
	assert.Equal(t, "a�b", got)
}

func TestTraceAndConfig(t *testing.T) {
	n, err := normalize.New(normalize.WithStripWhitespace(true), normalize.WithUppercase(true))
	require.NoError(t, err)

	out, err := n.Trace("ab  cd")
	require.NoError(t, err)
	assert.Equal(t, "AB CD", out.Text)
	assert.Equal(t, []normalize.Stage{domain.StageWhitespace, domain.StageCase}, out.Stages)

	cfg := n.Config()
	assert.True(t, cfg.Uppercase)
	assert.True(t, cfg.StripWhitespace)

	n.WarmUp(context.Background())
	n.WarmUp(context.Background())
}

func TestPackageNormalize(t *testing.T) {
	got, err := normalize.Normalize("", normalize.Config{Lowercase: true, Uppercase: true})
	require.NoError(t, err, "empty input short-circuits")
	assert.Empty(t, got)

	_, err = normalize.Normalize("x", normalize.Config{Lowercase: true, Uppercase: true})
	assert.ErrorIs(t, err, domain.ErrConfig)

	form, err := normalize.ParseUnicodeForm("nfd")
	require.NoError(t, err)
	assert.Equal(t, normalize.NFD, form)
	assert.Contains(t, normalize.StopWordLanguages(), "english")
}

func TestNormalizeBytesRejectsRepairedInput(t *testing.T) {
	n, err := normalize.New()
	require.NoError(t, err)
	_, err = n.NormalizeBytes([]byte{'a', 0x81, 0x20}, "shift_jis")
	assert.ErrorIs(t, err, domain.ErrEncoding)
}

func TestWarmUpConcurrently(t *testing.T) {
	n, err := normalize.New(normalize.WithPreset("matching"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.WarmUp(context.Background())
		}()
	}
	wg.Wait()

	got, err := n.Normalize("  Hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}
