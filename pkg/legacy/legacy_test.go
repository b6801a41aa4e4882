package legacy

import (
	"testing"

	"github.com/baditaflorin/go_nlpurify/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuzzyMatch(t *testing.T) {
	tests := []struct {
		str, ref, method string
		want             int
	}{
		{"anonymous", "anonymous", "ratio", 100},
		{"kitten", "sitting", "ratio", 57},
		{"york", "new york mets", "", 100},
		{"mets new york", "new york mets", "token_sort_ratio", 100},
		{"abc", "xyz", "partial_ratio", 0},
	}
	for _, tc := range tests {
		t.Run(tc.str+"/"+tc.method, func(t *testing.T) {
			got, err := FuzzyMatch(tc.str, tc.ref, tc.method)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}

	_, err := FuzzyMatch("a", "b", "wratio")
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestTextProcessor(t *testing.T) {
	tests := []struct {
		name           string
		in             string
		isAlnum, alpha bool
		want           string
	}{
		{"default", "Hello,  World! v2.0\n(ok)", false, false, "hello world v2.0 ok"},
		{"alnum drops dotted words", "Hello v2.0 abc1", true, false, "hello abc1"},
		{"alpha drops digits", "Hello v2 abc", false, true, "hello abc"},
		{"alnum wins over alpha", "abc1 def", true, true, "abc1 def"},
		{"non ascii removed", "café naïve", false, false, "caf nave"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TextProcessor(tc.in, tc.isAlnum, tc.alpha))
		})
	}
}

func TestProcessor(t *testing.T) {
	assert.Equal(t, "quick brown fox jumps lazy dog", Processor("The quick brown fox jumps over the lazy dog"))
	assert.Equal(t, "", Processor(""))
	assert.Equal(t, "bad � byte", Processor("bad \xff byte"))
}
