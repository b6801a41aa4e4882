package fuzzy

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/baditaflorin/go_nlpurify/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	choices := []domain.Choice{{Text: "abc", Label: "L1"}, {Text: "abd", Label: "L2"}}

	c, err := NewClassifier(domain.EditRatio, 0.5, 1, nil)
	require.NoError(t, err)

	got, ok, err := c.Classify("abc", choices)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "L1", got.Label)
	assert.Equal(t, 1.0, got.Score)
	assert.Equal(t, 0, got.Index)

	strict, err := NewClassifier(domain.EditRatio, 0.9, 1, nil)
	require.NoError(t, err)
	_, ok, err = strict.Classify("xyz", []domain.Choice{{Text: "abc", Label: "L1"}})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClassifyEmptyChoices(t *testing.T) {
	c, err := NewClassifier(domain.TokenSort, 0, 4, nil)
	require.NoError(t, err)
	_, ok, err := c.Classify("anything", nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClassifyTiesGoToFirst(t *testing.T) {
	c, err := NewClassifier(domain.EditRatio, 0, 1, nil)
	require.NoError(t, err)
	got, ok, err := c.Classify("ab", []domain.Choice{
		{Text: "xb", Label: "first"},
		{Text: "ax", Label: "second"},
		{Text: "ab", Label: "exact-a"},
		{Text: "ab", Label: "exact-b"},
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "exact-a", got.Label)
	assert.Equal(t, 2, got.Index)
}

func TestClassifyParallelMatchesSequential(t *testing.T) {
	choices := make([]domain.Choice, 500)
	for i := range choices {
		choices[i] = domain.Choice{Text: fmt.Sprintf("item number %d", i%97), Label: i}
	}
	seq, err := NewClassifier(domain.LCSRatio, 0.1, 1, nil)
	require.NoError(t, err)
	par, err := NewClassifier(domain.LCSRatio, 0.1, 8, nil)
	require.NoError(t, err)

	for _, candidate := range []string{"item number 42", "number 7 item", "zzz"} {
		want, wantOK, err := seq.Classify(candidate, choices)
		require.NoError(t, err)
		for i := 0; i < 5; i++ {
			got, gotOK, err := par.Classify(candidate, choices)
			require.NoError(t, err)
			assert.Equal(t, wantOK, gotOK)
			assert.Equal(t, want, got)
		}
	}
}

func TestClassifyPrepare(t *testing.T) {
	prepare := func(s string) (string, error) {
		if strings.Contains(s, "\xff") {
			return "", &domain.EncodingError{Offset: strings.Index(s, "\xff"), Reason: "bad"}
		}
		return strings.ToLower(s), nil
	}
	c, err := NewClassifier(domain.EditRatio, 1, 1, prepare)
	require.NoError(t, err)

	got, ok, err := c.Classify("HELLO", []domain.Choice{{Text: "Hello", Label: 1}})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, got.Label)

	_, _, err = c.Classify("hello", []domain.Choice{{Text: "he\xffllo", Label: 1}})
	assert.True(t, errors.Is(err, domain.ErrEncoding))
}

func TestThresholdValidation(t *testing.T) {
	for _, th := range []float64{-0.1, 1.5, math.NaN()} {
		_, err := NewClassifier(domain.EditRatio, th, 1, nil)
		assert.ErrorIs(t, err, domain.ErrConfig, "threshold %v", th)
	}
	for _, th := range []float64{0, 0.5, 1} {
		assert.NoError(t, ValidateThreshold(th))
	}
}

func TestBest(t *testing.T) {
	idx, score := Best(nil)
	assert.Equal(t, -1, idx)
	assert.Equal(t, 0.0, score)

	idx, score = Best([]float64{0.2, 0.9, 0.9, 0.1})
	assert.Equal(t, 1, idx)
	assert.Equal(t, 0.9, score)
}

func TestEvaluate(t *testing.T) {
	statement := "a quick brown fox jumps over a lazy dog"
	scores := Scores(domain.PartialRatio, statement, "quick", "foxy")
	require.Len(t, scores, 2)
	assert.Equal(t, 1.0, scores[0])
	assert.Equal(t, 0.75, scores[1])

	tests := []struct {
		name  string
		logic Logic
		op    Operator
		th    float64
		want  bool
	}{
		{"any below", Any, LessOrEqual, 0.8, true},
		{"all above", All, GreaterOrEqual, 0.8, false},
		{"all above low bar", All, GreaterOrEqual, 0.7, true},
		{"any exact", Any, Equal, 1, true},
		{"all strictly below", All, Less, 1, false},
		{"any strictly above", Any, Greater, 1, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Evaluate(scores, tc.th, tc.logic, tc.op)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	vacuous, err := Evaluate(nil, 0.5, All, GreaterOrEqual)
	require.NoError(t, err)
	assert.True(t, vacuous)
	none, err := Evaluate(nil, 0.5, Any, GreaterOrEqual)
	require.NoError(t, err)
	assert.False(t, none)

	_, err = Evaluate(scores, 0.5, Any, Operator("!="))
	assert.ErrorIs(t, err, domain.ErrConfig)
	_, err = Evaluate(scores, 2, Any, GreaterOrEqual)
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestParseLogicAndOperator(t *testing.T) {
	l, err := ParseLogic("ALL")
	require.NoError(t, err)
	assert.Equal(t, All, l)
	_, err = ParseLogic("xor")
	assert.ErrorIs(t, err, domain.ErrConfig)

	op, err := ParseOperator("")
	require.NoError(t, err)
	assert.Equal(t, GreaterOrEqual, op)
	op, err = ParseOperator(" < ")
	require.NoError(t, err)
	assert.Equal(t, Less, op)
}
