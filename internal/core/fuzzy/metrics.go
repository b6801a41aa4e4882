// Package fuzzy implements the similarity metrics and the classification reduction.
//
// Every metric returns a score in [0, 1], is symmetric in its arguments and
// scores two empty strings as 1 and an empty string against a non-empty one as 0.
package fuzzy

import (
	"sort"
	"strings"

	"github.com/baditaflorin/go_nlpurify/internal/core/domain"
)

// EditRatio returns 1 - levenshtein(a, b) / max(len(a), len(b), 1).
func EditRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	return withRunes(a, b, editRatio)
}

func editRatio(a, b []rune) float64 {
	longest := max(len(a), len(b), 1)
	return clamp(1 - float64(Levenshtein(a, b))/float64(longest))
}

// TokenSortRatio sorts the whitespace tokens of each string before comparing them.
func TokenSortRatio(a, b string) float64 {
	return EditRatio(sortTokens(a), sortTokens(b))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// LCSRatio returns 2 * lcs(a, b) / (len(a) + len(b)).
func LCSRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	return withRunes(a, b, func(ra, rb []rune) float64 {
		total := len(ra) + len(rb)
		if total == 0 {
			return 1
		}
		return clamp(2 * float64(LCSLength(ra, rb)) / float64(total))
	})
}

// PartialRatio slides the shorter string over the longer one and keeps the
// best EditRatio among windows of equal length.
func PartialRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	return withRunes(a, b, func(short, long []rune) float64 {
		if len(short) > len(long) {
			short, long = long, short
		}
		if len(short) == 0 {
			return 0
		}
		if len(short) == len(long) {
			return editRatio(short, long)
		}
		best := 0.0
		for start := 0; start+len(short) <= len(long); start++ {
			if r := editRatio(short, long[start:start+len(short)]); r > best {
				best = r
				if best == 1 {
					break
				}
			}
		}
		return best
	})
}

// Compute dispatches to the metric's scoring function.
func Compute(metric domain.Metric, a, b string) float64 {
	switch metric {
	case domain.TokenSort:
		return TokenSortRatio(a, b)
	case domain.LCSRatio:
		return LCSRatio(a, b)
	case domain.PartialRatio:
		return PartialRatio(a, b)
	default:
		return EditRatio(a, b)
	}
}

func clamp(score float64) float64 {
	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}

// Calculator scores string pairs with a fixed metric.
type Calculator struct {
	metric domain.Metric
}

// NewCalculator creates a calculator for metric.
func NewCalculator(metric domain.Metric) (*Calculator, error) {
	if !metric.Valid() {
		return nil, domain.NewConfigError("metric", "unknown metric")
	}
	return &Calculator{metric: metric}, nil
}

// Score compares a and b.
func (c *Calculator) Score(a, b string) domain.MatchResult {
	return domain.MatchResult{Score: Compute(c.metric, a, b), Metric: c.metric}
}

// Metric returns the configured metric.
func (c *Calculator) Metric() domain.Metric {
	return c.metric
}
