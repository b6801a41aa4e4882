// Package legacy keeps the older helper functions working on top of the normalize
// and fuzzy packages. New code should use those packages directly.
package legacy

import (
	"math"
	"strconv"
	"strings"

	"github.com/baditaflorin/go_nlpurify/internal/core/domain"
	"github.com/baditaflorin/go_nlpurify/internal/core/fuzzy"
	"github.com/baditaflorin/go_nlpurify/internal/core/pipeline"
)

// DefaultMethod is used by FuzzyMatch when method is empty.
const DefaultMethod = "partial_ratio"

var methods = map[string]domain.Metric{
	"ratio":            domain.EditRatio,
	"partial_ratio":    domain.PartialRatio,
	"token_sort_ratio": domain.TokenSort,
}

// FuzzyMatch returns the similarity of str and reference as a percentage in 0..100.
// method is one of "ratio", "partial_ratio" or "token_sort_ratio".
func FuzzyMatch(str, reference, method string) (int, error) {
	if method == "" {
		method = DefaultMethod
	}
	metric, ok := methods[method]
	if !ok {
		return 0, domain.NewConfigError("method", "unknown method "+strconv.Quote(method))
	}
	return int(math.Round(fuzzy.Compute(metric, reference, str) * 100)), nil
}

// TextProcessor keeps ASCII letters, digits, spaces, newlines and dots, lowercases
// the rest and joins the words with single spaces. isAlnum keeps only words made
// of letters and digits; otherwise isAlpha keeps only words made of letters.
func TextProcessor(str string, isAlnum, isAlpha bool) string {
	kept := strings.Map(func(r rune) rune {
		if isASCIILetter(r) || isASCIIDigit(r) || r == ' ' || r == '\n' || r == '.' {
			return r
		}
		return -1
	}, str)

	words := strings.Fields(strings.ToLower(kept))
	filtered := words[:0]
	for _, w := range words {
		switch {
		case isAlnum && !allRunes(w, func(r rune) bool { return isASCIILetter(r) || isASCIIDigit(r) }):
		case !isAlnum && isAlpha && !allRunes(w, isASCIILetter):
		default:
			filtered = append(filtered, w)
		}
	}
	return strings.Join(filtered, " ")
}

var processor = mustPipeline(pipeline.Config{
	StripLinebreaks: true,
	StripWhitespace: true,
	StopWords:       pipeline.StopWordConfig{Enabled: true, Language: "english"},
	Lowercase:       true,
})

// Processor lowercases str and drops english stop words. Invalid UTF-8 is
// replaced rather than reported, matching the old behaviour of never failing.
func Processor(str string) string {
	out, _ := processor.Normalize(str)
	return out
}

func mustPipeline(cfg pipeline.Config) *pipeline.Pipeline {
	cfg.ReplaceInvalid = true
	p, err := pipeline.New(cfg)
	if err != nil {
		panic(err)
	}
	return p
}

func isASCIILetter(r rune) bool { return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') }

func isASCIIDigit(r rune) bool { return '0' <= r && r <= '9' }

func allRunes(s string, pred func(rune) bool) bool {
	for _, r := range s {
		if !pred(r) {
			return false
		}
	}
	return true
}
