package fuzzy

import (
	"math"

	"github.com/baditaflorin/go_nlpurify/internal/core/domain"
	"golang.org/x/sync/errgroup"
)

// parallelCutoff is the smallest number of choices scored concurrently.
const parallelCutoff = 64

// ValidateThreshold reports a *domain.ConfigError unless 0 <= th <= 1.
func ValidateThreshold(th float64) error {
	if math.IsNaN(th) || th < 0 || th > 1 {
		return domain.NewConfigError("threshold", "must be between 0 and 1")
	}
	return nil
}

// Classifier picks the best scoring choice for a candidate.
type Classifier struct {
	metric      domain.Metric
	threshold   float64
	parallelism int
	// prepare runs on the candidate and on every choice before scoring.
	prepare func(string) (string, error)
}

// NewClassifier validates the metric and threshold eagerly so Classify never
// fails for configuration reasons. A nil prepare leaves strings untouched.
func NewClassifier(metric domain.Metric, threshold float64, parallelism int, prepare func(string) (string, error)) (*Classifier, error) {
	if !metric.Valid() {
		return nil, domain.NewConfigError("metric", "unknown metric")
	}
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	if parallelism < 1 {
		parallelism = 1
	}
	if prepare == nil {
		prepare = func(s string) (string, error) { return s, nil }
	}
	return &Classifier{
		metric:      metric,
		threshold:   threshold,
		parallelism: parallelism,
		prepare:     prepare,
	}, nil
}

// Classify scores candidate against every choice and returns the highest
// scoring one if it reaches the threshold. Ties go to the earliest choice.
func (c *Classifier) Classify(candidate string, choices []domain.Choice) (domain.Classification, bool, error) {
	if len(choices) == 0 {
		return domain.Classification{}, false, nil
	}
	prepared, err := c.prepare(candidate)
	if err != nil {
		return domain.Classification{}, false, err
	}

	scores, err := c.scoreAll(prepared, choices)
	if err != nil {
		return domain.Classification{}, false, err
	}

	best, score := Best(scores)
	if score < c.threshold {
		return domain.Classification{}, false, nil
	}
	return domain.Classification{
		Label:  choices[best].Label,
		Score:  score,
		Index:  best,
		Metric: c.metric,
	}, true, nil
}

// Scores returns the score of candidate against each choice, in input order.
func (c *Classifier) Scores(candidate string, choices []domain.Choice) ([]float64, error) {
	prepared, err := c.prepare(candidate)
	if err != nil {
		return nil, err
	}
	return c.scoreAll(prepared, choices)
}

func (c *Classifier) scoreAll(candidate string, choices []domain.Choice) ([]float64, error) {
	scores := make([]float64, len(choices))
	scoreRange := func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			text, err := c.prepare(choices[i].Text)
			if err != nil {
				return err
			}
			scores[i] = Compute(c.metric, candidate, text)
		}
		return nil
	}

	if c.parallelism == 1 || len(choices) < parallelCutoff {
		if err := scoreRange(0, len(choices)); err != nil {
			return nil, err
		}
		return scores, nil
	}

	var g errgroup.Group
	chunk := (len(choices) + c.parallelism - 1) / c.parallelism
	for lo := 0; lo < len(choices); lo += chunk {
		hi := min(lo+chunk, len(choices))
		g.Go(func() error {
			return scoreRange(lo, hi)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

// Best returns the index and value of the highest score, preferring the lowest index on ties.
// It returns -1 for an empty slice.
func Best(scores []float64) (int, float64) {
	best, value := -1, math.Inf(-1)
	for i, s := range scores {
		if s > value {
			best, value = i, s
		}
	}
	if best < 0 {
		return -1, 0
	}
	return best, value
}

// Threshold returns the configured minimum score.
func (c *Classifier) Threshold() float64 {
	return c.threshold
}

// Metric returns the configured metric.
func (c *Classifier) Metric() domain.Metric {
	return c.metric
}
