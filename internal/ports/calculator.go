package ports

import "github.com/baditaflorin/go_nlpurify/internal/core/domain"

// SimilarityCalculator scores two already prepared strings.
type SimilarityCalculator interface {
	Score(a, b string) domain.MatchResult
	Metric() domain.Metric
}
