package ports

import "github.com/baditaflorin/go_nlpurify/internal/core/domain"

// Normalizer defines the interface for text normalization.
type Normalizer interface {
	Normalize(text string) (string, error)
	Trace(text string) (domain.NormalizedText, error)
}
