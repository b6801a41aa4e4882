package nlpurify

import (
	"io"

	"github.com/baditaflorin/go_nlpurify/internal/adapters/logger"
	"github.com/baditaflorin/l"
)

// NewLogger creates an l.Logger writing to w, suitable for the WithLogger options
// of the normalize, fuzzy and streaming packages. A nil w means stderr.
func NewLogger(w io.Writer, jsonFormat bool) (l.Logger, error) {
	return l.NewStandardFactory().CreateLogger(logger.DefaultConfig(w, jsonFormat))
}
