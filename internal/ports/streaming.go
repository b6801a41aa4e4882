package ports

import (
	"context"
	"io"
	"time"
)

// StreamProcessor normalizes a text stream line by line.
type StreamProcessor interface {
	// ProcessStream normalizes every line of reader into writer and reports what it did.
	ProcessStream(ctx context.Context, reader io.Reader, writer io.Writer) (StreamResult, error)
}

// StreamResult holds the outcome of a stream normalization.
type StreamResult struct {
	Lines          int
	ChangedLines   int
	BytesProcessed int64
	BytesWritten   int64
	ProcessingTime time.Duration
}
