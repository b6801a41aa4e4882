package stream

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/baditaflorin/go_nlpurify/internal/ports"
	"golang.org/x/sync/errgroup"
)

// Constants for line processing
const (
	// DefaultBatchSize defines how many lines are normalized per batch.
	DefaultBatchSize = 256

	// DefaultMaxLineSize is the longest line accepted, in bytes.
	DefaultMaxLineSize = 1024 * 1024

	// Common newline characters
	CR = '\r'
	LF = '\n'
)

// ProcessingConfig defines configuration for line processing
type ProcessingConfig struct {
	BatchSize   int
	MaxLineSize int
	// Workers normalizes the lines of a batch concurrently when greater than one.
	Workers int
	// SkipEmpty drops lines that normalize to the empty string.
	SkipEmpty bool
}

// Processor normalizes a stream line by line, preserving line order.
type Processor struct {
	logger     ports.Logger
	normalizer ports.Normalizer
	config     ProcessingConfig
}

// NewProcessor creates a new line processor
func NewProcessor(logger ports.Logger, normalizer ports.Normalizer, config ProcessingConfig) *Processor {
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBatchSize
	}
	if config.MaxLineSize <= 0 {
		config.MaxLineSize = DefaultMaxLineSize
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &Processor{
		logger:     logger,
		normalizer: normalizer,
		config:     config,
	}
}

// ProcessStream reads reader line by line, normalizes every line and writes it to writer
// terminated by '\n'. CR, LF and CRLF all end a line.
func (p *Processor) ProcessStream(ctx context.Context, reader io.Reader, writer io.Writer) (ports.StreamResult, error) {
	startTime := time.Now()
	counter := &countingReader{r: reader}
	out := &countingWriter{w: bufio.NewWriter(writer)}

	scanner := bufio.NewScanner(counter)
	scanner.Buffer(make([]byte, 0, min(64*1024, p.config.MaxLineSize)), p.config.MaxLineSize)
	scanner.Split(scanLines)

	var result ports.StreamResult
	batch := make([]string, 0, p.config.BatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			p.logger.Warn("Processing cancelled by context", "error", err)
			return err
		}
		normalized, err := p.normalizeBatch(ctx, batch, result.Lines)
		if err != nil {
			return err
		}
		for i, line := range normalized {
			if line != batch[i] {
				result.ChangedLines++
			}
			if line == "" && p.config.SkipEmpty {
				continue
			}
			if _, err := out.WriteString(line); err != nil {
				return err
			}
			if err := out.WriteByte(LF); err != nil {
				return err
			}
		}
		result.Lines += len(batch)
		batch = batch[:0]
		return nil
	}

	for scanner.Scan() {
		batch = append(batch, scanner.Text())
		if len(batch) == p.config.BatchSize {
			if err := flush(); err != nil {
				return p.finish(result, counter, out, startTime), err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		p.logger.Warn("Error reading from input", "error", err)
		return p.finish(result, counter, out, startTime), fmt.Errorf("read stream: %w", err)
	}
	if err := flush(); err != nil {
		return p.finish(result, counter, out, startTime), err
	}
	if err := out.w.Flush(); err != nil {
		return p.finish(result, counter, out, startTime), fmt.Errorf("write stream: %w", err)
	}

	result = p.finish(result, counter, out, startTime)
	p.logger.Debug("Line processing completed",
		"lines", result.Lines,
		"changed_lines", result.ChangedLines,
		"bytes_processed", result.BytesProcessed,
		"duration", result.ProcessingTime,
	)
	return result, nil
}

func (p *Processor) normalizeBatch(ctx context.Context, batch []string, firstLine int) ([]string, error) {
	out := make([]string, len(batch))
	normalize := func(i int) error {
		line, err := p.normalizer.Normalize(batch[i])
		if err != nil {
			return fmt.Errorf("line %d: %w", firstLine+i+1, err)
		}
		out[i] = line
		return nil
	}

	if p.config.Workers == 1 {
		for i := range batch {
			if err := normalize(i); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.config.Workers)
	for i := range batch {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return normalize(i)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Processor) finish(result ports.StreamResult, in *countingReader, out *countingWriter, start time.Time) ports.StreamResult {
	result.BytesProcessed = in.n
	result.BytesWritten = out.n
	result.ProcessingTime = time.Since(start)
	return result
}

// scanLines splits on LF, CR and CRLF, dropping the terminator.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == LF {
			return i + 1, data[:i], nil
		}
		// A CR at the end of the buffer may be the first half of CRLF.
		if i+1 == len(data) && !atEOF {
			return 0, nil, nil
		}
		if i+1 < len(data) && data[i+1] == LF {
			return i + 2, data[:i], nil
		}
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

type countingWriter struct {
	w *bufio.Writer
	n int64
}

func (c *countingWriter) WriteString(s string) (int, error) {
	n, err := c.w.WriteString(s)
	c.n += int64(n)
	return n, err
}

func (c *countingWriter) WriteByte(b byte) error {
	if err := c.w.WriteByte(b); err != nil {
		return err
	}
	c.n++
	return nil
}
