// Package warmup exercises normalizers and calculators before traffic arrives so
// pools and lazily built tables are populated.
package warmup

import (
	"context"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/baditaflorin/go_nlpurify/internal/ports"
	"golang.org/x/sync/errgroup"
)

// Config defines how hard the warmup runs.
type Config struct {
	// Concurrency is the number of goroutines per component kind.
	Concurrency int
	// Iterations per goroutine.
	Iterations int
	// SampleTextSize is the approximate sample length in bytes.
	SampleTextSize int
	// Duration bounds the whole warmup; zero means no limit.
	Duration time.Duration
	ForceGC  bool
}

// DefaultConfig returns the default warmup configuration
func DefaultConfig() Config {
	return Config{
		Concurrency:    runtime.NumCPU(),
		Iterations:     200,
		SampleTextSize: 512,
		Duration:       2 * time.Second,
		ForceGC:        true,
	}
}

// Report summarizes a warmup run.
type Report struct {
	Normalizations int64
	Scores         int64
	Streams        int64
	Duration       time.Duration
}

// Manager handles warmup of registered components.
type Manager struct {
	logger      ports.Logger
	calculators []ports.SimilarityCalculator
	streams     []ports.StreamProcessor
	normalizers []ports.Normalizer
	config      Config
}

// NewManager creates a new warmup manager
func NewManager(logger ports.Logger, config Config) *Manager {
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	if config.SampleTextSize <= 0 {
		config.SampleTextSize = DefaultConfig().SampleTextSize
	}
	return &Manager{logger: logger, config: config}
}

// RegisterCalculator adds a calculator to be warmed up
func (wm *Manager) RegisterCalculator(calc ports.SimilarityCalculator) {
	wm.calculators = append(wm.calculators, calc)
}

// RegisterStreamProcessor adds a stream processor to be warmed up
func (wm *Manager) RegisterStreamProcessor(proc ports.StreamProcessor) {
	wm.streams = append(wm.streams, proc)
}

// RegisterNormalizer adds a normalizer to be warmed up
func (wm *Manager) RegisterNormalizer(norm ports.Normalizer) {
	wm.normalizers = append(wm.normalizers, norm)
}

// WarmUp runs every registered component until the iterations are done or ctx ends.
// Errors from components are ignored; only the counts are reported.
func (wm *Manager) WarmUp(ctx context.Context) Report {
	start := time.Now()
	wm.logger.Info("Starting warmup",
		"components", len(wm.calculators)+len(wm.streams)+len(wm.normalizers),
		"concurrency", wm.config.Concurrency,
		"iterations", wm.config.Iterations,
	)

	if wm.config.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, wm.config.Duration)
		defer cancel()
	}

	sample := SampleText(wm.config.SampleTextSize)
	similar := mutate(sample, 0.1)
	different := mutate(sample, 0.5)

	var report Report
	report.Normalizations = wm.run(ctx, wm.config.Iterations, len(wm.normalizers), func(j int) {
		for _, n := range wm.normalizers {
			_, _ = n.Normalize(sample)
		}
	})
	report.Scores = wm.run(ctx, wm.config.Iterations, len(wm.calculators), func(j int) {
		other := [...]string{sample, similar, different}[j%3]
		for _, c := range wm.calculators {
			_ = c.Score(sample, other)
		}
	})
	report.Streams = wm.run(ctx, wm.config.Iterations/10, len(wm.streams), func(j int) {
		for _, p := range wm.streams {
			_, _ = p.ProcessStream(ctx, strings.NewReader(sample), io.Discard)
		}
	})

	if wm.config.ForceGC {
		runtime.GC()
	}
	report.Duration = time.Since(start)
	wm.logger.Info("Warmup completed",
		"normalizations", report.Normalizations,
		"scores", report.Scores,
		"duration", report.Duration,
	)
	return report
}

// run calls step iterations times on each of Concurrency goroutines and returns
// the number of completed steps multiplied by components.
func (wm *Manager) run(ctx context.Context, iterations, components int, step func(j int)) int64 {
	if components == 0 || iterations <= 0 {
		return 0
	}
	done := make([]int64, wm.config.Concurrency)
	var g errgroup.Group
	for i := range done {
		g.Go(func() error {
			for j := 0; j < iterations; j++ {
				if ctx.Err() != nil {
					return nil
				}
				step(j)
				done[i]++
			}
			return nil
		})
	}
	_ = g.Wait()

	var total int64
	for _, n := range done {
		total += n
	}
	return total * int64(components)
}

var sampleWords = []string{
	"The", "quick", "brown", "fox", "jumps", "over", "the", "lazy", "dog.",
	"Café", "naïve", "résumé", "STRASSE", "straße", "and", "of", "\tlorem", "ipsum\r\n",
	"dolor", "sit", "amet!", "ＦＵＬＬ", "width", "日本語", "text?",
}

// SampleText returns mixed-script text of roughly size bytes that touches every pipeline stage.
func SampleText(size int) string {
	var sb strings.Builder
	for i := 0; sb.Len() < size; i++ {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(sampleWords[i%len(sampleWords)])
	}
	return sb.String()
}

func mutate(text string, ratio float64) string {
	words := strings.Fields(text)
	n := int(float64(len(words)) * ratio)
	replacements := []string{"replaced", "modified", "changed", "altered", "updated"}
	for i := 0; i < n && i < len(words); i++ {
		words[i*len(words)/max(n, 1)] = replacements[i%len(replacements)]
	}
	return strings.Join(words, " ")
}
