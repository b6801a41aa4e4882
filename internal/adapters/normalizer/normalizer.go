package normalizer

import (
	"github.com/baditaflorin/go_nlpurify/internal/core/domain"
	"github.com/baditaflorin/go_nlpurify/internal/core/pipeline"
	"github.com/baditaflorin/go_nlpurify/internal/ports"
)

// PipelineNormalizer adapts a compiled pipeline to ports.Normalizer and logs each run.
type PipelineNormalizer struct {
	pipeline *pipeline.Pipeline
	logger   ports.Logger
}

// NewPipelineNormalizer validates cfg and builds a normalizer for it.
func NewPipelineNormalizer(cfg pipeline.Config, logger ports.Logger) (*PipelineNormalizer, error) {
	p, err := pipeline.New(cfg)
	if err != nil {
		return nil, err
	}
	return &PipelineNormalizer{pipeline: p, logger: logger}, nil
}

// Normalize returns the normalized text.
func (n *PipelineNormalizer) Normalize(text string) (string, error) {
	out, err := n.Trace(text)
	if err != nil {
		return "", err
	}
	return out.Text, nil
}

// Trace returns the normalized text together with the stages that changed it.
func (n *PipelineNormalizer) Trace(text string) (domain.NormalizedText, error) {
	out, err := n.pipeline.Run(text)
	if err != nil {
		n.logger.Warn("Normalization failed", "error", err, "input_bytes", len(text))
		return domain.NormalizedText{}, err
	}
	n.logger.Debug("Normalized text",
		"input_bytes", len(text),
		"output_bytes", len(out.Text),
		"stages", out.Stages,
	)
	return out, nil
}

// Config returns a copy of the underlying configuration.
func (n *PipelineNormalizer) Config() pipeline.Config {
	return n.pipeline.Config()
}

var _ ports.Normalizer = (*PipelineNormalizer)(nil)
