package stream

import (
	"github.com/baditaflorin/go_nlpurify/internal/adapters/normalizer"
	"github.com/baditaflorin/go_nlpurify/internal/core/pipeline"
	"github.com/baditaflorin/go_nlpurify/internal/ports"
)

// ProcessorFactory creates stream processors sharing one logger.
type ProcessorFactory struct {
	logger ports.Logger
}

// NewProcessorFactory creates a new processor factory
func NewProcessorFactory(logger ports.Logger) *ProcessorFactory {
	return &ProcessorFactory{
		logger: logger,
	}
}

// CreateProcessor builds a processor around one of the normalizer presets.
func (f *ProcessorFactory) CreateProcessor(normalizerType normalizer.NormalizerType, config ProcessingConfig) ports.StreamProcessor {
	norm := normalizer.NewNormalizerFactory(f.logger).CreateNormalizer(normalizerType)
	return NewProcessor(f.logger, norm, config)
}

// CreateProcessorWithConfig builds a processor around a custom pipeline configuration.
func (f *ProcessorFactory) CreateProcessorWithConfig(cfg pipeline.Config, config ProcessingConfig) (ports.StreamProcessor, error) {
	norm, err := normalizer.NewPipelineNormalizer(cfg, f.logger)
	if err != nil {
		return nil, err
	}
	return NewProcessor(f.logger, norm, config), nil
}
