// Package pipeline implements the fixed-order text normalization pipeline.
//
// Stages run in this order, each one toggled by Config:
//
//	unicode form -> strip chars -> trim lines -> line breaks -> whitespace -> stop words -> case
//
// A compiled Pipeline is immutable and safe for concurrent use.
package pipeline

import (
	"strings"
	"unicode"

	"github.com/baditaflorin/go_nlpurify/internal/core/domain"
	"github.com/baditaflorin/go_nlpurify/internal/pool"
	"github.com/valyala/bytebufferpool"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Pipeline is a validated, compiled normalization configuration.
type Pipeline struct {
	config    Config
	form      norm.Form
	hasForm   bool
	stripper  transform.Transformer
	stopWords map[string]struct{}
	buffers   *pool.ByteBufferPool
}

// New validates cfg and compiles it into a Pipeline.
func New(cfg Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{
		config:    cfg.clone(),
		stopWords: buildStopWordSet(cfg.StopWords),
		buffers:   pool.NewByteBufferPool(),
	}
	p.form, p.hasForm = cfg.UnicodeForm.normForm()
	if cfg.StripChars != "" {
		set := make(map[rune]struct{})
		for _, r := range cfg.StripChars {
			set[r] = struct{}{}
		}
		p.stripper = runes.Remove(runes.Predicate(func(r rune) bool {
			_, ok := set[r]
			return ok
		}))
	}
	return p, nil
}

// Config returns a copy of the configuration the pipeline was built from.
func (p *Pipeline) Config() Config {
	return p.config.clone()
}

// Normalize runs the pipeline and returns only the text.
func (p *Pipeline) Normalize(text string) (string, error) {
	out, err := p.Run(text)
	if err != nil {
		return "", err
	}
	return out.Text, nil
}

// Run applies every enabled stage to text and records which ones changed it.
func (p *Pipeline) Run(text string) (domain.NormalizedText, error) {
	if text == "" {
		return domain.NormalizedText{}, nil
	}
	text, err := p.validUTF8(text)
	if err != nil {
		return domain.NormalizedText{}, err
	}

	var stages []domain.Stage
	apply := func(stage domain.Stage, next string) {
		if next != text {
			stages = append(stages, stage)
			text = next
		}
	}

	if p.hasForm {
		apply(domain.StageUnicode, p.form.String(text))
	}
	if p.stripper != nil {
		stripped, _, _ := transform.String(p.stripper, text)
		if p.hasForm && len(stripped) != len(text) {
			// Removing a base character can leave a mark that composes differently.
			stripped = p.form.String(stripped)
		}
		apply(domain.StageStripChars, stripped)
	}
	sep := p.config.LineSeparator
	if p.config.TrimLines {
		apply(domain.StageTrimLines, p.withBuffer(text, func(s string, buf *bytebufferpool.ByteBuffer) string {
			return trimLines(s, sep, buf)
		}))
	}
	if p.config.StripLinebreaks {
		if sep != "" {
			apply(domain.StageLineBreaks, p.withBuffer(text, func(s string, buf *bytebufferpool.ByteBuffer) string {
				return collapseSeparator(s, sep, buf)
			}))
		} else {
			apply(domain.StageLineBreaks, p.withBuffer(text, collapseLineBreaks))
		}
	}
	switch {
	case p.config.StripWhitespace:
		apply(domain.StageWhitespace, collapseWhitespace(text))
	case p.config.TrimLeft && p.config.TrimRight:
		apply(domain.StageWhitespace, strings.TrimFunc(text, unicode.IsSpace))
	case p.config.TrimLeft:
		apply(domain.StageWhitespace, strings.TrimLeftFunc(text, unicode.IsSpace))
	case p.config.TrimRight:
		apply(domain.StageWhitespace, strings.TrimRightFunc(text, unicode.IsSpace))
	}
	if p.stopWords != nil {
		apply(domain.StageStopWords, removeStopWords(text, p.stopWords))
	}
	var cased string
	switch {
	case p.config.Lowercase:
		cased = lowercase(text)
	case p.config.Uppercase:
		cased = uppercase(text)
	case p.config.SentenceCase:
		cased = p.withBuffer(text, sentenceCase)
	default:
		cased = text
	}
	if p.hasForm && cased != text {
		// Case mappings may decompose, e.g. upper-casing U+0390 under NFC.
		cased = p.form.String(cased)
	}
	apply(domain.StageCase, cased)

	return domain.NormalizedText{Text: text, Stages: stages}, nil
}

func (p *Pipeline) validUTF8(text string) (string, error) {
	offset := firstInvalid(text)
	if offset < 0 {
		return text, nil
	}
	if !p.config.ReplaceInvalid {
		return "", &domain.EncodingError{Offset: offset, Reason: "ill-formed UTF-8 sequence"}
	}
	repaired, _, err := transform.String(runes.ReplaceIllFormed(), text)
	if err != nil {
		return "", &domain.EncodingError{Offset: offset, Reason: err.Error()}
	}
	return repaired, nil
}

func (p *Pipeline) withBuffer(text string, fn func(string, *bytebufferpool.ByteBuffer) string) string {
	buf := p.buffers.Get()
	defer p.buffers.Put(buf)
	return fn(text, buf)
}
