package httpapi

import (
	"encoding/base64"

	"github.com/baditaflorin/go_nlpurify/internal/adapters/decoder"
	"github.com/baditaflorin/go_nlpurify/internal/core/domain"
	"github.com/baditaflorin/go_nlpurify/pkg/fuzzy"
	"github.com/baditaflorin/go_nlpurify/pkg/normalize"
	"github.com/valyala/fasthttp"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NormalizeRequest normalizes Text, or the base64 Data decoded from Charset.
// A nil Config uses the server's [normalize] section.
//
// JSON strings are always valid UTF-8: the decoder turns invalid bytes in Text
// into U+FFFD before the normalizer sees them. Send raw bytes that must be
// checked for encoding errors in Data instead, with Charset "utf-8" or empty.
type NormalizeRequest struct {
	Text    string            `json:"text"`
	Data    string            `json:"data,omitempty"`
	Charset string            `json:"charset,omitempty"`
	Config  *normalize.Config `json:"config,omitempty"`
}

// NormalizeResponse carries the normalized text and the stages that changed it.
type NormalizeResponse struct {
	Text   string         `json:"text"`
	Stages []domain.Stage `json:"stages"`
}

// ScoreRequest compares A and B. Empty Metric and nil Normalize use the server defaults.
type ScoreRequest struct {
	A         string `json:"a"`
	B         string `json:"b"`
	Metric    string `json:"metric,omitempty"`
	Normalize *bool  `json:"normalize,omitempty"`
}

// ClassifyRequest classifies Candidate against Choices.
type ClassifyRequest struct {
	Candidate string         `json:"candidate"`
	Choices   []fuzzy.Choice `json:"choices"`
	Metric    string         `json:"metric,omitempty"`
	Threshold *float64       `json:"threshold,omitempty"`
	Normalize *bool          `json:"normalize,omitempty"`
}

// ClassifyResponse reports the winning choice, if any.
type ClassifyResponse struct {
	Matched bool    `json:"matched"`
	Label   any     `json:"label,omitempty"`
	Score   float64 `json:"score"`
	Index   int     `json:"index"`
	Metric  string  `json:"metric"`
}

// EvaluateRequest compares Statement with each reference and combines the results.
type EvaluateRequest struct {
	Statement  string   `json:"statement"`
	References []string `json:"references"`
	Metric     string   `json:"metric,omitempty"`
	Threshold  *float64 `json:"threshold,omitempty"`
	Logic      string   `json:"logic,omitempty"`
	Operator   string   `json:"operator,omitempty"`
	Normalize  *bool    `json:"normalize,omitempty"`
}

// EvaluateResponse carries the verdict and the individual scores.
type EvaluateResponse struct {
	Result bool      `json:"result"`
	Scores []float64 `json:"scores"`
}

func (s *Server) handleNormalize(ctx *fasthttp.RequestCtx) {
	var req NormalizeRequest
	if !decode(ctx, &req) {
		return
	}

	n := s.normalizer
	if req.Config != nil {
		var err error
		if n, err = normalize.New(normalize.WithConfig(*req.Config)); err != nil {
			s.writeError(ctx, err)
			return
		}
	}

	text := req.Text
	if req.Data != "" {
		raw, err := base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			ctx.SetStatusCode(fasthttp.StatusBadRequest)
			writeJSONError(ctx, "Invalid request: data must be base64")
			return
		}
		if text, err = decoder.Decode(raw, req.Charset); err != nil {
			s.writeError(ctx, err)
			return
		}
	}

	out, err := n.Trace(text)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	stages := out.Stages
	if stages == nil {
		stages = []domain.Stage{}
	}
	writeJSONResponse(ctx, fasthttp.StatusOK, NormalizeResponse{Text: out.Text, Stages: stages})
}

// matcherFor returns the default matcher or a per-request one when overrides are present.
func (s *Server) matcherFor(metric string, threshold *float64, normalizeFirst *bool) (*fuzzy.Matcher, error) {
	if metric == "" && threshold == nil && normalizeFirst == nil {
		return s.matcher, nil
	}
	m := s.config.Matcher.Metric
	if metric != "" {
		parsed, err := fuzzy.ParseMetric(metric)
		if err != nil {
			return nil, err
		}
		m = parsed
	}
	th := s.config.Matcher.Threshold
	if threshold != nil {
		th = *threshold
	}
	nf := s.config.Matcher.NormalizeFirst
	if normalizeFirst != nil {
		nf = *normalizeFirst
	}
	return s.newMatcher(m, th, nf)
}

func (s *Server) handleScore(ctx *fasthttp.RequestCtx) {
	var req ScoreRequest
	if !decode(ctx, &req) {
		return
	}
	m, err := s.matcherFor(req.Metric, nil, req.Normalize)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	res, err := m.Score(req.A, req.B)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	writeJSONResponse(ctx, fasthttp.StatusOK, res)
}

func (s *Server) handleClassify(ctx *fasthttp.RequestCtx) {
	var req ClassifyRequest
	if !decode(ctx, &req) {
		return
	}
	m, err := s.matcherFor(req.Metric, req.Threshold, req.Normalize)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	res, ok, err := m.Classify(req.Candidate, req.Choices)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	resp := ClassifyResponse{Matched: ok, Index: -1, Metric: m.Metric().String()}
	if ok {
		resp.Label, resp.Score, resp.Index = res.Label, res.Score, res.Index
	}
	writeJSONResponse(ctx, fasthttp.StatusOK, resp)
}

func (s *Server) handleEvaluate(ctx *fasthttp.RequestCtx) {
	var req EvaluateRequest
	if !decode(ctx, &req) {
		return
	}
	logic, err := fuzzy.ParseLogic(orDefault(req.Logic, "any"))
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	op, err := fuzzy.ParseOperator(req.Operator)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	m, err := s.matcherFor(req.Metric, req.Threshold, req.Normalize)
	if err != nil {
		s.writeError(ctx, err)
		return
	}

	choices := make([]fuzzy.Choice, len(req.References))
	for i, ref := range req.References {
		choices[i] = fuzzy.Choice{Text: ref}
	}
	scores, err := m.Scores(req.Statement, choices)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	result, err := m.Evaluate(req.Statement, req.References, logic, op)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	writeJSONResponse(ctx, fasthttp.StatusOK, EvaluateResponse{Result: result, Scores: scores})
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
