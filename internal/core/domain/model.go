package domain

// Stage identifies one pass of the normalization pipeline.
type Stage string

// Pipeline stages in the order they run.
const (
	StageUnicode    Stage = "unicode"
	StageStripChars Stage = "strip_chars"
	StageTrimLines  Stage = "trim_lines"
	StageLineBreaks Stage = "line_breaks"
	StageWhitespace Stage = "whitespace"
	StageStopWords  Stage = "stop_words"
	StageCase       Stage = "case"
)

// NormalizedText holds the outcome of a pipeline run.
type NormalizedText struct {
	Text string `json:"text"`
	// Stages lists, in order, the stages that changed the text.
	Stages []Stage `json:"stages"`
}

// Altered reports whether the given stage changed the text.
func (n NormalizedText) Altered(stage Stage) bool {
	for _, s := range n.Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// MatchResult holds the outcome of a single comparison.
type MatchResult struct {
	Score  float64 `json:"score"`
	Metric Metric  `json:"metric"`
}

// Choice is one labelled entry a candidate is classified against.
type Choice struct {
	Text  string `json:"text"`
	Label any    `json:"label"`
}

// Classification is the winning choice of a classify call.
type Classification struct {
	Label  any     `json:"label"`
	Score  float64 `json:"score"`
	Index  int     `json:"index"`
	Metric Metric  `json:"metric"`
}
