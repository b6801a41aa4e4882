package fuzzy

import (
	"strconv"
	"strings"

	"github.com/baditaflorin/go_nlpurify/internal/core/domain"
)

// Logic combines per-reference comparisons into one verdict.
type Logic int

const (
	// Any holds when at least one comparison holds.
	Any Logic = iota
	// All holds when every comparison holds.
	All
)

// ParseLogic resolves "any" or "all".
func ParseLogic(name string) (Logic, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "any", "or":
		return Any, nil
	case "all", "and":
		return All, nil
	}
	return Any, domain.NewConfigError("logic", "unknown logic "+strconv.Quote(name))
}

func (l Logic) String() string {
	if l == All {
		return "all"
	}
	return "any"
}

// Operator compares a score with the threshold.
type Operator string

const (
	GreaterOrEqual Operator = ">="
	LessOrEqual    Operator = "<="
	Greater        Operator = ">"
	Less           Operator = "<"
	Equal          Operator = "=="
)

// ParseOperator resolves an operator; the empty string means GreaterOrEqual.
func ParseOperator(op string) (Operator, error) {
	switch o := Operator(strings.TrimSpace(op)); o {
	case "":
		return GreaterOrEqual, nil
	case GreaterOrEqual, LessOrEqual, Greater, Less, Equal:
		return o, nil
	}
	return "", domain.NewConfigError("operator", "unknown operator "+strconv.Quote(op))
}

func (o Operator) holds(score, threshold float64) bool {
	switch o {
	case LessOrEqual:
		return score <= threshold
	case Greater:
		return score > threshold
	case Less:
		return score < threshold
	case Equal:
		return score == threshold
	default:
		return score >= threshold
	}
}

// Scores compares statement with every reference using metric.
func Scores(metric domain.Metric, statement string, references ...string) []float64 {
	out := make([]float64, len(references))
	for i, ref := range references {
		out[i] = Compute(metric, statement, ref)
	}
	return out
}

// Evaluate applies op against threshold to each score and combines the results with logic.
// With no scores All holds and Any does not.
func Evaluate(scores []float64, threshold float64, logic Logic, op Operator) (bool, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return false, err
	}
	if logic != Any && logic != All {
		return false, domain.NewConfigError("logic", "unknown logic")
	}
	if _, err := ParseOperator(string(op)); err != nil {
		return false, err
	}
	for _, s := range scores {
		ok := op.holds(s, threshold)
		if logic == Any && ok {
			return true, nil
		}
		if logic == All && !ok {
			return false, nil
		}
	}
	return logic == All, nil
}
