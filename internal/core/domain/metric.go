package domain

import (
	"strconv"
	"strings"
)

// Metric selects a similarity algorithm.
type Metric int

const (
	// EditRatio is 1 - levenshtein / max(len(a), len(b), 1) over code points.
	EditRatio Metric = iota
	// TokenSort sorts whitespace tokens before applying EditRatio.
	TokenSort
	// LCSRatio is 2 * lcs / (len(a) + len(b)).
	LCSRatio
	// PartialRatio is the best EditRatio of the shorter string against
	// every equally long window of the longer one.
	PartialRatio
)

var metricNames = map[Metric]string{
	EditRatio:    "ratio",
	TokenSort:    "token_sort",
	LCSRatio:     "lcs",
	PartialRatio: "partial",
}

var metricAliases = map[string]Metric{
	"ratio":            EditRatio,
	"edit":             EditRatio,
	"edit_ratio":       EditRatio,
	"levenshtein":      EditRatio,
	"token_sort":       TokenSort,
	"token_sort_ratio": TokenSort,
	"lcs":              LCSRatio,
	"lcs_ratio":        LCSRatio,
	"partial":          PartialRatio,
	"partial_ratio":    PartialRatio,
}

func (m Metric) String() string {
	if name, ok := metricNames[m]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether m names a supported metric.
func (m Metric) Valid() bool {
	_, ok := metricNames[m]
	return ok
}

// MarshalText encodes the metric by name.
func (m Metric) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, NewConfigError("metric", "unknown metric")
	}
	return []byte(m.String()), nil
}

// UnmarshalText decodes a metric name or alias.
func (m *Metric) UnmarshalText(text []byte) error {
	parsed, err := ParseMetric(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMetric resolves a metric name such as "token_sort_ratio".
func ParseMetric(name string) (Metric, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "-", "_")
	if m, ok := metricAliases[key]; ok {
		return m, nil
	}
	return 0, NewConfigError("metric", "unknown metric "+strconv.Quote(name))
}

