package pipeline

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/baditaflorin/go_nlpurify/internal/core/domain"
	"golang.org/x/text/unicode/norm"
)

// UnicodeForm selects the Unicode canonicalization applied by the first stage.
type UnicodeForm int

const (
	FormNone UnicodeForm = iota
	FormNFC
	FormNFD
	FormNFKC
	FormNFKD
)

var formNames = [...]string{"NONE", "NFC", "NFD", "NFKC", "NFKD"}

func (f UnicodeForm) String() string {
	if f < FormNone || int(f) >= len(formNames) {
		return "UnicodeForm(" + strconv.Itoa(int(f)) + ")"
	}
	return formNames[f]
}

func (f UnicodeForm) valid() bool {
	return f >= FormNone && int(f) < len(formNames)
}

// normForm maps the form onto x/text; ok is false for FormNone.
func (f UnicodeForm) normForm() (form norm.Form, ok bool) {
	switch f {
	case FormNFC:
		return norm.NFC, true
	case FormNFD:
		return norm.NFD, true
	case FormNFKC:
		return norm.NFKC, true
	case FormNFKD:
		return norm.NFKD, true
	default:
		return 0, false
	}
}

// MarshalText encodes the form by name.
func (f UnicodeForm) MarshalText() ([]byte, error) {
	if !f.valid() {
		return nil, domain.NewConfigError("unicode_form", "unknown form "+f.String())
	}
	return []byte(f.String()), nil
}

// UnmarshalText decodes a form name such as "nfkc".
func (f *UnicodeForm) UnmarshalText(text []byte) error {
	parsed, err := ParseUnicodeForm(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseUnicodeForm resolves a form name. The empty string means FormNone.
func ParseUnicodeForm(name string) (UnicodeForm, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if key == "" {
		return FormNone, nil
	}
	for i, n := range formNames {
		if n == key {
			return UnicodeForm(i), nil
		}
	}
	return FormNone, domain.NewConfigError("unicode_form", "unknown form "+strconv.Quote(name))
}

// StopWordConfig controls stop-word removal.
type StopWordConfig struct {
	Enabled bool `toml:"enabled" json:"enabled"`
	// Language picks a built-in list; empty means english.
	Language string   `toml:"language" json:"language,omitempty"`
	Extra    []string `toml:"extra" json:"extra,omitempty"`
}

// Config holds every normalization option. The zero value disables all stages.
type Config struct {
	UnicodeForm UnicodeForm `toml:"unicode_form" json:"unicode_form"`
	StripChars  string      `toml:"strip_chars" json:"strip_chars,omitempty"`
	// TrimLines trims whitespace from both ends of every line and drops blank
	// lines at either end of the text. Line breaks between lines are kept.
	TrimLines       bool `toml:"trim_lines" json:"trim_lines,omitempty"`
	StripLinebreaks bool `toml:"strip_linebreaks" json:"strip_linebreaks"`
	// LineSeparator limits TrimLines and StripLinebreaks to "\n", "\r\n" or "\r".
	// Empty treats any mix of CR and LF as a line break.
	LineSeparator   string `toml:"line_separator" json:"line_separator,omitempty"`
	StripWhitespace bool   `toml:"strip_whitespace" json:"strip_whitespace"`
	// TrimLeft and TrimRight trim one end only; StripWhitespace already trims both.
	TrimLeft     bool           `toml:"trim_left" json:"trim_left,omitempty"`
	TrimRight    bool           `toml:"trim_right" json:"trim_right,omitempty"`
	StopWords    StopWordConfig `toml:"stop_words" json:"stop_words"`
	Lowercase    bool           `toml:"lowercase" json:"lowercase"`
	Uppercase    bool           `toml:"uppercase" json:"uppercase"`
	SentenceCase bool           `toml:"sentence_case" json:"sentence_case"`
	// ReplaceInvalid substitutes U+FFFD for ill-formed UTF-8 instead of failing.
	ReplaceInvalid bool `toml:"replace_invalid" json:"replace_invalid"`
}

// Validate checks the configuration and returns a *domain.ConfigError on failure.
func (c Config) Validate() error {
	if !c.UnicodeForm.valid() {
		return domain.NewConfigError("unicode_form", "unknown form "+c.UnicodeForm.String())
	}
	modes := 0
	for _, on := range []bool{c.Lowercase, c.Uppercase, c.SentenceCase} {
		if on {
			modes++
		}
	}
	if modes > 1 {
		return domain.NewConfigError("case", "lowercase, uppercase and sentence_case are mutually exclusive")
	}
	if !utf8.ValidString(c.StripChars) {
		return domain.NewConfigError("strip_chars", "must be valid UTF-8")
	}
	switch c.LineSeparator {
	case "", "\n", "\r\n", "\r":
	default:
		return domain.NewConfigError("line_separator", "must be empty, \"\\n\", \"\\r\\n\" or \"\\r\"")
	}
	if c.StopWords.Enabled {
		if _, ok := stopWordLists[c.StopWords.language()]; !ok {
			return domain.NewConfigError("stop_words.language", "no built-in list for "+strconv.Quote(c.StopWords.Language))
		}
	}
	return nil
}

func (s StopWordConfig) language() string {
	lang := strings.ToLower(strings.TrimSpace(s.Language))
	if lang == "" {
		return "english"
	}
	return lang
}

// clone returns a deep copy so callers cannot mutate a compiled pipeline.
func (c Config) clone() Config {
	out := c
	if c.StopWords.Extra != nil {
		out.StopWords.Extra = append([]string(nil), c.StopWords.Extra...)
	}
	return out
}
