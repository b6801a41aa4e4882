package pipeline

import (
	"errors"
	"sync"
	"testing"

	"github.com/baditaflorin/go_nlpurify/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPipeline(t testing.TB, cfg Config) *Pipeline {
	t.Helper()
	p, err := New(cfg)
	require.NoError(t, err)
	return p
}

func TestNormalizeStages(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		input    string
		expected string
	}{
		{
			name:     "whitespace and line breaks collapse",
			cfg:      Config{StripWhitespace: true, StripLinebreaks: true},
			input:    "a   b\n\nc",
			expected: "a b c",
		},
		{
			name:     "line breaks only keep surrounding spaces",
			cfg:      Config{StripLinebreaks: true},
			input:    "a \r\n b\n\nc\rd",
			expected: "a   b c d",
		},
		{
			name:     "whitespace trims and collapses tabs and newlines",
			cfg:      Config{StripWhitespace: true},
			input:    "  \tMy   unCleaned\ntext!!  ",
			expected: "My unCleaned text!!",
		},
		{
			name:     "strip chars removes every listed rune",
			cfg:      Config{StripChars: "!?,"},
			input:    "Hello, world!?",
			expected: "Hello world",
		},
		{
			name:     "only stripped characters yields empty",
			cfg:      Config{StripChars: "!"},
			input:    "!!!!",
			expected: "",
		},
		{
			name:     "nfc composes combining marks",
			cfg:      Config{UnicodeForm: FormNFC},
			input:    "cafe\u0301",
			expected: "caf\u00e9",
		},
		{
			name:     "nfd decomposes",
			cfg:      Config{UnicodeForm: FormNFD},
			input:    "caf\u00e9",
			expected: "cafe\u0301",
		},
		{
			name:     "nfkc folds compatibility ligatures",
			cfg:      Config{UnicodeForm: FormNFKC},
			input:    "ﬁne",
			expected: "fine",
		},
		{
			name:     "strip runs after canonicalization",
			cfg:      Config{UnicodeForm: FormNFC, StripChars: "\u00e9"},
			input:    "cafe\u0301",
			expected: "caf",
		},
		{
			name:     "lowercase",
			cfg:      Config{Lowercase: true},
			input:    "HeLLo WÖRLD",
			expected: "hello wörld",
		},
		{
			name:     "uppercase expands sharp s",
			cfg:      Config{Uppercase: true},
			input:    "straße",
			expected: "STRASSE",
		},
		{
			name:     "sentence case capitalizes after terminal punctuation",
			cfg:      Config{SentenceCase: true},
			input:    "hello WORLD. this is GO! ok? yes",
			expected: "Hello world. This is go! Ok? Yes",
		},
		{
			name:     "sentence case without terminal punctuation",
			cfg:      Config{SentenceCase: true},
			input:    "hello big World",
			expected: "Hello big world",
		},
		{
			name:     "sentence case ignores decimal points",
			cfg:      Config{SentenceCase: true},
			input:    "version 3.5 is OUT",
			expected: "Version 3.5 is out",
		},
		{
			name:     "sentence case after a leading digit",
			cfg:      Config{SentenceCase: true},
			input:    "1st place",
			expected: "1st place",
		},
		{
			name:     "sentence case with a digit opening a later sentence",
			cfg:      Config{SentenceCase: true},
			input:    "hello. 2nd try",
			expected: "Hello. 2nd try",
		},
		{
			name:     "uppercase stays composed under nfc",
			cfg:      Config{UnicodeForm: FormNFC, Uppercase: true},
			input:    "\u0390",
			expected: "\u03aa\u0301",
		},
		{
			name:     "trim lines keeps inner breaks",
			cfg:      Config{TrimLines: true},
			input:    "\n  first  \r\n\tsecond\t\n\n  ",
			expected: "first\r\nsecond",
		},
		{
			name:     "trim lines then strip line breaks",
			cfg:      Config{TrimLines: true, StripLinebreaks: true},
			input:    " a \n\n  b  \n",
			expected: "a b",
		},
		{
			name:     "line separator leaves other breaks alone",
			cfg:      Config{StripLinebreaks: true, LineSeparator: "\r\n"},
			input:    "a\r\n\r\nb\nc",
			expected: "a b\nc",
		},
		{
			name:     "trim lines splits on the line separator",
			cfg:      Config{TrimLines: true, StripLinebreaks: true, LineSeparator: "\n"},
			input:    "a \r\n b",
			expected: "a b",
		},
		{
			name:     "trim left only",
			cfg:      Config{TrimLeft: true},
			input:    " \t a  b \n",
			expected: "a  b \n",
		},
		{
			name:     "trim right only",
			cfg:      Config{TrimRight: true},
			input:    " a  b \n",
			expected: " a  b",
		},
		{
			name:     "stop words are dropped case-insensitively",
			cfg:      Config{Lowercase: true, StopWords: StopWordConfig{Enabled: true}},
			input:    "The quick brown fox is over the lazy dog",
			expected: "quick brown fox lazy dog",
		},
		{
			name:     "extra stop words",
			cfg:      Config{StopWords: StopWordConfig{Enabled: true, Extra: []string{"Fox"}}},
			input:    "a quick fox",
			expected: "quick",
		},
		{
			name: "full pipeline",
			cfg: Config{
				UnicodeForm:     FormNFKC,
				StripChars:      "#",
				StripLinebreaks: true,
				StripWhitespace: true,
				SentenceCase:    true,
			},
			input:    "  #THE ﬁrst line.\r\n\r\nsecond   LINE  ",
			expected: "The first line. Second line",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := mustPipeline(t, tc.cfg)
			got, err := p.Normalize(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestEmptyInput(t *testing.T) {
	configs := []Config{
		{},
		{StripWhitespace: true, StripLinebreaks: true, Lowercase: true},
		{UnicodeForm: FormNFKD, StripChars: "abc", SentenceCase: true},
		{StopWords: StopWordConfig{Enabled: true}, Uppercase: true},
	}
	for _, cfg := range configs {
		out, err := mustPipeline(t, cfg).Run("")
		require.NoError(t, err)
		assert.Equal(t, "", out.Text)
		assert.Empty(t, out.Stages)
	}
}

func TestCaseModesAreExclusive(t *testing.T) {
	for _, cfg := range []Config{
		{Lowercase: true, SentenceCase: true},
		{Lowercase: true, Uppercase: true},
		{Uppercase: true, SentenceCase: true},
	} {
		_, err := New(cfg)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrConfig))

		var cfgErr *domain.ConfigError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "case", cfgErr.Field)
	}
}

func TestValidateRejectsBadOptions(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{"unknown form", Config{UnicodeForm: UnicodeForm(9)}, "unicode_form"},
		{"invalid strip chars", Config{StripChars: "\xff"}, "strip_chars"},
		{"unsupported line separator", Config{LineSeparator: "\n\n"}, "line_separator"},
		{"unknown stop word language", Config{StopWords: StopWordConfig{Enabled: true, Language: "klingon"}}, "stop_words.language"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			var cfgErr *domain.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tc.field, cfgErr.Field)
		})
	}
}

func TestMalformedInput(t *testing.T) {
	p := mustPipeline(t, Config{Lowercase: true})
	_, err := p.Normalize("ab\xffcd")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEncoding))

	var encErr *domain.EncodingError
	require.True(t, errors.As(err, &encErr))
	assert.Equal(t, 2, encErr.Offset)

	lenient := mustPipeline(t, Config{Lowercase: true, ReplaceInvalid: true})
	got, err := lenient.Normalize("AB\xffCD")
	require.NoError(t, err)
	assert.Equal(t, "ab\uFFFDcd", got)
}

func TestProvenance(t *testing.T) {
	p := mustPipeline(t, Config{
		UnicodeForm:     FormNFC,
		StripLinebreaks: true,
		StripWhitespace: true,
		Lowercase:       true,
	})

	out, err := p.Run("Cafe\u0301\n  bar")
	require.NoError(t, err)
	assert.Equal(t, "caf\u00e9 bar", out.Text)
	assert.Equal(t, []domain.Stage{
		domain.StageUnicode,
		domain.StageLineBreaks,
		domain.StageWhitespace,
		domain.StageCase,
	}, out.Stages)
	assert.False(t, out.Altered(domain.StageStripChars))

	untouched, err := p.Run("already clean")
	require.NoError(t, err)
	assert.Empty(t, untouched.Stages)
}

func TestIdempotence(t *testing.T) {
	configs := map[string]Config{
		"whitespace": {StripWhitespace: true, StripLinebreaks: true},
		"lower nfkc": {UnicodeForm: FormNFKC, Lowercase: true, StripWhitespace: true},
		"sentence":   {SentenceCase: true, StripWhitespace: true},
		"stop words": {SentenceCase: true, StopWords: StopWordConfig{Enabled: true}},
		"strip nfd":  {UnicodeForm: FormNFD, StripChars: "x!"},
		"upper nfc":  {UnicodeForm: FormNFC, Uppercase: true},
		"upper nfkc": {UnicodeForm: FormNFKC, Uppercase: true, StripWhitespace: true},
		"trim lines": {TrimLines: true, StripLinebreaks: true},
		"crlf lines": {TrimLines: true, StripLinebreaks: true, LineSeparator: "\r\n"},
		"trim left":  {TrimLeft: true, SentenceCase: true},
	}
	inputs := []string{
		"\u0390 \u03b0 \u01f0",
		" line one \r\n\r\n  line two \n\r ",
		"The cat. The dog!  is   here\n\nnow",
		"  ﬁne   Ünïcödé\r\n text ",
		"ex́x!! é",
		"no. punctuation? at all! ok",
	}
	for name, cfg := range configs {
		p := mustPipeline(t, cfg)
		for _, in := range inputs {
			once, err := p.Normalize(in)
			require.NoError(t, err)
			twice, err := p.Normalize(once)
			require.NoError(t, err)
			assert.Equal(t, once, twice, "config %s input %q", name, in)
		}
	}
}

func TestConfigIsCopied(t *testing.T) {
	extra := []string{"alpha"}
	p := mustPipeline(t, Config{StopWords: StopWordConfig{Enabled: true, Extra: extra}})
	extra[0] = "beta"

	got, err := p.Normalize("alpha beta")
	require.NoError(t, err)
	assert.Equal(t, "beta", got)

	cfg := p.Config()
	cfg.StopWords.Extra[0] = "gamma"
	assert.Equal(t, []string{"alpha"}, p.Config().StopWords.Extra)
}

func TestConcurrentUse(t *testing.T) {
	p := mustPipeline(t, Config{UnicodeForm: FormNFC, StripWhitespace: true, SentenceCase: true})
	want, err := p.Normalize("hello   THERE. general kenobi")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				got, err := p.Normalize("hello   THERE. general kenobi")
				if err != nil || got != want {
					t.Errorf("got %q, %v; want %q", got, err, want)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestParseUnicodeForm(t *testing.T) {
	for name, want := range map[string]UnicodeForm{"": FormNone, "nfc": FormNFC, " NFKD ": FormNFKD, "none": FormNone} {
		got, err := ParseUnicodeForm(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseUnicodeForm("nfx")
	assert.True(t, errors.Is(err, domain.ErrConfig))
}

func FuzzIdempotent(f *testing.F) {
	for _, seed := range []string{"", "   ", "Hello   World.\n\nbye", "ﬁne caf\u00e9", "a.b. c! d?", "\xff\xfe", "\u0390", "1st place"} {
		f.Add(seed)
	}
	var pipelines []*Pipeline
	for _, cfg := range []Config{
		{
			UnicodeForm:     FormNFC,
			StripLinebreaks: true,
			StripWhitespace: true,
			SentenceCase:    true,
			ReplaceInvalid:  true,
		},
		{UnicodeForm: FormNFC, Uppercase: true, ReplaceInvalid: true},
	} {
		p, err := New(cfg)
		if err != nil {
			f.Fatal(err)
		}
		pipelines = append(pipelines, p)
	}
	f.Fuzz(func(t *testing.T, s string) {
		for i, p := range pipelines {
			once, err := p.Normalize(s)
			if err != nil {
				t.Fatalf("pipeline %d: unexpected error: %v", i, err)
			}
			twice, err := p.Normalize(once)
			if err != nil {
				t.Fatalf("pipeline %d: unexpected error on second pass: %v", i, err)
			}
			if once != twice {
				t.Fatalf("pipeline %d: not idempotent: %q -> %q -> %q", i, s, once, twice)
			}
		}
	})
}
