package pipeline

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/valyala/bytebufferpool"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// collapseLineBreaks replaces every maximal run of '\r' and '\n' with one space.
// Both bytes are ASCII so the scan is safe on UTF-8 input.
func collapseLineBreaks(text string, buf *bytebufferpool.ByteBuffer) string {
	if strings.IndexAny(text, "\r\n") < 0 {
		return text
	}
	inBreak := false
	for i := 0; i < len(text); i++ {
		b := text[i]
		if b == '\r' || b == '\n' {
			if !inBreak {
				buf.B = append(buf.B, ' ')
				inBreak = true
			}
			continue
		}
		inBreak = false
		buf.B = append(buf.B, b)
	}
	return buf.String()
}

// collapseSeparator replaces every maximal run of sep with one space.
func collapseSeparator(text, sep string, buf *bytebufferpool.ByteBuffer) string {
	if !strings.Contains(text, sep) {
		return text
	}
	for {
		i := strings.Index(text, sep)
		if i < 0 {
			buf.B = append(buf.B, text...)
			return buf.String()
		}
		buf.B = append(buf.B, text[:i]...)
		buf.B = append(buf.B, ' ')
		text = text[i+len(sep):]
		for strings.HasPrefix(text, sep) {
			text = text[len(sep):]
		}
	}
}

// trimLines trims Unicode whitespace around every line and drops leading and
// trailing blank lines. Lines end at sep, or at CR, LF and CRLF when sep is
// empty; the terminators between lines are kept as they are.
func trimLines(text, sep string, buf *bytebufferpool.ByteBuffer) string {
	for len(text) > 0 {
		end, next := lineEnd(text, sep)
		buf.B = append(buf.B, strings.TrimFunc(text[:end], unicode.IsSpace)...)
		buf.B = append(buf.B, text[end:next]...)
		text = text[next:]
	}
	return strings.TrimFunc(buf.String(), unicode.IsSpace)
}

// lineEnd returns where the first line of text ends and where the next one starts.
func lineEnd(text, sep string) (end, next int) {
	if sep != "" {
		if i := strings.Index(text, sep); i >= 0 {
			return i, i + len(sep)
		}
		return len(text), len(text)
	}
	i := strings.IndexAny(text, "\r\n")
	switch {
	case i < 0:
		return len(text), len(text)
	case strings.HasPrefix(text[i:], "\r\n"):
		return i, i + 2
	default:
		return i, i + 1
	}
}

// collapseWhitespace replaces runs of Unicode whitespace with one space and trims both ends.
func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// removeStopWords drops whitespace-delimited tokens found in set.
func removeStopWords(text string, set map[string]struct{}) string {
	tokens := strings.Fields(text)
	kept := tokens[:0]
	for _, tok := range tokens {
		if _, stop := set[strings.ToLower(tok)]; stop {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

// Casers are stateful, so each call builds its own.

func lowercase(text string) string {
	return cases.Lower(language.Und).String(text)
}

func uppercase(text string) string {
	return cases.Upper(language.Und).String(text)
}

// sentenceCase lowers every letter, then title-cases the first letter of the
// text and the first letter following '.', '!' or '?' plus whitespace. A
// sentence that opens with a digit keeps the rest of that word lowercase.
func sentenceCase(text string, buf *bytebufferpool.ByteBuffer) string {
	lowered := lowercase(text)
	capNext := true
	terminal := false
	for _, r := range lowered {
		switch {
		case unicode.IsLetter(r):
			if capNext {
				r = unicode.ToTitle(r)
				capNext = false
			}
			terminal = false
		case r == '.' || r == '!' || r == '?':
			terminal = true
		case unicode.IsSpace(r):
			if terminal {
				capNext = true
				terminal = false
			}
		case unicode.IsDigit(r):
			capNext = false
			terminal = false
		default:
			terminal = false
		}
		buf.B = utf8.AppendRune(buf.B, r)
	}
	return buf.String()
}

// firstInvalid returns the byte offset of the first ill-formed UTF-8 sequence, or -1.
func firstInvalid(text string) int {
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}
