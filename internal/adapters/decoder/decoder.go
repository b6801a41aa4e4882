// Package decoder turns raw bytes in a named charset into UTF-8 text.
package decoder

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/baditaflorin/go_nlpurify/internal/core/domain"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultCharset is used when no charset label is given.
const DefaultCharset = "utf-8"

var replacement = []byte(string(utf8.RuneError))

// Decode converts data from charset to a UTF-8 string. Labels follow the WHATWG
// encoding standard ("latin1", "windows-1252", "shift_jis", ...).
func Decode(data []byte, charset string) (string, error) {
	enc, name, err := lookup(charset)
	if err != nil {
		return "", err
	}

	// The x/text UTF-8 decoder substitutes U+FFFD silently, so reject ill-formed input here.
	if enc == unicode.UTF8 {
		if off := invalidOffset(data); off >= 0 {
			return "", &domain.EncodingError{Offset: off, Charset: name, Reason: "invalid byte sequence"}
		}
		return string(data), nil
	}
	return decodeWith(enc, name, data)
}

// decodeWith rejects output the decoder repaired with U+FFFD. A replacement
// character is genuine only when the text encodes back to the input bytes.
func decodeWith(enc encoding.Encoding, name string, data []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", &domain.EncodingError{Offset: -1, Charset: name, Reason: err.Error()}
	}
	i := bytes.Index(out, replacement)
	if i < 0 {
		return string(out), nil
	}
	if back, err := enc.NewEncoder().Bytes(out); err == nil && bytes.Equal(back, data) {
		return string(out), nil
	}
	return "", &domain.EncodingError{Offset: sourceOffset(enc, out[:i]), Charset: name, Reason: "invalid byte sequence"}
}

// sourceOffset maps the decoded text before the first bad sequence back to a
// byte offset in the input, or -1 when that text does not encode.
func sourceOffset(enc encoding.Encoding, prefix []byte) int {
	if len(prefix) == 0 {
		return 0
	}
	b, err := enc.NewEncoder().Bytes(prefix)
	if err != nil {
		return -1
	}
	return len(b)
}

// NewReader wraps r so that it yields UTF-8 decoded from charset. UTF-8 input is
// passed through unchanged and left for the normalizer to validate. Other
// charsets fail a read with an *EncodingError instead of substituting U+FFFD:
// UTF-16 is checked on its raw code units, every other charset on the decoded
// output, so a literal U+FFFD in a GB18030 stream is rejected too.
func NewReader(r io.Reader, charset string) (io.Reader, error) {
	enc, name, err := lookup(charset)
	if err != nil {
		return nil, err
	}
	switch name {
	case "utf-8":
		return r, nil
	case "utf-16le", "utf-16be":
		return enc.NewDecoder().Reader(&utf16Reader{r: r, bigEndian: name == "utf-16be", charset: name}), nil
	}
	return &strictReader{r: enc.NewDecoder().Reader(r), charset: name}, nil
}

// Supported reports whether charset names a known encoding. The empty label
// means DefaultCharset.
func Supported(charset string) bool {
	_, _, err := lookup(charset)
	return err == nil
}

func lookup(charset string) (encoding.Encoding, string, error) {
	label := strings.ToLower(strings.TrimSpace(charset))
	if label == "" {
		label = DefaultCharset
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, "", &domain.EncodingError{Offset: -1, Charset: label, Reason: "unknown charset"}
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		name = label
	}
	return enc, name, nil
}

func invalidOffset(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}

// strictReader fails on the first U+FFFD in decoded output. matched counts the
// bytes of a replacement sequence seen so far, across reads.
type strictReader struct {
	r       io.Reader
	charset string
	matched int
}

func (s *strictReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	for i := 0; i < n; i++ {
		switch {
		case p[i] == replacement[s.matched]:
			s.matched++
		case p[i] == replacement[0]:
			s.matched = 1
		default:
			s.matched = 0
		}
		if s.matched == len(replacement) {
			return i + 1, &domain.EncodingError{Offset: -1, Charset: s.charset, Reason: "invalid byte sequence"}
		}
	}
	return n, err
}

// utf16Reader checks surrogate pairing on raw UTF-16 code units.
type utf16Reader struct {
	r         io.Reader
	bigEndian bool
	charset   string

	off     int64 // input bytes consumed before the current read
	pending []byte
	high    bool  // a high surrogate waits for its low half
	highAt  int64 // offset of that high surrogate
}

func (u *utf16Reader) Read(p []byte) (int, error) {
	n, err := u.r.Read(p)
	for i := 0; i < n; i++ {
		u.pending = append(u.pending, p[i])
		if len(u.pending) < 2 {
			continue
		}
		unit := uint16(u.pending[1])<<8 | uint16(u.pending[0])
		if u.bigEndian {
			unit = uint16(u.pending[0])<<8 | uint16(u.pending[1])
		}
		u.pending = u.pending[:0]
		start := u.off + int64(i) - 1

		switch {
		case unit >= 0xD800 && unit < 0xDC00:
			if u.high {
				return i + 1, u.fail(u.highAt)
			}
			u.high, u.highAt = true, start
		case unit >= 0xDC00 && unit < 0xE000:
			if !u.high {
				return i + 1, u.fail(start)
			}
			u.high = false
		case u.high:
			return i + 1, u.fail(u.highAt)
		}
	}
	u.off += int64(n)
	if err == io.EOF {
		if u.high {
			return n, u.fail(u.highAt)
		}
		if len(u.pending) > 0 {
			return n, u.fail(u.off - 1)
		}
	}
	return n, err
}

func (u *utf16Reader) fail(offset int64) error {
	return &domain.EncodingError{Offset: int(offset), Charset: u.charset, Reason: "unpaired surrogate or truncated code unit"}
}
