package parser

import (
	"unicode/utf8"

	"github.com/google/uuid"
	shapetokenizer "github.com/shapestone/shape-core/pkg/tokenizer"
)

// Bytes that are not part of valid UTF-8 travel through the tokenizer as
// runes in the low surrogate range U+DC80..U+DCFF. Decoding valid UTF-8 never
// yields a surrogate, so the mapping is reversible.
const rawByteBase = 0xDC00

// decodeRaw decodes s into runes, mapping each invalid byte b to
// rawByteBase+b.
func decodeRaw(s string) []rune {
	runes := make([]rune, 0, len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			r = rawByteBase + rune(s[i])
		}
		runes = append(runes, r)
		i += size
	}
	return runes
}

// isRawByte reports whether r carries an invalid input byte.
func isRawByte(r rune) bool {
	return r >= rawByteBase+0x80 && r <= rawByteBase+0xFF
}

// rawStream is a shapetokenizer.Stream that keeps every input byte.
// The stream returned by shapetokenizer.NewStream replaces invalid bytes
// with U+FFFD.
type rawStream struct {
	id     uuid.UUID
	data   []rune
	cursor int
	row    int
	column int
}

func newRawStream(input string) *rawStream {
	return &rawStream{
		id:     uuid.New(),
		data:   decodeRaw(input),
		row:    1,
		column: 1,
	}
}

func (s *rawStream) Clone() shapetokenizer.Stream {
	c := *s
	return &c
}

func (s *rawStream) Match(other shapetokenizer.Stream) {
	o, ok := other.(*rawStream)
	if !ok {
		panic("parser: Match on a foreign stream")
	}
	if o.id != s.id {
		panic("parser: Match on a different stream")
	}
	s.cursor, s.row, s.column = o.cursor, o.row, o.column
}

func (s *rawStream) PeekChar() (rune, bool) {
	if s.IsEos() {
		return 0, false
	}
	return s.data[s.cursor], true
}

func (s *rawStream) NextChar() (rune, bool) {
	if s.IsEos() {
		return 0, false
	}
	r := s.data[s.cursor]
	s.cursor++
	s.column++
	if r == '\n' {
		s.row++
		s.column = 1
	}
	return r, true
}

func (s *rawStream) MatchChars(match []rune) bool {
	cursor, row, column := s.cursor, s.row, s.column
	for _, mr := range match {
		r, ok := s.NextChar()
		if !ok || r != mr {
			s.cursor, s.row, s.column = cursor, row, column
			return false
		}
	}
	return true
}

func (s *rawStream) IsEos() bool { return s.cursor >= len(s.data) }

// GetOffset returns the offset in characters; each invalid byte counts as one.
func (s *rawStream) GetOffset() int { return s.cursor }

func (s *rawStream) GetRow() int { return s.row }

func (s *rawStream) GetColumn() int { return s.column }

func (s *rawStream) Reset() {
	s.cursor, s.row, s.column = 0, 1, 1
}

// tokenText returns the token's value with raw bytes restored.
func tokenText(t *shapetokenizer.Token) string {
	runes := t.Value()
	for i, r := range runes {
		if isRawByte(r) {
			return restoreRaw(runes, i)
		}
	}
	return string(runes)
}

func restoreRaw(runes []rune, from int) string {
	buf := make([]byte, 0, len(runes)+utf8.UTFMax)
	buf = append(buf, string(runes[:from])...)
	for _, r := range runes[from:] {
		if isRawByte(r) {
			buf = append(buf, byte(r-rawByteBase))
			continue
		}
		buf = utf8.AppendRune(buf, r)
	}
	return string(buf)
}
