// Package fastparser implements the byte-level state machine that splits the
// body of a SQL VALUES clause into row tuples.
//
// The scanner works directly on bytes without tokenization or AST
// construction. Every structural character ('(', ')', ',', '\'', '\\') is
// ASCII, so UTF-8 continuation bytes can never be mistaken for one and
// multi-byte text passes through untouched.
//
// Escape sequences are never resolved here. A backslash keeps the following
// byte verbatim and a doubled quote inside a string is copied as two quotes;
// unescaping is a separate step performed on the returned fields.
package fastparser

import "strings"

// State describes the scanner state at the end of the input.
// A well-formed block ends with Depth 0 and both flags clear.
type State struct {
	// Depth is the number of unmatched '(' outside strings. It can go
	// negative when a stray ')' appears between tuples.
	Depth int
	// InString reports whether the input ended inside a quoted literal.
	InString bool
	// EscapePending reports whether the input ended with a lone backslash.
	EscapePending bool
	// OpenAt is the byte offset of the '(' that opened the tuple still in
	// progress, or -1 when no tuple is open.
	OpenAt int
	// Fields is the number of fields already sealed in the open tuple.
	Fields int
}

// Complete reports whether the scan ended between tuples.
func (s State) Complete() bool {
	return s.Depth == 0 && !s.InString && !s.EscapePending
}

// Tokenize splits a VALUES block into rows of field strings.
//
// Rows are returned in input order. A tuple left open at the end of the input
// is dropped. Tokenize never fails; malformed input yields fewer rows.
func Tokenize(data []byte) [][]string {
	rows, _ := Scan(data)
	return rows
}

// Scan is Tokenize plus the final scanner state, for callers that need to
// tell an empty block from a truncated one.
func Scan(data []byte) ([][]string, State) {
	s := &scanner{
		data:   data,
		length: len(data),
		openAt: -1,
		field:  getBuffer(),
	}
	defer func() { putBuffer(s.field) }()

	rows := s.scan()
	return rows, State{
		Depth:         s.depth,
		InString:      s.inString,
		EscapePending: s.escapeNext,
		OpenAt:        s.openAt,
		Fields:        len(s.row),
	}
}

// scanner holds the transient state of one block scan.
type scanner struct {
	data   []byte
	pos    int
	length int

	depth      int
	inString   bool
	escapeNext bool
	openAt     int

	field []byte
	row   []string
	rows  [][]string
	width int // field count of the first row, used as a capacity hint
}

func (s *scanner) scan() [][]string {
	s.rows = make([][]string, 0, estimateRows(s.length))

	for s.pos < s.length {
		c := s.data[s.pos]

		if s.escapeNext {
			s.field = append(s.field, c)
			s.escapeNext = false
			s.pos++
			continue
		}

		if c == '\\' {
			s.field = append(s.field, c)
			s.escapeNext = true
			s.pos++
			continue
		}

		if s.inString {
			if c == '\'' {
				if s.pos+1 < s.length && s.data[s.pos+1] == '\'' {
					s.field = append(s.field, '\'', '\'')
					s.pos += 2
					continue
				}
				s.inString = false
			}
			s.field = append(s.field, c)
			s.pos++
			continue
		}

		switch {
		case c == '\'':
			s.inString = true
			s.field = append(s.field, c)
		case c == '(':
			if s.depth == 0 {
				s.openRow()
			} else {
				s.field = append(s.field, c)
			}
			s.depth++
		case c == ')':
			s.depth--
			if s.depth == 0 {
				s.sealField()
				s.sealRow()
			} else {
				s.field = append(s.field, c)
			}
		case c == ',' && s.depth == 1:
			s.sealField()
		case s.depth >= 1:
			s.field = append(s.field, c)
		}
		s.pos++
	}

	return s.rows
}

// openRow starts a new tuple, discarding anything gathered between tuples.
func (s *scanner) openRow() {
	width := s.width
	if width == 0 {
		width = 8
	}
	s.row = make([]string, 0, width)
	s.field = s.field[:0]
	s.openAt = s.pos
}

func (s *scanner) sealField() {
	s.row = append(s.row, Finalize(string(s.field)))
	s.field = s.field[:0]
}

func (s *scanner) sealRow() {
	if s.width == 0 {
		s.width = len(s.row)
	}
	s.rows = append(s.rows, s.row)
	s.row = nil
	s.field = s.field[:0]
	s.openAt = -1
}

// Finalize applies the field boundary rule: trim surrounding whitespace, then
// drop one enclosing pair of single quotes if present. Inner content, escapes
// included, is left alone.
func Finalize(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'' {
		return v[1 : len(v)-1]
	}
	return v
}

// estimateRows guesses the row count of a block from its size.
// WordPress dumps average a few hundred bytes per tuple.
func estimateRows(n int) int {
	est := n / 256
	if est < 4 {
		return 4
	}
	if est > 4096 {
		return 4096
	}
	return est
}
