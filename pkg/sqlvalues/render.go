package sqlvalues

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/shapestone/shape-core/pkg/ast"
)

// ErrUnquotable is returned by Render for a field that cannot be placed
// between single quotes and read back unchanged: it contains a lone quote or
// ends in an unpaired backslash.
var ErrUnquotable = errors.New("field cannot be quoted")

// Render converts rows back into the body of a VALUES clause.
//
// Fields are raw, as returned by Tokenize: escapes are written back as they
// are. NULL and plain numbers are written bare, everything else is quoted.
// Rows are separated by ",\n" and no terminating semicolon is written.
//
// For any rows produced by Tokenize from quoted or numeric literals,
// Tokenize(Render(rows)) returns the same rows.
//
// Example:
//
//	body, _ := sqlvalues.RenderRows([]sqlvalues.Row{{"1", "it''s"}, {"2", "NULL"}})
//	// body: (1,'it''s'),\n(2,NULL)
func RenderRows(rows []Row) ([]byte, error) {
	var buf bytes.Buffer
	for i, row := range rows {
		if i > 0 {
			buf.WriteString(",\n")
		}
		if err := writeRow(&buf, row); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

// Render converts a node returned by Parse into the body of a VALUES clause.
func Render(node ast.SchemaNode) ([]byte, error) {
	if node == nil {
		return []byte{}, nil
	}
	if _, ok := node.(*ast.ArrayDataNode); !ok {
		return nil, fmt.Errorf("unsupported node type for VALUES rendering: %T", node)
	}
	return RenderRows(Rows(node))
}

func writeRow(buf *bytes.Buffer, row Row) error {
	buf.WriteByte('(')
	for i, field := range row {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeField(buf, field); err != nil {
			return fmt.Errorf("field %d: %w", i, err)
		}
	}
	buf.WriteByte(')')
	return nil
}

func writeField(buf *bytes.Buffer, field string) error {
	if IsNull(field) || isNumber(field) {
		buf.WriteString(field)
		return nil
	}
	if !quotable(field) {
		return ErrUnquotable
	}
	buf.WriteByte('\'')
	buf.WriteString(field)
	buf.WriteByte('\'')
	return nil
}

// quotable reports whether '...' around field scans as a single string
// literal ending at the closing quote.
func quotable(field string) bool {
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case '\\':
			if i+1 == len(field) {
				return false
			}
			i++
		case '\'':
			if i+1 == len(field) || field[i+1] != '\'' {
				return false
			}
			i++
		}
	}
	return true
}

// isNumber matches an optionally signed decimal such as -12 or 3.5.
func isNumber(s string) bool {
	if s != "" && (s[0] == '-' || s[0] == '+') {
		s = s[1:]
	}
	digits, dot := 0, false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return digits > 0
}
