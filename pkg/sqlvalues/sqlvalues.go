// Package sqlvalues splits the body of a SQL INSERT ... VALUES statement into
// rows of field strings.
//
// The input is the text between the VALUES keyword and the terminating
// semicolon of one statement, as found in mysqldump and phpMyAdmin exports:
//
//	(1,'Hello, world','it''s'),
//	(2,'<p>A \'quoted\' body</p>',NULL);
//
// Each parenthesized tuple at nesting depth 1 becomes a Row. Fields are
// trimmed and lose one enclosing pair of single quotes; escape sequences are
// left exactly as they appear in the dump. Call Unescape on a field to
// resolve them.
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use by multiple goroutines.
// Each call scans with its own state and shares nothing with other calls.
//
//	// Safe: Concurrent tokenizing of independent blocks
//	go func() { sqlvalues.Tokenize(block1) }()
//	go func() { sqlvalues.Tokenize(block2) }()
//
// # Parsing APIs
//
//   - Tokenize(string) - fast path, returns []Row, never fails
//   - Parse(string) / ParseReader(io.Reader) - Shape AST with row positions
//   - Check(string) - reports truncation that Tokenize silently drops
//   - Scan(string) - Tokenize and Check in one pass
//   - Render(ast.SchemaNode) / RenderRows([]Row) - rows back to VALUES text
//
// # Example usage with Tokenize:
//
//	rows := sqlvalues.Tokenize("(1,'a'),(2,'it''s');")
//	for _, row := range rows {
//	    title := sqlvalues.Unescape(row[1])
//	    // ...
//	}
package sqlvalues

import (
	"fmt"
	"io"

	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/shapestone/shape-sqldump/internal/fastparser"
	"github.com/shapestone/shape-sqldump/internal/parser"
)

// Row is one tuple of a VALUES clause, in column order.
type Row []string

// Tokenize splits a VALUES block into rows.
//
// Rows come back in input order. A tuple still open at the end of the block
// is dropped, and no error is ever reported: use Check to detect truncation.
// Rows are not filtered by arity; see FilterArity.
//
// Example:
//
//	rows := sqlvalues.Tokenize("('a,b', 2)")
//	// rows[0] is Row{"a,b", "2"}
func Tokenize(block string) []Row {
	return TokenizeBytes([]byte(block))
}

// TokenizeBytes is Tokenize for a byte slice. The slice is not retained.
func TokenizeBytes(block []byte) []Row {
	return toRows(fastparser.Tokenize(block))
}

// Parse parses a VALUES block into an AST.
//
// Returns an ast.ArrayDataNode representing the rows:
//   - *ast.ArrayDataNode for the block (array of rows)
//   - Each row is an *ast.ArrayDataNode of fields
//   - Each field is an *ast.LiteralNode containing a string value
//
// With default options Parse returns the same rows as Tokenize and a nil
// error, for any bytes including invalid UTF-8.
func Parse(block string) (ast.SchemaNode, error) {
	p := parser.NewParser(block)
	return p.Parse()
}

// ParseReader parses a VALUES block from an io.Reader into an AST.
//
// The whole block is read before parsing. Invalid UTF-8 is kept byte for
// byte, so the rows are the same as Tokenize on the same bytes.
//
// Example:
//
//	file, err := os.Open("posts-values.sql")
//	if err != nil {
//	    // handle error
//	}
//	defer file.Close()
//
//	node, err := sqlvalues.ParseReader(file)
func ParseReader(reader io.Reader) (ast.SchemaNode, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("sqlvalues: read: %w", err)
	}
	p := parser.NewParser(string(data))
	return p.Parse()
}

// Format returns the format identifier for this parser.
func Format() string {
	return "SQL-VALUES"
}

// Finalize applies the field boundary rule to v: surrounding whitespace is
// trimmed and one enclosing pair of single quotes is removed. Fields returned
// by Tokenize are already finalized.
func Finalize(v string) string {
	return fastparser.Finalize(v)
}

// FilterArity returns the rows that have at least minFields fields, in order.
// The input slice is not modified.
func FilterArity(rows []Row, minFields int) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if len(row) >= minFields {
			out = append(out, row)
		}
	}
	return out
}

// Rows converts a node returned by Parse into rows.
// Nodes that are not arrays of string literals are skipped.
func Rows(node ast.SchemaNode) []Row {
	arr, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return []Row{}
	}

	rows := make([]Row, 0, arr.Len())
	for _, elem := range arr.Elements() {
		rowNode, ok := elem.(*ast.ArrayDataNode)
		if !ok {
			continue
		}
		row := make(Row, 0, rowNode.Len())
		for _, f := range rowNode.Elements() {
			lit, ok := f.(*ast.LiteralNode)
			if !ok {
				continue
			}
			if s, ok := lit.Value().(string); ok {
				row = append(row, s)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func toRows(raw [][]string) []Row {
	rows := make([]Row, len(raw))
	for i, r := range raw {
		rows[i] = Row(r)
	}
	return rows
}
