// Package parser builds Shape AST nodes from the body of a SQL VALUES clause.
//
// The parser is driven by the character-level tokens of internal/tokenizer and
// keeps the same state as the byte scanner in internal/fastparser: nesting
// depth, an in-string flag and the field and row being accumulated. Escapes
// are consumed whole by the tokenizer, so the escape-first priority falls out
// of token order; doubled quotes need one token of lookahead.
//
// Grammar (best effort, nothing is rejected):
//
//	Block  = { Noise | Tuple } ;
//	Tuple  = "(" Field { "," Field } ")" ;
//	Field  = { Text | Escape | String | Nested } ;
//	String = "'" { Text | Escape | "''" | "(" | ")" | "," } "'" ;
//	Nested = "(" { any } ")" ;
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shapestone/shape-core/pkg/ast"
	shapetokenizer "github.com/shapestone/shape-core/pkg/tokenizer"
	"github.com/shapestone/shape-sqldump/internal/fastparser"
	"github.com/shapestone/shape-sqldump/internal/tokenizer"
)

// BadRowMode specifies how to handle rows that fail validation.
type BadRowMode int

const (
	// BadRowModeError returns an error on the first invalid row (default).
	BadRowModeError BadRowMode = iota
	// BadRowModeWarn reports the row through WarningCallback and drops it.
	BadRowModeWarn
	// BadRowModeSkip silently drops invalid rows.
	BadRowModeSkip
)

// Validation errors. Tokenization itself never fails; these only occur when
// the corresponding Options are set.
var (
	// ErrFieldCount indicates a row has the wrong number of fields.
	ErrFieldCount = errors.New("wrong number of fields")

	// ErrFieldTooLarge indicates a field exceeded MaxFieldSize.
	ErrFieldTooLarge = errors.New("field exceeds maximum size")
)

// Options configures the parser behavior.
type Options struct {
	// FieldsPerRecord validates field count. 0=first row sets count, negative=no validation
	FieldsPerRecord int
	// MaxFieldSize is the maximum allowed size for a single field in bytes. 0 means no limit.
	MaxFieldSize int
	// OnBadRow specifies how to handle invalid rows. Default: BadRowModeError
	OnBadRow BadRowMode
	// WarningCallback is invoked for dropped rows when OnBadRow is BadRowModeWarn
	WarningCallback func(pos ast.Position, message string)
}

// DefaultOptions returns default parser options: no validation, so every
// closed tuple is returned exactly as the byte scanner would return it.
func DefaultOptions() Options {
	return Options{
		FieldsPerRecord: -1,
		MaxFieldSize:    0,
		OnBadRow:        BadRowModeError,
	}
}

// Parser turns VALUES tokens into an AST.
// It maintains a single token lookahead for doubled-quote detection.
type Parser struct {
	tokenizer      *shapetokenizer.Tokenizer
	current        *shapetokenizer.Token
	hasToken       bool
	opts           Options
	expectedFields int

	depth    int
	inString bool
	field    strings.Builder
	row      []ast.SchemaNode
	rowPos   ast.Position
	rows     []ast.SchemaNode
}

// NewParser creates a new parser for the given VALUES body.
// Every byte of input is kept, including bytes that are not valid UTF-8,
// so the rows match those of fastparser.Tokenize.
func NewParser(input string) *Parser {
	return NewParserWithOptions(input, DefaultOptions())
}

// NewParserWithOptions creates a new parser with custom options.
func NewParserWithOptions(input string, opts Options) *Parser {
	return newParserWithStreamAndOptions(newRawStream(input), opts)
}

// NewParserFromStream creates a new parser using a pre-configured stream.
// The rows are only as faithful as the stream: the shape-core streams
// replace or drop bytes that are not valid UTF-8.
func NewParserFromStream(stream shapetokenizer.Stream) *Parser {
	return NewParserFromStreamWithOptions(stream, DefaultOptions())
}

// NewParserFromStreamWithOptions creates a new parser from a stream with custom options.
func NewParserFromStreamWithOptions(stream shapetokenizer.Stream, opts Options) *Parser {
	return newParserWithStreamAndOptions(stream, opts)
}

func newParserWithStreamAndOptions(stream shapetokenizer.Stream, opts Options) *Parser {
	tok := tokenizer.NewTokenizerWithStream(stream)

	p := &Parser{
		tokenizer:      &tok,
		opts:           opts,
		expectedFields: opts.FieldsPerRecord,
		rowPos:         ast.ZeroPosition(),
	}
	p.advance() // Load first token
	return p
}

// Parse consumes the whole input and returns the rows.
//
// Returns *ast.ArrayDataNode - an array of rows, where each row is an
// ArrayDataNode of fields and each field is a LiteralNode holding a string.
// A tuple still open at the end of the input is dropped without error.
// An error is only returned for a row that fails validation under
// BadRowModeError.
func (p *Parser) Parse() (ast.SchemaNode, error) {
	p.rows = make([]ast.SchemaNode, 0, 16)

	for p.hasToken {
		if err := p.step(); err != nil {
			return nil, err
		}
	}

	return ast.NewArrayDataNode(p.rows, ast.ZeroPosition()), nil
}

// step consumes one token (two for a doubled quote).
func (p *Parser) step() error {
	token := p.peek()
	kind := token.Kind()
	value := tokenText(token)

	if kind == tokenizer.TokenEscape {
		p.field.WriteString(value)
		p.advance()
		return nil
	}

	if p.inString {
		p.advance()
		if kind == tokenizer.TokenQuote {
			if next := p.peek(); next != nil && next.Kind() == tokenizer.TokenQuote {
				p.field.WriteString("''")
				p.advance()
				return nil
			}
			p.inString = false
		}
		p.field.WriteString(value)
		return nil
	}

	pos := p.position()
	p.advance()

	switch kind {
	case tokenizer.TokenQuote:
		p.inString = true
		p.field.WriteString(value)
	case tokenizer.TokenLParen:
		if p.depth == 0 {
			p.row = make([]ast.SchemaNode, 0, 8)
			p.field.Reset()
			p.rowPos = pos
		} else {
			p.field.WriteString(value)
		}
		p.depth++
	case tokenizer.TokenRParen:
		p.depth--
		if p.depth == 0 {
			p.sealField()
			return p.sealRow()
		}
		p.field.WriteString(value)
	case tokenizer.TokenComma:
		if p.depth == 1 {
			p.sealField()
		} else if p.depth >= 1 {
			p.field.WriteString(value)
		}
	default:
		if p.depth >= 1 {
			p.field.WriteString(value)
		}
	}
	return nil
}

func (p *Parser) sealField() {
	p.row = append(p.row, ast.NewLiteralNode(fastparser.Finalize(p.field.String()), p.rowPos))
	p.field.Reset()
}

// sealRow validates the finished tuple and appends it to the output.
func (p *Parser) sealRow() error {
	row := ast.NewArrayDataNode(p.row, p.rowPos)
	p.row = nil
	p.field.Reset()

	if err := p.validate(row); err != nil {
		return p.handleBadRow(err)
	}

	p.rows = append(p.rows, row)
	return nil
}

// validate applies FieldsPerRecord and MaxFieldSize.
func (p *Parser) validate(row *ast.ArrayDataNode) error {
	fields := row.Elements()

	if p.opts.FieldsPerRecord >= 0 {
		if p.expectedFields == 0 {
			// First row sets expected count
			p.expectedFields = len(fields)
		} else if len(fields) != p.expectedFields {
			return fmt.Errorf("row at %s: %w (got %d, expected %d)",
				p.rowPos.String(), ErrFieldCount, len(fields), p.expectedFields)
		}
	}

	if p.opts.MaxFieldSize > 0 {
		for i, elem := range fields {
			lit, ok := elem.(*ast.LiteralNode)
			if !ok {
				continue
			}
			if s, ok := lit.Value().(string); ok && len(s) > p.opts.MaxFieldSize {
				return fmt.Errorf("row at %s, field %d: %w (%d > %d)",
					p.rowPos.String(), i, ErrFieldTooLarge, len(s), p.opts.MaxFieldSize)
			}
		}
	}

	return nil
}

// handleBadRow handles a validation error based on OnBadRow mode.
// Returns nil if parsing should continue, or the error if it should stop.
func (p *Parser) handleBadRow(err error) error {
	switch p.opts.OnBadRow {
	case BadRowModeSkip:
		return nil
	case BadRowModeWarn:
		if p.opts.WarningCallback != nil {
			p.opts.WarningCallback(p.rowPos, err.Error())
		}
		return nil
	default:
		return err
	}
}

// Helper methods

// peek returns current token without advancing.
func (p *Parser) peek() *shapetokenizer.Token {
	return p.current
}

// advance moves to next token.
func (p *Parser) advance() {
	token, ok := p.tokenizer.NextToken()
	if ok {
		p.current = token
		p.hasToken = true
	} else {
		p.hasToken = false
		p.current = nil
	}
}

// position returns current position for AST nodes.
func (p *Parser) position() ast.Position {
	if p.hasToken && p.current != nil {
		return ast.NewPosition(
			p.current.Offset(),
			p.current.Row(),
			p.current.Column(),
		)
	}
	return ast.ZeroPosition()
}
