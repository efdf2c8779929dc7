// Package sqlvalues provides error types and validation modes for VALUES parsing.
package sqlvalues

import (
	"errors"
	"fmt"

	"github.com/shapestone/shape-sqldump/internal/fastparser"
	"github.com/shapestone/shape-sqldump/internal/parser"
)

// BadRowMode specifies how ParseWithOptions handles rows that fail validation.
type BadRowMode int

const (
	// BadRowModeError returns an error on the first invalid row (default).
	BadRowModeError BadRowMode = iota
	// BadRowModeWarn reports the row through WarningCallback and drops it.
	BadRowModeWarn
	// BadRowModeSkip silently drops invalid rows.
	BadRowModeSkip
)

// String returns the string representation of BadRowMode.
func (m BadRowMode) String() string {
	switch m {
	case BadRowModeError:
		return "error"
	case BadRowModeWarn:
		return "warn"
	case BadRowModeSkip:
		return "skip"
	default:
		return fmt.Sprintf("BadRowMode(%d)", m)
	}
}

// Diagnostics reported by Check. Tokenize never returns these.
var (
	// ErrUnterminatedTuple indicates the block ended inside a tuple.
	ErrUnterminatedTuple = errors.New("unterminated tuple")

	// ErrUnterminatedString indicates the block ended inside a quoted literal.
	ErrUnterminatedString = errors.New("unterminated string literal")

	// ErrDanglingEscape indicates the block ended with a lone backslash.
	ErrDanglingEscape = errors.New("dangling escape at end of block")

	// ErrUnbalancedParen indicates a ')' without a matching '(' outside strings.
	ErrUnbalancedParen = errors.New("unbalanced closing parenthesis")
)

// Validation errors from ParseWithOptions.
var (
	// ErrFieldCount indicates a row has the wrong number of fields.
	ErrFieldCount = parser.ErrFieldCount

	// ErrFieldTooLarge indicates a field exceeded MaxFieldSize.
	ErrFieldTooLarge = parser.ErrFieldTooLarge
)

// ScanError describes where a block stopped being well formed.
type ScanError struct {
	// Offset is the byte offset of the '(' that opened the unfinished tuple,
	// or -1 when no tuple was open.
	Offset int
	// Depth is the parenthesis depth at the end of the block.
	Depth int
	// Rows is the number of complete rows before the problem.
	Rows int
	// Err is the underlying error.
	Err error
}

// Error returns a formatted error message with position information.
func (e *ScanError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("scan error after %d rows (depth %d): %v", e.Rows, e.Depth, e.Err)
	}
	return fmt.Sprintf("scan error in tuple at offset %d after %d rows (depth %d): %v",
		e.Offset, e.Rows, e.Depth, e.Err)
}

// Unwrap returns the underlying error.
func (e *ScanError) Unwrap() error {
	return e.Err
}

// Check reports whether block ends cleanly between tuples.
//
// Tokenize drops a truncated trailing tuple without a trace, so a block cut
// short and a block that really is empty both produce zero rows. Check tells
// them apart. It returns nil for well-formed input, or a *ScanError wrapping
// one of the Err* diagnostics above.
//
//	if err := sqlvalues.Check(block); err != nil {
//	    log.Printf("block truncated: %v", err)
//	}
func Check(block string) error {
	_, err := Scan(block)
	return err
}

// Scan is Tokenize and Check in a single pass. The rows are returned even
// when err is non-nil; they are exactly what Tokenize would return.
func Scan(block string) ([]Row, error) {
	raw, state := fastparser.Scan([]byte(block))
	rows := toRows(raw)
	if state.Complete() {
		return rows, nil
	}

	var err error
	switch {
	case state.InString:
		err = ErrUnterminatedString
	case state.EscapePending:
		err = ErrDanglingEscape
	case state.Depth > 0:
		err = ErrUnterminatedTuple
	default:
		err = ErrUnbalancedParen
	}

	return rows, &ScanError{
		Offset: state.OpenAt,
		Depth:  state.Depth,
		Rows:   len(rows),
		Err:    err,
	}
}
