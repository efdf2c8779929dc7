// Package sqlvalues provides configurable options for VALUES parsing.
package sqlvalues

import (
	"fmt"
	"io"

	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/shapestone/shape-sqldump/internal/parser"
)

// ReaderOptions configures row validation for ParseWithOptions.
type ReaderOptions struct {
	// FieldsPerRecord is the expected number of fields per row.
	// If positive, each row must have exactly this many fields.
	// If 0, the first row determines the expected field count.
	// If negative, no field count validation is performed.
	// Default: -1
	FieldsPerRecord int

	// MaxFieldSize is the maximum allowed size for a single field in bytes.
	// 0 means no limit.
	MaxFieldSize int

	// OnBadRow specifies how to handle rows that fail validation.
	// Default: BadRowModeError
	OnBadRow BadRowMode

	// WarningCallback is invoked with the row position and message for each
	// dropped row when OnBadRow is BadRowModeWarn.
	WarningCallback func(position string, message string)
}

// DefaultReaderOptions returns the default configuration, which performs no
// validation.
func DefaultReaderOptions() ReaderOptions {
	return ReaderOptions{
		FieldsPerRecord: -1,
		MaxFieldSize:    0,
		OnBadRow:        BadRowModeError,
	}
}

// Validate checks if the options are valid.
func (o ReaderOptions) Validate() error {
	if o.MaxFieldSize < 0 {
		return &OptionsError{Field: "MaxFieldSize", Message: "must not be negative"}
	}
	switch o.OnBadRow {
	case BadRowModeError, BadRowModeWarn, BadRowModeSkip:
	default:
		return &OptionsError{Field: "OnBadRow", Message: "unknown mode " + o.OnBadRow.String()}
	}
	return nil
}

// ParseWithOptions parses a VALUES block into an AST, validating rows.
//
// Example:
//
//	opts := sqlvalues.DefaultReaderOptions()
//	opts.FieldsPerRecord = 23
//	opts.OnBadRow = sqlvalues.BadRowModeSkip
//	node, err := sqlvalues.ParseWithOptions(block, opts)
func ParseWithOptions(block string, opts ReaderOptions) (ast.SchemaNode, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	p := parser.NewParserWithOptions(block, parserOptions(opts))
	return p.Parse()
}

// ParseReaderWithOptions parses a VALUES block from an io.Reader, validating rows.
func ParseReaderWithOptions(reader io.Reader, opts ReaderOptions) (ast.SchemaNode, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("sqlvalues: read: %w", err)
	}
	p := parser.NewParserWithOptions(string(data), parserOptions(opts))
	return p.Parse()
}

func parserOptions(opts ReaderOptions) parser.Options {
	po := parser.Options{
		FieldsPerRecord: opts.FieldsPerRecord,
		MaxFieldSize:    opts.MaxFieldSize,
		OnBadRow:        parser.BadRowMode(opts.OnBadRow),
	}
	if cb := opts.WarningCallback; cb != nil {
		po.WarningCallback = func(pos ast.Position, message string) {
			cb(pos.String(), message)
		}
	}
	return po
}

// OptionsError represents an invalid option configuration.
type OptionsError struct {
	Field   string
	Message string
}

func (e *OptionsError) Error() string {
	return "sqlvalues: invalid " + e.Field + ": " + e.Message
}
