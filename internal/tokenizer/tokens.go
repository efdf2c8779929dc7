// Package tokenizer provides SQL VALUES tokenization using Shape's tokenizer framework.
package tokenizer

// Token type constants for the body of a VALUES clause.
//
// Note: The tokenizer emits character-level tokens only. Whether a comma or
// parenthesis is structural depends on quoting and nesting depth, which the
// parser tracks.
const (
	// Structural tokens
	TokenLParen = "LParen" // (
	TokenRParen = "RParen" // )
	TokenComma  = "Comma"  // ,
	TokenQuote  = "Quote"  // ' (string delimiter, or half of a doubled quote)

	// Escape is a backslash plus the character it protects, kept verbatim.
	TokenEscape = "Escape"

	// Text is a run of any other characters, whitespace and newlines included.
	TokenText = "Text"

	// Special token
	TokenEOF = "EOF" // End of file
)
