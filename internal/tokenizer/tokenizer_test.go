package tokenizer

import (
	"strings"
	"testing"

	"github.com/shapestone/shape-core/pkg/tokenizer"
)

// TestTokenTypes tests that all token constants are defined and non-empty.
func TestTokenTypes(t *testing.T) {
	tests := []struct {
		name      string
		tokenType string
	}{
		{"left paren token", TokenLParen},
		{"right paren token", TokenRParen},
		{"comma token", TokenComma},
		{"quote token", TokenQuote},
		{"escape token", TokenEscape},
		{"text token", TokenText},
		{"EOF token", TokenEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tokenType == "" {
				t.Errorf("%s is empty", tt.name)
			}
		})
	}
}

type tokenExpectation struct {
	kind  string
	value string
}

// TestNewTokenizer_BasicTokens tests tokenization of VALUES fragments.
func TestNewTokenizer_BasicTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []tokenExpectation
	}{
		{
			name:  "single tuple",
			input: "(1,a)",
			expected: []tokenExpectation{
				{TokenLParen, "("},
				{TokenText, "1"},
				{TokenComma, ","},
				{TokenText, "a"},
				{TokenRParen, ")"},
			},
		},
		{
			name:  "whitespace kept in text",
			input: "( 1 ,\n x )",
			expected: []tokenExpectation{
				{TokenLParen, "("},
				{TokenText, " 1 "},
				{TokenComma, ","},
				{TokenText, "\n x "},
				{TokenRParen, ")"},
			},
		},
		{
			name:  "quoted string",
			input: "'it'",
			expected: []tokenExpectation{
				{TokenQuote, "'"},
				{TokenText, "it"},
				{TokenQuote, "'"},
			},
		},
		{
			name:  "doubled quote is two tokens",
			input: "'a''b'",
			expected: []tokenExpectation{
				{TokenQuote, "'"},
				{TokenText, "a"},
				{TokenQuote, "'"},
				{TokenQuote, "'"},
				{TokenText, "b"},
				{TokenQuote, "'"},
			},
		},
		{
			name:  "escape claims next character",
			input: `a\'b`,
			expected: []tokenExpectation{
				{TokenText, "a"},
				{TokenEscape, `\'`},
				{TokenText, "b"},
			},
		},
		{
			name:  "escaped backslash",
			input: `\\\n`,
			expected: []tokenExpectation{
				{TokenEscape, `\\`},
				{TokenEscape, `\n`},
			},
		},
		{
			name:  "escaped multibyte character",
			input: `\é`,
			expected: []tokenExpectation{
				{TokenEscape, `\é`},
			},
		},
		{
			name:  "trailing backslash",
			input: `a\`,
			expected: []tokenExpectation{
				{TokenText, "a"},
				{TokenEscape, `\`},
			},
		},
		{
			name:  "statement terminator is text",
			input: "(1);\n",
			expected: []tokenExpectation{
				{TokenLParen, "("},
				{TokenText, "1"},
				{TokenRParen, ")"},
				{TokenText, ";\n"},
			},
		},
		{
			name:  "utf-8 text",
			input: "héllo wörld",
			expected: []tokenExpectation{
				{TokenText, "héllo wörld"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := NewTokenizer()
			tok.Initialize(tt.input)

			for i, exp := range tt.expected {
				token, ok := tok.NextToken()
				if !ok {
					t.Fatalf("token %d: expected token, got none (expected %s: %q)", i, exp.kind, exp.value)
				}
				if token.Kind() != exp.kind {
					t.Errorf("token %d: expected kind %s, got %s (value: %q)", i, exp.kind, token.Kind(), token.ValueString())
				}
				if token.ValueString() != exp.value {
					t.Errorf("token %d: expected value %q, got %q (kind: %s)", i, exp.value, token.ValueString(), token.Kind())
				}
			}

			// Verify no extra tokens
			token, ok := tok.NextToken()
			if ok {
				t.Errorf("expected no more tokens, got %s: %q", token.Kind(), token.ValueString())
			}
		})
	}
}

// TestTokenizer_EmptyInput tests that empty input yields no tokens.
func TestTokenizer_EmptyInput(t *testing.T) {
	tok := NewTokenizer()
	tok.Initialize("")
	if token, ok := tok.NextToken(); ok {
		t.Errorf("expected no tokens, got %s: %q", token.Kind(), token.ValueString())
	}
}

// TestTokenizer_LargeBlock tests tokenizing a block that crosses buffer boundaries.
func TestTokenizer_LargeBlock(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 100; i++ {
		if i > 0 {
			sb.WriteString(",\n")
		}
		sb.WriteString(`(1,'a')`)
	}

	reader := strings.NewReader(sb.String())
	stream := tokenizer.NewStreamFromReader(reader)

	tok := NewTokenizerWithStream(stream)

	tokenCount := 0
	for {
		_, ok := tok.NextToken()
		if !ok {
			if !stream.IsEos() {
				t.Fatalf("Tokenization failed after %d tokens, but not at EOS", tokenCount)
			}
			break
		}
		tokenCount++
	}

	// Each tuple is ( 1 , ' a ' ) = 7 tokens, plus ",\n" between tuples
	// which is a Comma followed by a Text token.
	expectedTokens := 100*7 + 99*2
	if tokenCount != expectedTokens {
		t.Errorf("Expected %d tokens, got %d", expectedTokens, tokenCount)
	}
}
