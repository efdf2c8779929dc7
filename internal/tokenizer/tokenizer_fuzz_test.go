//go:build go1.18
// +build go1.18

package tokenizer

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// FuzzTokenizer tests the tokenizer with random inputs to find edge cases and panics.
// Run with: go test -fuzz=FuzzTokenizer -fuzztime=30s ./internal/tokenizer
func FuzzTokenizer(f *testing.F) {
	seeds := []string{
		"",
		"(",
		")",
		"'",
		`\`,
		"''",
		"(a,b,c)",
		"('it''s')",
		`('a\'b')`,
		"(1),\n(2);",
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		// Tokens must cover the input exactly, in order
		tok := NewTokenizer()
		tok.Initialize(input)
		var sb strings.Builder
		for {
			token, ok := tok.NextToken()
			if !ok {
				break
			}
			sb.WriteString(token.ValueString())
		}
		if utf8.ValidString(input) && sb.String() != input {
			t.Fatalf("tokens do not reassemble input: got %q, want %q", sb.String(), input)
		}
	})
}
