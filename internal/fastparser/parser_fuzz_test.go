//go:build go1.18
// +build go1.18

package fastparser

import (
	"reflect"
	"testing"
)

// FuzzTokenize tests the scanner with random inputs to find edge cases and panics.
// Run with: go test -fuzz=FuzzTokenize -fuzztime=30s ./internal/fastparser
func FuzzTokenize(f *testing.F) {
	seeds := []string{
		"",
		"(",
		")",
		"'",
		`\`,
		"()",
		"(a,b,c),(d,e,f);",
		"('a,b', 2)",
		"('it''s', 1)",
		`('a\'b', 1)`,
		`('a\'', 1)`,
		"(f(x), 2)",
		"(1)),(2)",
		"(a,b,",
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		rows, state := Scan([]byte(input))
		if !reflect.DeepEqual(rows, Tokenize([]byte(input))) {
			t.Fatalf("Scan and Tokenize disagree on %q", input)
		}
		if state.Depth > 0 && state.OpenAt < 0 {
			t.Fatalf("open tuple without offset on %q: %+v", input, state)
		}
		for _, row := range rows {
			if len(row) == 0 {
				t.Fatalf("empty row emitted for %q", input)
			}
		}
	})
}
