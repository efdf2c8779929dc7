package sqlvalues_test

import (
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/shapestone/shape-sqldump/pkg/sqlvalues"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []sqlvalues.Row
	}{
		{"empty", "", []sqlvalues.Row{}},
		{"two rows", "(a,b,c),(d,e,f);", []sqlvalues.Row{{"a", "b", "c"}, {"d", "e", "f"}}},
		{"quoted comma", "('a,b', 2)", []sqlvalues.Row{{"a,b", "2"}}},
		{"doubled quote", "('it''s', 1)", []sqlvalues.Row{{"it''s", "1"}}},
		{"backslash quote", `('a\'b', 1)`, []sqlvalues.Row{{`a\'b`, "1"}}},
		{"nested parens", "(f(a)), (g)", []sqlvalues.Row{{"f(a)"}, {"g"}}},
		{"truncated", "(a,b,", []sqlvalues.Row{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sqlvalues.Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTokenize_DoubledQuoteLength(t *testing.T) {
	rows := sqlvalues.Tokenize("('it''s', 1)")
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if got := len(rows[0][0]); got != 5 {
		t.Errorf("expected 5 bytes (it''s), got %d: %q", got, rows[0][0])
	}
}

func TestParse_AgreesWithTokenize(t *testing.T) {
	input := "(1,'Hello, world','it''s'),\n(2,'<p>A \\'quoted\\' body</p>',NULL);"

	node, err := sqlvalues.Parse(input)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got, want := sqlvalues.Rows(node), sqlvalues.Tokenize(input); !reflect.DeepEqual(got, want) {
		t.Errorf("Rows(Parse()) = %q, Tokenize() = %q", got, want)
	}

	node, err = sqlvalues.ParseReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseReader() error = %v", err)
	}
	if got, want := sqlvalues.Rows(node), sqlvalues.Tokenize(input); !reflect.DeepEqual(got, want) {
		t.Errorf("Rows(ParseReader()) = %q, Tokenize() = %q", got, want)
	}
}

func TestParse_InvalidUTF8(t *testing.T) {
	input := "(1,'caf\xe9'),(2,'\xff\xfe')"
	want := []sqlvalues.Row{{"1", "caf\xe9"}, {"2", "\xff\xfe"}}

	if got := sqlvalues.Tokenize(input); !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize() = %q, want %q", got, want)
	}

	node, err := sqlvalues.Parse(input)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := sqlvalues.Rows(node); !reflect.DeepEqual(got, want) {
		t.Errorf("Rows(Parse()) = %q, want %q", got, want)
	}

	node, err = sqlvalues.ParseReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseReader() error = %v", err)
	}
	if got := sqlvalues.Rows(node); !reflect.DeepEqual(got, want) {
		t.Errorf("Rows(ParseReader()) = %q, want %q", got, want)
	}
}

func TestParseReader_LargeMultibyteBlock(t *testing.T) {
	// Odd-length rows put multi-byte runes across every 8 KiB read boundary,
	// and the total exceeds 64K runes.
	var sb strings.Builder
	for i := 0; sb.Len() < 200*1024; i++ {
		if i > 0 {
			sb.WriteString(",\n")
		}
		sb.WriteString("(")
		sb.WriteString(strings.Repeat("9", i%7+1))
		sb.WriteString(",'Kopi café ☕ 日本語 \xe9t\xe9, naïve')")
	}
	input := sb.String()

	node, err := sqlvalues.ParseReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseReader() error = %v", err)
	}
	got := sqlvalues.Rows(node)
	want := sqlvalues.Tokenize(input)
	if len(got) != len(want) {
		t.Fatalf("ParseReader() returned %d rows, Tokenize() %d", len(got), len(want))
	}
	for i := range want {
		if !reflect.DeepEqual(got[i], want[i]) {
			t.Fatalf("row %d: ParseReader() = %q, Tokenize() = %q", i, got[i], want[i])
		}
	}
}

func TestParseWithOptions(t *testing.T) {
	input := "(1,2,3),(4,5),(6,7,8)"

	opts := sqlvalues.DefaultReaderOptions()
	opts.FieldsPerRecord = 3
	opts.OnBadRow = sqlvalues.BadRowModeWarn
	var warned []string
	opts.WarningCallback = func(position, message string) {
		warned = append(warned, message)
	}

	node, err := sqlvalues.ParseWithOptions(input, opts)
	if err != nil {
		t.Fatalf("ParseWithOptions() error = %v", err)
	}
	want := []sqlvalues.Row{{"1", "2", "3"}, {"6", "7", "8"}}
	if got := sqlvalues.Rows(node); !reflect.DeepEqual(got, want) {
		t.Errorf("Rows() = %q, want %q", got, want)
	}
	if len(warned) != 1 {
		t.Errorf("expected 1 warning, got %d", len(warned))
	}

	warned = nil
	node, err = sqlvalues.ParseReaderWithOptions(strings.NewReader(input), opts)
	if err != nil {
		t.Fatalf("ParseReaderWithOptions() error = %v", err)
	}
	if got := sqlvalues.Rows(node); !reflect.DeepEqual(got, want) {
		t.Errorf("Rows(ParseReaderWithOptions()) = %q, want %q", got, want)
	}
	if len(warned) != 1 {
		t.Errorf("expected 1 warning from the reader, got %d", len(warned))
	}

	opts.OnBadRow = sqlvalues.BadRowModeError
	if _, err := sqlvalues.ParseReaderWithOptions(strings.NewReader(input), opts); err == nil {
		t.Error("expected a field count error from the reader")
	}

	opts = sqlvalues.DefaultReaderOptions()
	opts.OnBadRow = sqlvalues.BadRowMode(7)
	if _, err := sqlvalues.ParseWithOptions(input, opts); err == nil {
		t.Error("expected an options error for an unknown mode")
	}
	if _, err := sqlvalues.ParseReaderWithOptions(strings.NewReader(input), opts); err == nil {
		t.Error("expected an options error for an unknown mode from the reader")
	}
}

func TestFinalize(t *testing.T) {
	if got := sqlvalues.Finalize("  'x'  "); got != "x" {
		t.Errorf("Finalize() = %q, want %q", got, "x")
	}
	for _, row := range sqlvalues.Tokenize("('a', 'b c', 3)") {
		for _, f := range row {
			if sqlvalues.Finalize(f) != f {
				t.Errorf("Finalize(%q) changed an emitted field", f)
			}
		}
	}
}

func TestFilterArity(t *testing.T) {
	rows := []sqlvalues.Row{{"1"}, {"1", "2"}, {"1", "2", "3"}}
	got := sqlvalues.FilterArity(rows, 2)
	want := []sqlvalues.Row{{"1", "2"}, {"1", "2", "3"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterArity() = %q, want %q", got, want)
	}
	if len(rows) != 3 {
		t.Errorf("FilterArity modified its input")
	}
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{`it\'s`, "it's"},
		{`say \"hi\"`, `say "hi"`},
		{`C:\\dir`, `C:\dir`},
		{`\\'`, `\'`},
		{"it''s", "it''s"},
		{`line\nbreak`, `line\nbreak`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := sqlvalues.Unescape(tt.input); got != tt.want {
				t.Errorf("Unescape(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsNull(t *testing.T) {
	if !sqlvalues.IsNull("NULL") || !sqlvalues.IsNull("null") {
		t.Error("expected NULL literal to be recognized")
	}
	if sqlvalues.IsNull("") || sqlvalues.IsNull("NULLS") {
		t.Error("unexpected NULL match")
	}
}

func TestTokenize_Concurrent(t *testing.T) {
	blocks := []string{
		"(1,'a'),(2,'b')",
		"('x,y', 'it''s')",
		"(f(x), 2),(3, 4)",
	}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			block := blocks[i%len(blocks)]
			want := sqlvalues.Tokenize(block)
			for j := 0; j < 50; j++ {
				if got := sqlvalues.Tokenize(block); !reflect.DeepEqual(got, want) {
					t.Errorf("concurrent Tokenize(%q) = %q, want %q", block, got, want)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestFormat(t *testing.T) {
	if sqlvalues.Format() != "SQL-VALUES" {
		t.Errorf("Format() = %q", sqlvalues.Format())
	}
}
