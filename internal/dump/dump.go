// Package dump locates the INSERT statements of one table inside a SQL dump.
//
// Only the layout written by mysqldump and phpMyAdmin is recognized: a column
// list, the VALUES keyword ending its line, tuples on the following lines and
// a semicolon closing the statement at the end of a line.
//
//	INSERT INTO `wp_posts` (`ID`, `post_author`, ...) VALUES
//	(1, 1, ...),
//	(2, 1, ...);
//
// The statement end is found by pattern, not by tokenizing, so a string
// literal that itself contains ";\n" ends the block early. The truncated
// trailing tuple is then dropped by the tokenizer and can be detected with
// sqlvalues.Check.
package dump

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ErrNoTable is returned when a Locator is created without a table name.
var ErrNoTable = errors.New("dump: table name is required")

// Block is the VALUES body of one INSERT statement.
type Block struct {
	// Table is the table the statement inserts into.
	Table string
	// Columns is the statement's column list, unquoted.
	Columns []string
	// Body is the text between VALUES and the terminating semicolon.
	Body string
	// Offset is the byte offset of the INSERT keyword in the dump.
	Offset int
}

// Locator finds INSERT blocks for a single table.
type Locator struct {
	table string
	re    *regexp.Regexp
}

// NewLocator compiles a locator for table. The name is matched literally,
// with or without backquotes.
func NewLocator(table string) (*Locator, error) {
	table = strings.Trim(strings.TrimSpace(table), "`")
	if table == "" {
		return nil, ErrNoTable
	}

	pattern := "(?s)INSERT INTO `?" + regexp.QuoteMeta(table) + "`? \\(([^)]+)\\) VALUES\\s*\\n(.*?);\\s*(?:\\n|\\z)"
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("dump: compile pattern for %q: %w", table, err)
	}
	return &Locator{table: table, re: re}, nil
}

// Table returns the table name the locator matches.
func (l *Locator) Table() string {
	return l.table
}

// Find returns every block for the table in content, in dump order.
func (l *Locator) Find(content string) []Block {
	matches := l.re.FindAllStringSubmatchIndex(content, -1)
	blocks := make([]Block, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, Block{
			Table:   l.table,
			Columns: ParseColumns(content[m[2]:m[3]]),
			Body:    content[m[4]:m[5]],
			Offset:  m[0],
		})
	}
	return blocks
}

// FindBytes is Find for a byte slice. Column lists and bodies are copied out,
// so the returned blocks do not retain data.
func (l *Locator) FindBytes(data []byte) []Block {
	matches := l.re.FindAllSubmatchIndex(data, -1)
	blocks := make([]Block, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, Block{
			Table:   l.table,
			Columns: ParseColumns(string(data[m[2]:m[3]])),
			Body:    string(data[m[4]:m[5]]),
			Offset:  m[0],
		})
	}
	return blocks
}

// ReadBlocks reads a whole dump from r and returns the blocks for table.
func ReadBlocks(r io.Reader, table string) ([]Block, error) {
	l, err := NewLocator(table)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("dump: read: %w", err)
	}
	return l.FindBytes(data), nil
}

// ReadFile returns the blocks for table in the dump at path. The file is
// memory-mapped where the platform allows it, and only the matched blocks
// are copied into memory.
func ReadFile(path, table string) ([]Block, error) {
	l, err := NewLocator(table)
	if err != nil {
		return nil, err
	}

	data, cleanup, err := mapFile(path)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return l.FindBytes(data), nil
}

// ParseColumns splits a column list such as "`ID`, `post_author`" into names.
func ParseColumns(list string) []string {
	parts := strings.Split(list, ",")
	cols := make([]string, 0, len(parts))
	for _, p := range parts {
		name := strings.Trim(strings.TrimSpace(p), "`\"")
		if name != "" {
			cols = append(cols, name)
		}
	}
	return cols
}
