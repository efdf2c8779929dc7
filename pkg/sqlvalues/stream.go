package sqlvalues

import (
	"io"
)

// Scanner provides a record-at-a-time interface over one VALUES block.
//
// Example usage:
//
//	scanner := sqlvalues.NewScanner(file).
//	    SetColumns(columns).
//	    SetMinFields(23)
//	for scanner.Scan() {
//	    record := scanner.Record()
//	    title, _ := record.GetByName("post_title")
//	    fmt.Println(sqlvalues.Unescape(title))
//	}
//	if err := scanner.Err(); err != nil {
//	    // handle error
//	}
type Scanner struct {
	reader    io.Reader
	columns   []string
	minFields int
	strict    bool
	rows      []Row
	index     int
	err       error
	parsed    bool
}

// NewScanner creates a new Scanner that reads a VALUES block from reader.
func NewScanner(reader io.Reader) *Scanner {
	return &Scanner{
		reader: reader,
		index:  -1,
	}
}

// SetColumns sets the column names used by Record.GetByName.
// Returns the Scanner for method chaining.
func (s *Scanner) SetColumns(columns []string) *Scanner {
	s.columns = columns
	return s
}

// SetMinFields drops rows with fewer than n fields.
// Returns the Scanner for method chaining.
func (s *Scanner) SetMinFields(n int) *Scanner {
	s.minFields = n
	return s
}

// SetStrict makes Err report a truncated block (see Check) once all complete
// rows have been scanned.
// Returns the Scanner for method chaining.
func (s *Scanner) SetStrict(strict bool) *Scanner {
	s.strict = strict
	return s
}

// Scan advances the scanner to the next record.
// It returns false when there are no more records or an error occurs.
// After Scan returns false, the Err method will return any error that occurred.
func (s *Scanner) Scan() bool {
	if !s.parsed {
		s.parsed = true
		if err := s.parse(); err != nil {
			s.err = err
			return false
		}
	}

	s.index++
	return s.index < len(s.rows)
}

// Record returns the current record.
// This should only be called after Scan() returns true.
func (s *Scanner) Record() Record {
	if s.index < 0 || s.index >= len(s.rows) {
		return Record{fields: Row{}, columns: s.columns}
	}
	return Record{fields: s.rows[s.index], columns: s.columns}
}

// Err returns the error, if any, that was encountered during scanning.
func (s *Scanner) Err() error {
	return s.err
}

// parse reads the block and tokenizes it.
// Tokenizing needs the whole block anyway to know a tuple is closed, so the
// reader is drained up front.
func (s *Scanner) parse() error {
	data, err := io.ReadAll(s.reader)
	if err != nil {
		return err
	}

	rows, scanErr := Scan(string(data))
	if s.minFields > 0 {
		rows = FilterArity(rows, s.minFields)
	}
	s.rows = rows

	// Complete rows stay available; the error surfaces through Err.
	if s.strict && scanErr != nil {
		s.err = scanErr
	}
	return nil
}
