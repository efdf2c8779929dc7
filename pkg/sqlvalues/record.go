package sqlvalues

// Record is a Row paired with the column list of its INSERT statement.
// It provides access to field values by index or by column name.
type Record struct {
	fields  Row
	columns []string
}

// NewRecord creates a Record. columns may be nil when the statement had no
// column list; GetByName then always fails.
func NewRecord(fields Row, columns []string) Record {
	return Record{fields: fields, columns: columns}
}

// Fields returns the raw field values.
func (r Record) Fields() Row {
	return r.fields
}

// Columns returns the column names, possibly empty.
func (r Record) Columns() []string {
	return r.columns
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.fields)
}

// Get returns the field at index.
// Returns ("", false) if the index is out of bounds.
func (r Record) Get(index int) (string, bool) {
	if index < 0 || index >= len(r.fields) {
		return "", false
	}
	return r.fields[index], true
}

// GetByName returns the field in the named column.
// Returns ("", false) if the column is unknown or the row is short.
func (r Record) GetByName(name string) (string, bool) {
	for i, c := range r.columns {
		if c == name {
			return r.Get(i)
		}
	}
	return "", false
}
