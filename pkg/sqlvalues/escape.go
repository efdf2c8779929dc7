package sqlvalues

import "strings"

// Unescape resolves the MySQL escapes a dump leaves inside string fields:
// \' becomes ', \" becomes " and \\ becomes \.
//
// The replacements run in that order, one pass each, so \\' resolves to \'.
// Doubled quotes ('') and control escapes such as \n are left alone; content
// cleanup decides what to do with those.
func Unescape(field string) string {
	if !strings.ContainsRune(field, '\\') {
		return field
	}
	field = strings.ReplaceAll(field, `\'`, `'`)
	field = strings.ReplaceAll(field, `\"`, `"`)
	field = strings.ReplaceAll(field, `\\`, `\`)
	return field
}

// IsNull reports whether an unquoted field holds the SQL NULL literal.
// Quoting is already stripped by Tokenize, so the string 'NULL' and the
// literal NULL look the same; callers that care must inspect the raw block.
func IsNull(field string) bool {
	return strings.EqualFold(field, "NULL")
}
