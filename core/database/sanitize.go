package database

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// MaxIdentifierLength is the longest accepted table, schema or column name.
const MaxIdentifierLength = 128

var (
	// ErrInvalidIdentifier is returned for names that are not plain identifiers.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrSuspiciousClause is returned for filters carrying statement
	// separators, comments or data-changing keywords, and for queries
	// carrying separators or comments.
	ErrSuspiciousClause = errors.New("suspicious SQL clause")
)

// blockedMarkers are statement separators and comment markers.
var blockedMarkers = []string{";", "--", "/*", "*/"}

// blockedKeywords are data-changing keywords, matched as whole words.
var blockedKeywords = map[string]struct{}{
	"alter": {}, "drop": {}, "truncate": {}, "insert": {}, "update": {}, "delete": {},
	"merge": {}, "grant": {}, "revoke": {}, "create": {}, "execute": {}, "call": {},
}

// IsSafeIdentifier reports whether id holds only letters, digits and
// underscores, with at most one dot separating a schema from a table.
func IsSafeIdentifier(id string) bool {
	if id == "" || len(id) > MaxIdentifierLength {
		return false
	}
	dots := 0
	for _, ch := range id {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9', ch == '_':
		case ch == '.':
			dots++
			if dots > 1 {
				return false
			}
		default:
			return false
		}
	}
	return !strings.HasPrefix(id, ".") && !strings.HasSuffix(id, ".")
}

// NormalizeIdentifier trims id and validates it. Case is preserved since
// MySQL table names are case sensitive on most platforms.
func NormalizeIdentifier(id string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if !IsSafeIdentifier(trimmed) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
	}
	return trimmed, nil
}

// NormalizeIdentifiers validates every name of ids.
func NormalizeIdentifiers(ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		n, err := NormalizeIdentifier(id)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// HasStatementMarkers reports whether clause contains a statement separator
// or a comment marker.
func HasStatementMarkers(clause string) bool {
	for _, marker := range blockedMarkers {
		if strings.Contains(clause, marker) {
			return true
		}
	}
	return false
}

// IsSuspiciousClause reports whether clause contains a statement marker or a
// blocked keyword. Keywords only match whole words, so columns such as
// last_update are accepted.
func IsSuspiciousClause(clause string) bool {
	if HasStatementMarkers(clause) {
		return true
	}
	words := strings.FieldsFunc(strings.ToLower(clause), func(r rune) bool {
		return !isIdentifierRune(r)
	})
	for _, word := range words {
		if _, ok := blockedKeywords[word]; ok {
			return true
		}
	}
	return false
}

func isIdentifierRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ValidateWhere accepts an empty filter or one without blocked tokens.
func ValidateWhere(where string) error {
	if strings.TrimSpace(where) == "" {
		return nil
	}
	if IsSuspiciousClause(where) {
		return fmt.Errorf("%w: where clause", ErrSuspiciousClause)
	}
	return nil
}

// ValidateSelect accepts a single read-only query starting with SELECT or
// WITH and returns it without trailing semicolons. It is a guard against
// accidents, not a SQL parser.
func ValidateSelect(sql string) (string, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(sql), "; \t\r\n")
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty query", ErrSuspiciousClause)
	}
	head := strings.ToLower(strings.Fields(trimmed)[0])
	if head != "select" && head != "with" {
		return "", fmt.Errorf("%w: query must start with SELECT or WITH", ErrSuspiciousClause)
	}
	if HasStatementMarkers(trimmed) {
		return "", fmt.Errorf("%w: query contains a statement separator or comment", ErrSuspiciousClause)
	}
	return trimmed, nil
}

// QualifiedName joins schema and table with a dot, omitting an empty schema.
// A table already qualified with a schema is returned as is.
func QualifiedName(schema, table string) string {
	if schema == "" || strings.Contains(table, ".") {
		return table
	}
	return schema + "." + table
}

// splitQualified splits "schema.table" into its parts.
func splitQualified(name string) (schema, table string) {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}
