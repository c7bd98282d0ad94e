package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"envcompare/core/compare"
	"envcompare/core/utils"

	"gorm.io/gorm"
)

// DefaultMaxRows caps fetches that do not set a limit.
const DefaultMaxRows = 10000

// FetchOptions bounds a fetch.
type FetchOptions struct {
	// MaxRows caps the number of rows read. Zero uses DefaultMaxRows.
	MaxRows int
	// MaxValueLength truncates longer text values. Zero disables truncation.
	MaxValueLength int
}

func (o FetchOptions) maxRows() int {
	if o.MaxRows <= 0 {
		return DefaultMaxRows
	}
	return o.MaxRows
}

// RowSet is the result of a fetch: column names in select order and one
// record per row.
type RowSet struct {
	Columns []string
	Records []compare.Record
}

// TableQuery selects rows from a single table.
type TableQuery struct {
	// Table is the table name, optionally qualified as schema.table.
	Table string
	// Fields restricts the selected columns. Empty selects all.
	Fields []string
	// Where is an optional filter appended verbatim after validation.
	Where string
	// OrderBy sorts the rows so limited fetches pick the same subset.
	OrderBy []string
}

// FetchTable validates q and reads matching rows.
func FetchTable(ctx context.Context, db *gorm.DB, q TableQuery, opts FetchOptions) (*RowSet, error) {
	table, err := NormalizeIdentifier(q.Table)
	if err != nil {
		return nil, err
	}
	fields, err := NormalizeIdentifiers(q.Fields)
	if err != nil {
		return nil, err
	}
	orderBy, err := NormalizeIdentifiers(q.OrderBy)
	if err != nil {
		return nil, err
	}
	if err := ValidateWhere(q.Where); err != nil {
		return nil, err
	}

	columns := "*"
	if len(fields) > 0 {
		quoted := make([]string, len(fields))
		for i, f := range fields {
			quoted[i] = quoteIdent(db, f)
		}
		columns = strings.Join(quoted, ", ")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s", columns, quoteIdent(db, table))
	if where := strings.TrimSpace(q.Where); where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}
	if len(orderBy) > 0 {
		quoted := make([]string, len(orderBy))
		for i, f := range orderBy {
			quoted[i] = quoteIdent(db, f)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(quoted, ", "))
	}
	fmt.Fprintf(&sb, " LIMIT %d", opts.maxRows())

	return queryRows(ctx, db, sb.String(), opts)
}

// FetchQuery validates a raw SELECT and reads at most opts.MaxRows rows.
func FetchQuery(ctx context.Context, db *gorm.DB, query string, opts FetchOptions) (*RowSet, error) {
	stmt, err := ValidateSelect(query)
	if err != nil {
		return nil, err
	}
	limited := fmt.Sprintf("SELECT * FROM (%s) AS limited_query LIMIT %d", stmt, opts.maxRows())
	return queryRows(ctx, db, limited, opts)
}

func queryRows(ctx context.Context, db *gorm.DB, query string, opts FetchOptions) (*RowSet, error) {
	rows, err := db.WithContext(ctx).Raw(query).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	set, err := ScanRows(rows, opts)
	if err != nil {
		return nil, err
	}
	return set, nil
}

// ScanRows reads every row of rows into records, converting driver values
// by their declared column type.
func ScanRows(rows *sql.Rows, opts FetchOptions) (*RowSet, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	numeric := make([]bool, len(columns))
	if types, err := rows.ColumnTypes(); err == nil {
		for i, ct := range types {
			numeric[i] = isNumericType(ct.DatabaseTypeName())
		}
	}

	set := &RowSet{Columns: columns, Records: []compare.Record{}}
	limit := opts.maxRows()

	for rows.Next() {
		if len(set.Records) >= limit {
			break
		}

		raw := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		var rec compare.Record
		for i, name := range columns {
			v := convert(raw[i], numeric[i])
			rec.Set(name, utils.TruncateValue(v, opts.MaxValueLength))
		}
		set.Records = append(set.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return set, nil
}

// convert maps a driver value to a comparison value. Numeric columns
// delivered as text (MySQL text protocol) become numbers.
func convert(raw any, numeric bool) compare.Value {
	if b, ok := raw.([]byte); ok && numeric {
		text := strings.TrimSpace(string(b))
		if json.Valid([]byte(text)) {
			return compare.Number(json.Number(text))
		}
	}
	return utils.ToValue(raw)
}

var numericTypes = map[string]struct{}{
	"TINYINT": {}, "SMALLINT": {}, "MEDIUMINT": {}, "INT": {}, "INTEGER": {}, "BIGINT": {},
	"UNSIGNED TINYINT": {}, "UNSIGNED SMALLINT": {}, "UNSIGNED MEDIUMINT": {}, "UNSIGNED INT": {}, "UNSIGNED BIGINT": {},
	"DECIMAL": {}, "NUMERIC": {}, "FLOAT": {}, "DOUBLE": {}, "REAL": {},
}

func isNumericType(name string) bool {
	_, ok := numericTypes[strings.ToUpper(name)]
	return ok
}
