package database

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// ColumnInfo matches the output of SHOW COLUMNS.
type ColumnInfo struct {
	Field   string  `json:"field"`
	Type    string  `json:"type"`
	Null    string  `json:"null"`
	Key     string  `json:"key"`
	Default *string `json:"default"` // Pointer because NULL default is possible
	Extra   string  `json:"extra"`

	// PrimaryKeyOrder is the 1-based position in the primary key, 0 otherwise.
	PrimaryKeyOrder int `json:"-" gorm:"-"`
}

// IsPrimaryKey reports whether the column belongs to the primary key.
func (c ColumnInfo) IsPrimaryKey() bool {
	return c.PrimaryKeyOrder > 0
}

// sqliteColumn is one row of PRAGMA table_info.
type sqliteColumn struct {
	Cid       int
	Name      string
	Type      string
	Notnull   int
	DfltValue *string
	Pk        int
}

// GetTableColumns retrieves the column definitions for a table in declared
// order. tableName may be qualified as schema.table and must already be
// normalized. A missing table yields no columns.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	if !IsSafeIdentifier(tableName) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, tableName)
	}

	if db.Dialector.Name() == DriverSQLite {
		return sqliteColumns(db, tableName)
	}

	var columns []ColumnInfo
	err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM %s", quoteMySQL(tableName))).Scan(&columns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}

	order := 0
	for i := range columns {
		columns[i].Type = strings.ToLower(columns[i].Type)
		if columns[i].Key == "PRI" {
			order++
			columns[i].PrimaryKeyOrder = order
		}
	}
	return columns, nil
}

func sqliteColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	schema, table := splitQualified(tableName)
	pragma := fmt.Sprintf("PRAGMA table_info('%s')", table)
	if schema != "" {
		pragma = fmt.Sprintf("PRAGMA %q.table_info('%s')", schema, table)
	}

	var sqliteCols []sqliteColumn
	if err := db.Raw(pragma).Scan(&sqliteCols).Error; err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}

	columns := make([]ColumnInfo, 0, len(sqliteCols))
	for _, col := range sqliteCols {
		info := ColumnInfo{
			Field:           col.Name,
			Type:            strings.ToLower(col.Type),
			Null:            "YES",
			Default:         col.DfltValue,
			PrimaryKeyOrder: col.Pk,
		}
		if col.Notnull != 0 {
			info.Null = "NO"
		}
		if col.Pk > 0 {
			info.Key = "PRI"
		}
		columns = append(columns, info)
	}
	return columns, nil
}

// PrimaryKeyColumns returns the primary key column names in key order.
func PrimaryKeyColumns(columns []ColumnInfo) []string {
	var pk []ColumnInfo
	for _, c := range columns {
		if c.IsPrimaryKey() {
			pk = append(pk, c)
		}
	}
	sort.SliceStable(pk, func(i, j int) bool {
		return pk[i].PrimaryKeyOrder < pk[j].PrimaryKeyOrder
	})

	names := make([]string, 0, len(pk))
	for _, c := range pk {
		names = append(names, c.Field)
	}
	return names
}

// ColumnNames returns the column names in declared order.
func ColumnNames(columns []ColumnInfo) []string {
	names := make([]string, 0, len(columns))
	for _, c := range columns {
		names = append(names, c.Field)
	}
	return names
}

// quoteMySQL quotes each part of a validated, possibly qualified name.
func quoteMySQL(name string) string {
	schema, table := splitQualified(name)
	if schema == "" {
		return "`" + table + "`"
	}
	return "`" + schema + "`.`" + table + "`"
}

// quoteIdent quotes a validated, possibly qualified name for the dialect of db.
func quoteIdent(db *gorm.DB, name string) string {
	if db.Dialector.Name() != DriverSQLite {
		return quoteMySQL(name)
	}
	schema, table := splitQualified(name)
	if schema == "" {
		return `"` + table + `"`
	}
	return `"` + schema + `"."` + table + `"`
}

// InspectTable reads the columns and primary key of a table.
func InspectTable(ctx context.Context, db *gorm.DB, environment, tableName string) (*TableMetadata, error) {
	table, err := NormalizeIdentifier(tableName)
	if err != nil {
		return nil, err
	}

	columns, err := GetTableColumns(db.WithContext(ctx), table)
	if err != nil {
		return nil, err
	}

	return &TableMetadata{
		Environment: environment,
		Table:       table,
		Columns:     columns,
		PrimaryKey:  PrimaryKeyColumns(columns),
	}, nil
}
