package database

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSafeIdentifier(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"items", true},
		{"APP_CONFIG", true},
		{"schema1.table_2", true},
		{"_private", true},
		{"", false},
		{"a.b.c", false},
		{".table", false},
		{"schema.", false},
		{"bad name", false},
		{"semi;colon", false},
		{`quo"te`, false},
		{"back`tick", false},
		{"dash-ed", false},
		{strings.Repeat("a", 128), true},
		{strings.Repeat("a", 129), false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSafeIdentifier(tt.id))
		})
	}
}

func TestNormalizeIdentifier(t *testing.T) {
	id, err := NormalizeIdentifier("  App.Settings ")
	require.NoError(t, err)
	assert.Equal(t, "App.Settings", id)

	_, err = NormalizeIdentifier("x y")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidIdentifier))

	ids, err := NormalizeIdentifiers([]string{" a", "b "})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	_, err = NormalizeIdentifiers([]string{"a", "b;"})
	assert.True(t, errors.Is(err, ErrInvalidIdentifier))
}

func TestIsSuspiciousClause(t *testing.T) {
	suspicious := []string{
		"id = 1; DROP TABLE x",
		"id = 1 -- comment",
		"id = 1 /* c */",
		"x IN (SELECT 1) UNION DELETE FROM t",
		"DROP TABLE t",
		"1=1 or truncate table t",
		"grant all",
	}
	for _, clause := range suspicious {
		assert.True(t, IsSuspiciousClause(clause), clause)
	}

	safe := []string{
		"id = 1",
		"name LIKE 'feature_%'",
		"updated_at > '2024-01-01'",
		"created_by = 'ops'",
		"last_update > '2024-01-01'",
		"soft_delete = 0",
		"recall_count > 3",
		"dropped_at IS NULL",
	}
	for _, clause := range safe {
		assert.False(t, IsSuspiciousClause(clause), clause)
	}
}

func TestValidateWhere(t *testing.T) {
	assert.NoError(t, ValidateWhere(""))
	assert.NoError(t, ValidateWhere("   "))
	assert.NoError(t, ValidateWhere("env = 'prod'"))
	assert.NoError(t, ValidateWhere("last_update > '2024-01-01' AND soft_delete = 0"))
	assert.True(t, errors.Is(ValidateWhere("1=1; delete from t"), ErrSuspiciousClause))
	assert.True(t, errors.Is(ValidateWhere("id IN (SELECT id FROM t) OR (DELETE)"), ErrSuspiciousClause))
}

func TestValidateSelect(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		want    string
		wantErr bool
	}{
		{name: "select", sql: "SELECT * FROM t", want: "SELECT * FROM t"},
		{name: "lower case with", sql: "with x as (select 1) select * from x", want: "with x as (select 1) select * from x"},
		{name: "trailing semicolon", sql: "  SELECT 1;  ", want: "SELECT 1"},
		{name: "last_update column", sql: "SELECT id, last_update FROM app_config", want: "SELECT id, last_update FROM app_config"},
		{name: "soft_delete column", sql: "SELECT id, soft_delete FROM flags", want: "SELECT id, soft_delete FROM flags"},
		{name: "keyword inside select", sql: "SELECT 'update' AS kind FROM t", want: "SELECT 'update' AS kind FROM t"},
		{name: "empty", sql: "  ", wantErr: true},
		{name: "only semicolon", sql: ";", wantErr: true},
		{name: "update", sql: "UPDATE t SET a = 1", wantErr: true},
		{name: "stacked", sql: "SELECT 1; DROP TABLE t", wantErr: true},
		{name: "comment", sql: "SELECT 1 -- x", wantErr: true},
		{name: "block comment", sql: "SELECT /* x */ 1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateSelect(tt.sql)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrSuspiciousClause))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQualifiedName(t *testing.T) {
	assert.Equal(t, "t", QualifiedName("", "t"))
	assert.Equal(t, "s.t", QualifiedName("s", "t"))
	assert.Equal(t, "x.t", QualifiedName("s", "x.t"))
}
