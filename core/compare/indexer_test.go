package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCompositeKey tests key rendering for each kind of key value.
func TestCompositeKey(t *testing.T) {
	r := NewRecord(
		Field{"schema", String("app")},
		Field{"id", Int(42)},
		Field{"active", Bool(true)},
		Field{"parent", Null()},
	)

	tests := []struct {
		name   string
		fields []string
		want   string
	}{
		{name: "single string", fields: []string{"schema"}, want: "app"},
		{name: "number", fields: []string{"id"}, want: "42"},
		{name: "composite", fields: []string{"schema", "id"}, want: "app::42"},
		{name: "bool and null", fields: []string{"active", "parent"}, want: "true::NULL"},
		{name: "absent field keeps position", fields: []string{"schema", "missing", "id"}, want: "app::::42"},
		{name: "all absent", fields: []string{"x", "y"}, want: "::"},
		{name: "no key fields", fields: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompositeKey(r, tt.fields))
		})
	}
}

// TestIndex tests that every record is reachable by its key.
func TestIndex(t *testing.T) {
	records := []Record{
		NewRecord(Field{"id", String("1")}, Field{"v", String("a")}),
		NewRecord(Field{"id", String("2")}, Field{"v", String("b")}),
		NewRecord(Field{"v", String("no id")}),
	}

	index := Index(records, []string{"id"})
	require.Len(t, index, 3)
	assert.Contains(t, index, "1")
	assert.Contains(t, index, "2")
	assert.Contains(t, index, "", "records without key fields still get a key")
}

// TestIndex_DuplicateKeysLastWriteWins pins the current behavior for
// duplicate keys within one source: the later record replaces the earlier.
// Duplicates are not reported; callers that need uniqueness must check it.
func TestIndex_DuplicateKeysLastWriteWins(t *testing.T) {
	records := []Record{
		NewRecord(Field{"id", String("1")}, Field{"v", String("first")}),
		NewRecord(Field{"id", String("1")}, Field{"v", String("second")}),
	}

	index := Index(records, []string{"id"})
	require.Len(t, index, 1)

	v, ok := index["1"].Get("v")
	require.True(t, ok)
	assert.Equal(t, "second", v.Text())
}

// TestIndex_NullAndStringNULLCollide documents that an explicit null and the
// string "NULL" render to the same key part.
func TestIndex_NullAndStringNULLCollide(t *testing.T) {
	records := []Record{
		NewRecord(Field{"id", Null()}),
		NewRecord(Field{"id", String("NULL")}),
	}

	assert.Len(t, Index(records, []string{"id"}), 1)
}
