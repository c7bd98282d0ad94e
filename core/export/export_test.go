package export

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"envcompare/core/compare"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func rec(fields ...compare.Field) compare.Record {
	return compare.NewRecord(fields...)
}

func str(name, v string) compare.Field {
	return compare.Field{Name: name, Value: compare.String(v)}
}

func num(name string, n int64) compare.Field {
	return compare.Field{Name: name, Value: compare.Int(n)}
}

func sampleResult() *compare.Result {
	engine := compare.New(compare.Options{
		Now: func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) },
	})
	return engine.Compare(compare.Input{
		SourceAName: "staging",
		SourceBName: "production",
		RecordsA: []compare.Record{
			rec(str("id", "1"), str("value", "old")),
			rec(str("id", "2"), str("name", `say "hi"`), num("port", 80)),
			rec(str("id", "3"), str("v", "same")),
			rec(str("id", "4"), str("v", "only here")),
			rec(str("id", "5"), compare.Field{Name: "note", Value: compare.Null()}),
		},
		RecordsB: []compare.Record{
			rec(str("id", "1"), str("value", "new")),
			rec(str("id", "2"), str("name", `say "bye"`), num("port", 8080)),
			rec(str("id", "3"), str("v", "same")),
			rec(str("id", "5")),
		},
		KeyFields: []string{"id"},
	})
}

// TestExport_CSV tests the CSV rows of differing records against a golden file.
func TestExport_CSV(t *testing.T) {
	out, err := Export(sampleResult(), FormatCSV)
	require.NoError(t, err)

	newGoldie(t).Assert(t, "csv_differences", []byte(out))
}

// TestExport_CSV_HeaderOnly tests that a result without differences yields only the header.
func TestExport_CSV_HeaderOnly(t *testing.T) {
	result := compare.Compare(compare.Input{
		RecordsA:  []compare.Record{rec(str("id", "1")), rec(str("id", "2"))},
		RecordsB:  []compare.Record{rec(str("id", "1")), rec(str("id", "3"))},
		KeyFields: []string{"id"},
	})
	require.Zero(t, result.Summary.Differing)

	out, err := Export(result, FormatCSV)
	require.NoError(t, err)

	newGoldie(t).Assert(t, "csv_header_only", []byte(out))
}

// TestExport_JSON tests that JSON output is indented and decodes back to the result.
func TestExport_JSON(t *testing.T) {
	result := sampleResult()

	out, err := Export(result, FormatJSON)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "{\n  \"source_a_name\": \"staging\""))

	var decoded compare.Result
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, result.Summary, decoded.Summary)
	assert.Equal(t, "2024-01-02T03:04:05Z", decoded.Timestamp)
	require.Len(t, decoded.Records, len(result.Records))
	for i := range result.Records {
		assert.Equal(t, result.Records[i].DisplayKey, decoded.Records[i].DisplayKey)
		assert.Equal(t, result.Records[i].Status, decoded.Records[i].Status)
		assert.Equal(t, result.Records[i].Differences, decoded.Records[i].Differences)
	}
}

// TestExport_UnsupportedFormat tests that unknown formats are rejected.
func TestExport_UnsupportedFormat(t *testing.T) {
	for _, format := range []string{"xml", "", "JSON", "tsv"} {
		t.Run(format, func(t *testing.T) {
			out, err := Export(sampleResult(), format)
			assert.Empty(t, out)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnsupportedFormat))

			var formatErr *UnsupportedFormatError
			require.True(t, errors.As(err, &formatErr))
			assert.Equal(t, format, formatErr.Format)
		})
	}
}

// TestFilename tests the export file naming convention.
func TestFilename(t *testing.T) {
	now := time.Date(2024, 12, 31, 23, 59, 7, 0, time.Local)

	tests := []struct {
		name   string
		source string
		format string
		want   string
	}{
		{name: "plain", source: "staging", format: "csv", want: "comparison_staging_20241231_235907.csv"},
		{name: "dotted", source: "db.internal", format: "json", want: "comparison_db_internal_20241231_235907.json"},
		{name: "spaces and slashes", source: "eu west/1", format: "csv", want: "comparison_eu_west_1_20241231_235907.csv"},
		{name: "quotes and backslashes", source: `a"b\c`, format: "csv", want: "comparison_a_b_c_20241231_235907.csv"},
		{name: "control characters", source: "dev\r\nX-Injected: 1", format: "json", want: "comparison_dev__X-Injected:_1_20241231_235907.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &compare.Result{SourceAName: tt.source}
			assert.Equal(t, tt.want, Filename(result, tt.format, now))
		})
	}
}

// TestContentType tests MIME types per format.
func TestContentType(t *testing.T) {
	assert.Equal(t, "application/json", ContentType(FormatJSON))
	assert.Equal(t, "text/csv; charset=utf-8", ContentType(FormatCSV))
	assert.Equal(t, "application/octet-stream", ContentType("xml"))
	assert.True(t, IsSupported("csv"))
	assert.False(t, IsSupported("xml"))
}
