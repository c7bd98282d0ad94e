package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"envcompare/core/compare"
)

// Supported export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// csvHeader is the first line of every CSV export.
const csvHeader = "primary_key,status,field,value_a,value_b"

// ErrUnsupportedFormat is matched by every UnsupportedFormatError.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// UnsupportedFormatError reports a format tag other than json or csv.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported export format: %q", e.Format)
}

// Is makes errors.Is(err, ErrUnsupportedFormat) hold.
func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// Export serializes result in the given format.
func Export(result *compare.Result, format string) (string, error) {
	switch format {
	case FormatJSON:
		return exportJSON(result)
	case FormatCSV:
		return exportCSV(result), nil
	default:
		return "", &UnsupportedFormatError{Format: format}
	}
}

func exportJSON(result *compare.Result) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(data), nil
}

// exportCSV writes one row per field difference of differing records.
// Text columns are always quoted; the status label is written bare.
func exportCSV(result *compare.Result) string {
	var sb strings.Builder
	sb.WriteString(csvHeader)
	sb.WriteByte('\n')

	for _, rec := range result.Records {
		if rec.Status != compare.StatusDiffer {
			continue
		}
		for _, diff := range rec.Differences {
			sb.WriteString(quote(rec.DisplayKey))
			sb.WriteByte(',')
			sb.WriteString(string(rec.Status))
			sb.WriteByte(',')
			sb.WriteString(quote(diff.FieldName))
			sb.WriteByte(',')
			sb.WriteString(quote(deref(diff.ValueA)))
			sb.WriteByte(',')
			sb.WriteString(quote(deref(diff.ValueB)))
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Filename returns comparison_<source_a_name>_<YYYYMMDD_HHMMSS>.<format>.
// Characters of the source name that are unsafe in a path or a quoted
// header value are replaced by underscores.
func Filename(result *compare.Result, format string, now time.Time) string {
	source := strings.Map(filenameRune, result.SourceAName)
	return fmt.Sprintf("comparison_%s_%s.%s", source, now.Format("20060102_150405"), format)
}

func filenameRune(r rune) rune {
	switch {
	case r == '.', r == ' ', r == '/', r == '\\', r == '"', unicode.IsControl(r):
		return '_'
	}
	return r
}

// ContentType returns the MIME type of an export format.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// IsSupported reports whether format can be exported.
func IsSupported(format string) bool {
	return format == FormatJSON || format == FormatCSV
}
