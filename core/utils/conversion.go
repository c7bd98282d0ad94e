package utils

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"envcompare/core/compare"
)

// TruncationMarker is appended to values cut by Truncate.
const TruncationMarker = "...(truncated)"

// ToValue converts a database driver value to a comparison value.
// Byte slices are treated as text, times are rendered in RFC 3339 and
// unknown types fall back to their fmt representation.
func ToValue(val any) compare.Value {
	switch v := val.(type) {
	case nil:
		return compare.Null()
	case string:
		return compare.String(v)
	case []byte:
		return compare.String(string(v))
	case bool:
		return compare.Bool(v)
	case int:
		return compare.Int(int64(v))
	case int64:
		return compare.Int(v)
	case int32:
		return compare.Int(int64(v))
	case int16:
		return compare.Int(int64(v))
	case int8:
		return compare.Int(int64(v))
	case uint:
		return compare.Uint(uint64(v))
	case uint64:
		return compare.Uint(v)
	case uint32:
		return compare.Uint(uint64(v))
	case uint16:
		return compare.Uint(uint64(v))
	case uint8:
		return compare.Uint(uint64(v))
	case float64:
		return compare.Float(v)
	case float32:
		return compare.Float(float64(v))
	case time.Time:
		return compare.String(v.Format(time.RFC3339Nano))
	case compare.Value:
		return v
	default:
		return compare.String(fmt.Sprintf("%v", v))
	}
}

// TruncateValue shortens string values longer than limit runes.
// Other kinds and a non-positive limit leave v unchanged.
func TruncateValue(v compare.Value, limit int) compare.Value {
	if v.Kind() != compare.KindString || limit <= 0 {
		return v
	}
	s := v.Text()
	if utf8.RuneCountInString(s) <= limit {
		return v
	}
	return compare.String(Truncate(s, limit))
}

// Truncate cuts s to limit runes and appends TruncationMarker.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + TruncationMarker
}

// SplitList splits a comma separated list, trimming blanks and dropping
// empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
