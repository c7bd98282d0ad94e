package compare

import "strings"

// KeySeparator joins the parts of a composite key.
const KeySeparator = "::"

// CompositeKey builds the identity of a record from its key fields.
// Absent fields contribute an empty part so positions stay aligned.
func CompositeKey(r Record, keyFields []string) string {
	parts := make([]string, len(keyFields))
	for i, field := range keyFields {
		if v, ok := r.Get(field); ok {
			parts[i] = v.Text()
		}
	}
	return strings.Join(parts, KeySeparator)
}

// Index maps every record by its composite key. When two records share a
// key the later one wins.
func Index(records []Record, keyFields []string) map[string]Record {
	index := make(map[string]Record, len(records))
	for _, r := range records {
		index[CompositeKey(r, keyFields)] = r
	}
	return index
}
