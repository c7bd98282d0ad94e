package compare

import "envcompare/core/textdiff"

// Status classifies a key after both sources have been aligned.
type Status string

const (
	// StatusMatch means both sources hold the key and no compared field differs.
	StatusMatch Status = "match"
	// StatusDiffer means both sources hold the key and at least one field differs.
	StatusDiffer Status = "differ"
	// StatusOnlyInSourceA means only the first source holds the key.
	StatusOnlyInSourceA Status = "only_in_source_a"
	// StatusOnlyInSourceB means only the second source holds the key.
	StatusOnlyInSourceB Status = "only_in_source_b"
)

// FieldDifference describes one differing field of a matched record pair.
type FieldDifference struct {
	// FieldName is the compared field.
	FieldName string `json:"field_name"`

	// ValueA is the rendered value from source A, nil if the field is absent.
	ValueA *string `json:"value_a"`

	// ValueB is the rendered value from source B, nil if the field is absent.
	ValueB *string `json:"value_b"`

	// ChunksA highlights ValueA (Same and Removed runs).
	ChunksA []textdiff.Chunk `json:"chunks_a"`

	// ChunksB highlights ValueB (Same and Added runs).
	ChunksB []textdiff.Chunk `json:"chunks_b"`
}

// Comparison is the outcome for a single composite key.
type Comparison struct {
	// DisplayKey is the composite key, or a "Row #n" label for very long keys.
	DisplayKey string `json:"display_key"`

	// Status classifies the key.
	Status Status `json:"status"`

	// DataA is the record from source A, nil if absent.
	DataA *Record `json:"data_a"`

	// DataB is the record from source B, nil if absent.
	DataB *Record `json:"data_b"`

	// Differences lists the differing fields. Empty unless Status is differ.
	Differences []FieldDifference `json:"differences"`
}

// Summary provides aggregate counts for a Result.
type Summary struct {
	Total     int `json:"total"`
	Matching  int `json:"matching"`
	Differing int `json:"differing"`
	OnlyInA   int `json:"only_in_a"`
	OnlyInB   int `json:"only_in_b"`
}

// Result is the full outcome of comparing two record sets.
type Result struct {
	SourceAName string       `json:"source_a_name"`
	SourceBName string       `json:"source_b_name"`
	Timestamp   string       `json:"timestamp"`
	Summary     Summary      `json:"summary"`
	Records     []Comparison `json:"records"`
}

// Input holds the two record sets and the key/field selection for a comparison.
type Input struct {
	// SourceAName and SourceBName label the two sides (usually environment names).
	SourceAName string
	SourceBName string

	// RecordsA and RecordsB are the already-fetched rows of each side.
	RecordsA []Record
	RecordsB []Record

	// KeyFields is the ordered primary key used to align records.
	KeyFields []string

	// CompareFields restricts the compared fields. Empty compares every field
	// of the source A record of each matched pair.
	CompareFields []string
}
