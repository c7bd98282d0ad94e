// Package compare aligns two sets of records fetched from different
// environments and reports how they differ.
//
// The package is the pure core of envcompare: it never fetches data, opens
// connections or keeps state between calls. Callers hand it two record
// slices plus a key/field selection and get back a Result that can be shown
// directly or passed to the export package.
//
// # Architecture
//
//  1. Index: every record is mapped by its composite key (key field values
//     rendered as text and joined with "::"). Duplicate keys within a source
//     keep the last record.
//  2. Union: keys of both indices are visited once, in sorted order.
//  3. Classify: keys present on both sides are compared field by field
//     (DiffFields) and become match or differ; the rest are only_in_source_a
//     or only_in_source_b.
//  4. Order: non-matching records first, matching records last, each group
//     sorted by display key.
//
// Differing values are highlighted with core/textdiff.
//
// # Values
//
// Field values are a tagged union (Value) of null, string, number, bool,
// array and object. Equality is type-aware: the number 1 never equals the
// string "1". A field missing from a record is distinct from an explicit null.
//
// # Usage
//
//	engine := compare.New(compare.Options{Logger: log})
//	result := engine.Compare(compare.Input{
//	    SourceAName: "staging",
//	    SourceBName: "production",
//	    RecordsA:    stagingRows,
//	    RecordsB:    productionRows,
//	    KeyFields:   []string{"id"},
//	})
package compare
