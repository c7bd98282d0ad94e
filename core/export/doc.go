// Package export serializes comparison results to JSON or CSV.
//
// JSON output is the full result, indented with two spaces. CSV output lists
// only field differences:
//
//	primary_key,status,field,value_a,value_b
//	"1",differ,"value","old","new"
//
// Any other format fails with *UnsupportedFormatError.
package export
