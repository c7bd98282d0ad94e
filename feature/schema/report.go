package schema

import (
	"fmt"

	"envcompare/core/compare"
	"envcompare/core/database"
)

// Column attributes compared between environments.
const (
	FieldColumn   = "column"
	FieldType     = "type"
	FieldNullable = "nullable"
	FieldKey      = "key"
	FieldDefault  = "default"
	FieldExtra    = "extra"
)

var comparedFields = []string{FieldType, FieldNullable, FieldKey, FieldDefault, FieldExtra}

// Report is the outcome of comparing a table definition between two environments.
type Report struct {
	Table          string          `json:"table"`
	Matched        bool            `json:"matched"`
	MissingInA     []string        `json:"missing_in_a"`
	MissingInB     []string        `json:"missing_in_b"`
	TypeMismatches []string        `json:"type_mismatches"`
	Result         *compare.Result `json:"result"`
}

// ColumnRecords turns column definitions into records keyed by column name.
func ColumnRecords(columns []database.ColumnInfo) []compare.Record {
	records := make([]compare.Record, 0, len(columns))
	for _, col := range columns {
		def := compare.Null()
		if col.Default != nil {
			def = compare.String(*col.Default)
		}
		records = append(records, compare.NewRecord(
			compare.Field{Name: FieldColumn, Value: compare.String(col.Field)},
			compare.Field{Name: FieldType, Value: compare.String(col.Type)},
			compare.Field{Name: FieldNullable, Value: compare.Bool(col.Null == "YES")},
			compare.Field{Name: FieldKey, Value: compare.String(col.Key)},
			compare.Field{Name: FieldDefault, Value: def},
			compare.Field{Name: FieldExtra, Value: compare.String(col.Extra)},
		))
	}
	return records
}

// BuildReport compares the column definitions of a and b with engine.
// Column order is not compared.
func BuildReport(engine *compare.Engine, a, b *database.TableMetadata) *Report {
	result := engine.Compare(compare.Input{
		SourceAName:   a.Environment,
		SourceBName:   b.Environment,
		RecordsA:      ColumnRecords(a.Columns),
		RecordsB:      ColumnRecords(b.Columns),
		KeyFields:     []string{FieldColumn},
		CompareFields: comparedFields,
	})

	report := &Report{
		Table:          a.Table,
		MissingInA:     []string{},
		MissingInB:     []string{},
		TypeMismatches: []string{},
		Result:         result,
	}

	for _, rec := range result.Records {
		switch rec.Status {
		case compare.StatusOnlyInSourceA:
			report.MissingInB = append(report.MissingInB, columnName(rec))
		case compare.StatusOnlyInSourceB:
			report.MissingInA = append(report.MissingInA, columnName(rec))
		case compare.StatusDiffer:
			for _, diff := range rec.Differences {
				if diff.FieldName != FieldType {
					continue
				}
				report.TypeMismatches = append(report.TypeMismatches,
					fmt.Sprintf("%s: %s has %s, %s has %s",
						columnName(rec), a.Environment, deref(diff.ValueA), b.Environment, deref(diff.ValueB)))
			}
		}
	}

	report.Matched = result.Summary.Matching == result.Summary.Total
	return report
}

// columnName reads the column from the record data, since long names are
// shown as row labels.
func columnName(rec compare.Comparison) string {
	for _, data := range []*compare.Record{rec.DataA, rec.DataB} {
		if data == nil {
			continue
		}
		if v, ok := data.Get(FieldColumn); ok {
			return v.Text()
		}
	}
	return rec.DisplayKey
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
