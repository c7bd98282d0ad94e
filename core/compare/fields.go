package compare

import "envcompare/core/textdiff"

// DiffFields compares the given fields of a matched pair and returns one
// entry per differing field. With no fields, the names of a are used.
// An absent field differs from every present value, null included.
func DiffFields(a, b Record, fields []string) []FieldDifference {
	if len(fields) == 0 {
		fields = a.Names()
	}

	diffs := []FieldDifference{}
	for _, field := range fields {
		va, okA := a.Get(field)
		vb, okB := b.Get(field)

		if okA == okB && (!okA || va.Equal(vb)) {
			continue
		}

		textA := renderOptional(va, okA)
		textB := renderOptional(vb, okB)
		chunksA, chunksB := textdiff.Diff(textA, textB)

		diff := FieldDifference{
			FieldName: field,
			ChunksA:   nonNil(chunksA),
			ChunksB:   nonNil(chunksB),
		}
		if okA {
			diff.ValueA = &textA
		}
		if okB {
			diff.ValueB = &textB
		}
		diffs = append(diffs, diff)
	}

	return diffs
}

func renderOptional(v Value, present bool) string {
	if !present {
		return ""
	}
	return v.Text()
}

func nonNil(chunks []textdiff.Chunk) []textdiff.Chunk {
	if chunks == nil {
		return []textdiff.Chunk{}
	}
	return chunks
}
