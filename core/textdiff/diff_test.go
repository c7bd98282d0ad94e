package textdiff

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func join(chunks []Chunk) string {
	var sb strings.Builder
	for _, c := range chunks {
		sb.WriteString(c.Text)
	}
	return sb.String()
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name      string
		a, b      string
		wantLeft  []Chunk
		wantRight []Chunk
	}{
		{
			name:      "Appended character",
			a:         "ABC",
			b:         "ABCD",
			wantLeft:  []Chunk{{Text: "ABC", Kind: Same}},
			wantRight: []Chunk{{Text: "ABC", Kind: Same}, {Text: "D", Kind: Added}},
		},
		{
			name:      "Unrelated strings are replaced wholesale",
			a:         "hello world",
			b:         "goodbye universe",
			wantLeft:  []Chunk{{Text: "hello world", Kind: Removed}},
			wantRight: []Chunk{{Text: "goodbye universe", Kind: Added}},
		},
		{
			name:      "Removed middle",
			a:         "timeout=30s",
			b:         "timeout=3s",
			wantLeft:  []Chunk{{Text: "timeout=3", Kind: Same}, {Text: "0", Kind: Removed}, {Text: "s", Kind: Same}},
			wantRight: []Chunk{{Text: "timeout=3s", Kind: Same}},
		},
		{
			name:      "Replaced suffix",
			a:         "http://dev.local",
			b:         "http://qa.local",
			wantLeft:  []Chunk{{Text: "http://", Kind: Same}, {Text: "dev", Kind: Removed}, {Text: ".local", Kind: Same}},
			wantRight: []Chunk{{Text: "http://", Kind: Same}, {Text: "qa", Kind: Added}, {Text: ".local", Kind: Same}},
		},
		{
			name:      "One side empty",
			a:         "",
			b:         "value",
			wantLeft:  nil,
			wantRight: []Chunk{{Text: "value", Kind: Added}},
		},
		{
			name:      "Both empty",
			a:         "",
			b:         "",
			wantLeft:  nil,
			wantRight: nil,
		},
		{
			name:      "Identical",
			a:         "same",
			b:         "same",
			wantLeft:  []Chunk{{Text: "same", Kind: Same}},
			wantRight: []Chunk{{Text: "same", Kind: Same}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left, right := Diff(tt.a, tt.b)
			if d := cmp.Diff(tt.wantLeft, left); d != "" {
				t.Errorf("left chunks mismatch (-want +got):\n%s", d)
			}
			if d := cmp.Diff(tt.wantRight, right); d != "" {
				t.Errorf("right chunks mismatch (-want +got):\n%s", d)
			}
		})
	}
}

func TestDiff_Reconstructs(t *testing.T) {
	pairs := [][2]string{
		{"ABC", "ABCD"},
		{"kitten", "sitting"},
		{"SELECT a FROM t", "SELECT a, b FROM t WHERE x"},
		{"héllo wörld", "hello world"},
		{"max_pool=10;min_pool=2", "max_pool=12;min_pool=2;idle=5"},
		{"true", "false"},
		{"NULL", "0"},
	}

	for _, p := range pairs {
		left, right := Diff(p[0], p[1])
		assert.Equal(t, p[0], join(left), "left side of %q/%q", p[0], p[1])
		assert.Equal(t, p[1], join(right), "right side of %q/%q", p[0], p[1])

		for _, c := range left {
			assert.NotEqual(t, Added, c.Kind)
			assert.NotEmpty(t, c.Text)
		}
		for _, c := range right {
			assert.NotEqual(t, Removed, c.Kind)
			assert.NotEmpty(t, c.Text)
		}
	}
}

func TestDiff_ChunksAreMerged(t *testing.T) {
	left, right := Diff("aaaabbbbcccc", "aaaaxxxxcccc")
	for _, side := range [][]Chunk{left, right} {
		for i := 1; i < len(side); i++ {
			assert.NotEqual(t, side[i-1].Kind, side[i].Kind, "adjacent chunks share a kind")
		}
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 0.0, Similarity("", "x"))
	assert.Equal(t, 0.0, Similarity("x", ""))
	assert.Equal(t, 0.75, Similarity("ABC", "ABCD"))
	assert.Less(t, Similarity("hello world", "goodbye universe"), SimilarityThreshold)
}

func TestLCSLength(t *testing.T) {
	assert.Equal(t, 0, LCSLength(nil, []rune("abc")))
	assert.Equal(t, 3, LCSLength([]rune("ABC"), []rune("ABCD")))
	assert.Equal(t, 4, LCSLength([]rune("kitten"), []rune("sitting")))
	assert.Equal(t, 3, LCSLength([]rune("hello world"), []rune("goodbye universe")))
}

func TestEditScript_IsMinimal(t *testing.T) {
	a, b := []rune("kitten"), []rune("sitting")
	script := editScript(a, b)

	edits := 0
	for _, s := range script {
		if s != opEqual {
			edits++
		}
	}
	// n + m - 2*LCS
	assert.Equal(t, len(a)+len(b)-2*LCSLength(a, b), edits)
}
