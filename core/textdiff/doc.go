// Package textdiff computes character-level differences between two strings
// and returns them as highlighted chunk sequences, one per side.
//
// # Algorithm
//
// Diff first measures how similar the inputs are (longest common subsequence
// length divided by the longer length). Pairs below SimilarityThreshold are
// reported as a wholesale replacement, which reads better than a fragmented
// diff and bounds the cost for unrelated long values.
//
// Similar pairs go through the Myers shortest edit script algorithm. The
// furthest-reaching array is snapshotted for every edit distance and the
// script is recovered by walking those snapshots backwards, without
// recursion. The script is then coalesced into maximal runs:
//   - the left side contains Same and Removed chunks
//   - the right side contains Same and Added chunks
//
// Concatenating the chunk texts of a side always reproduces that side's input.
//
// # Cost
//
// The similarity check is O(len(a)*len(b)) time. Callers comparing large
// text values should cap them before calling Diff.
//
// # Usage
//
//	left, right := textdiff.Diff("ABC", "ABCD")
//	// left  = [Same "ABC"]
//	// right = [Same "ABC", Added "D"]
package textdiff
