package textdiff

// SimilarityThreshold is the similarity below which two strings are reported
// as a wholesale replacement instead of a fine-grained diff.
const SimilarityThreshold = 0.3

// Kind tags a chunk as unchanged, inserted on the right or deleted on the left.
type Kind string

const (
	// Same marks text present on both sides.
	Same Kind = "same"
	// Added marks text present only on the right side.
	Added Kind = "added"
	// Removed marks text present only on the left side.
	Removed Kind = "removed"
)

// Chunk is a maximal run of characters sharing the same Kind.
type Chunk struct {
	Text string `json:"text"`
	Kind Kind   `json:"kind"`
}

// op is a single edit script step.
type op uint8

const (
	opEqual op = iota
	opInsert
	opDelete
)

// Diff returns the highlighted chunks for a (left) and b (right).
func Diff(a, b string) (left, right []Chunk) {
	ra, rb := []rune(a), []rune(b)

	if similarity(ra, rb) < SimilarityThreshold {
		return wholesale(a, b)
	}

	script := editScript(ra, rb)
	return coalesce(script, ra, rb)
}

// Similarity returns the LCS length of a and b divided by the longer length.
// Two empty strings are fully similar; one empty string is fully dissimilar.
func Similarity(a, b string) float64 {
	return similarity([]rune(a), []rune(b))
}

func similarity(a, b []rune) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	longest := max(len(a), len(b))
	return float64(LCSLength(a, b)) / float64(longest)
}

// LCSLength returns the length of the longest common subsequence of a and b.
// Only the length is computed, so two table rows are enough.
func LCSLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func wholesale(a, b string) (left, right []Chunk) {
	if a == b {
		return appendChunk(nil, a, Same), appendChunk(nil, b, Same)
	}
	return appendChunk(nil, a, Removed), appendChunk(nil, b, Added)
}

// appendChunk appends a chunk, dropping empty text.
func appendChunk(chunks []Chunk, text string, kind Kind) []Chunk {
	if text == "" {
		return chunks
	}
	return append(chunks, Chunk{Text: text, Kind: kind})
}
