package textdiff

import "strings"

// editScript returns the shortest edit script turning a into b.
func editScript(a, b []rune) []op {
	trace := shortestEdit(a, b)
	return backtrack(trace, a, b)
}

// shortestEdit runs the forward Myers pass. It returns one snapshot of the
// furthest-reaching x per diagonal for every edit distance d, taken before
// round d is computed. The last snapshot belongs to the minimal distance.
func shortestEdit(a, b []rune) [][]int {
	n, m := len(a), len(b)
	limit := n + m
	offset := limit + 1

	v := make([]int, 2*limit+3)
	var trace [][]int

	for d := 0; d <= limit; d++ {
		snapshot := make([]int, len(v))
		copy(snapshot, v)
		trace = append(trace, snapshot)

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k

			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}

			v[offset+k] = x

			if x >= n && y >= m {
				return trace
			}
		}
	}

	return trace
}

// backtrack walks the snapshots from the end point back to the origin and
// returns the forward edit script.
func backtrack(trace [][]int, a, b []rune) []op {
	x, y := len(a), len(b)
	offset := len(a) + len(b) + 1
	script := make([]op, 0, len(a)+len(b))

	for d := len(trace) - 1; d > 0; d-- {
		v := trace[d]
		k := x - y

		var prevK int
		if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}

		prevX := v[offset+prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			script = append(script, opEqual)
			x--
			y--
		}

		if x == prevX {
			script = append(script, opInsert)
		} else {
			script = append(script, opDelete)
		}

		x, y = prevX, prevY
	}

	// d == 0: whatever is left is a shared prefix.
	for x > 0 && y > 0 {
		script = append(script, opEqual)
		x--
		y--
	}

	for i, j := 0, len(script)-1; i < j; i, j = i+1, j-1 {
		script[i], script[j] = script[j], script[i]
	}

	return script
}

// coalesce folds the edit script into per-side chunk runs.
func coalesce(script []op, a, b []rune) (left, right []Chunk) {
	var (
		leftBuf   strings.Builder
		rightBuf  strings.Builder
		leftKind  Kind
		rightKind Kind
		i, j      int
	)

	flushLeft := func() {
		left = appendChunk(left, leftBuf.String(), leftKind)
		leftBuf.Reset()
	}
	flushRight := func() {
		right = appendChunk(right, rightBuf.String(), rightKind)
		rightBuf.Reset()
	}

	for _, step := range script {
		switch step {
		case opEqual:
			if leftKind != Same {
				flushLeft()
				leftKind = Same
			}
			if rightKind != Same {
				flushRight()
				rightKind = Same
			}
			leftBuf.WriteRune(a[i])
			rightBuf.WriteRune(b[j])
			i++
			j++
		case opDelete:
			if leftKind != Removed {
				flushLeft()
				leftKind = Removed
			}
			leftBuf.WriteRune(a[i])
			i++
		case opInsert:
			if rightKind != Added {
				flushRight()
				rightKind = Added
			}
			rightBuf.WriteRune(b[j])
			j++
		}
	}

	flushLeft()
	flushRight()

	return left, right
}
