package fuzzy

import "github.com/baditaflorin/go_nlpurify/internal/pool"

var (
	rows     = pool.NewRowPool()
	runeBufs = pool.NewRuneBufferPool(128)
)

// Levenshtein returns the unit-cost edit distance between a and b over code points.
// It keeps a single row sized to the shorter input.
func Levenshtein(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	if len(b) == 0 {
		return len(a)
	}

	rowp := rows.Get(len(b) + 1)
	defer rows.Put(rowp)
	row := *rowp
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(a); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			above := row[j]
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			row[j] = min(above+1, row[j-1]+1, diag+cost)
			diag = above
		}
	}
	return row[len(b)]
}

// LCSLength returns the length of the longest common subsequence of a and b.
func LCSLength(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	if len(b) == 0 {
		return 0
	}

	rowp := rows.Get(len(b) + 1)
	defer rows.Put(rowp)
	row := *rowp

	for i := 1; i <= len(a); i++ {
		diag := 0
		for j := 1; j <= len(b); j++ {
			above := row[j]
			switch {
			case a[i-1] == b[j-1]:
				row[j] = diag + 1
			case row[j-1] > above:
				row[j] = row[j-1]
			}
			diag = above
		}
	}
	return row[len(b)]
}

// withRunes decodes both strings into pooled rune buffers for the duration of fn.
func withRunes(a, b string, fn func(ra, rb []rune) float64) float64 {
	ra := runeBufs.Get(a)
	defer runeBufs.Put(ra)
	rb := runeBufs.Get(b)
	defer runeBufs.Put(rb)
	return fn(*ra, *rb)
}
