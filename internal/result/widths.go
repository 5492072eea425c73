package result

// MinBarWidth is the smallest width a non-empty bar segment is drawn with.
const MinBarWidth = 9.0

// Widths are the proportional bar-chart widths of the three buckets.
// They always sum to the same total as the percentages they came from.
type Widths struct {
	Passed  float64
	Skipped float64
	Failed  float64
}

// bucket order used for every tie-break below: passed, skipped, failed.
const (
	bucketPassed = iota
	bucketSkipped
	bucketFailed
)

// AllocateWidths widens small non-zero buckets to min, taking the width from
// the larger ones. The cases are evaluated in this order:
//
//	any bucket == 0       raw percentages
//	3 below min           raw percentages
//	2 below, 1 above      both pinned to min, the excess taken from the one
//	                      above; clipped at min with the overflow taken from
//	                      the second below bucket
//	1 below, 2 above      pinned to min, the excess taken from the first above
//	                      bucket; clipped at min with the overflow taken from
//	                      the other above bucket
//	0 below               raw percentages
func AllocateWidths(passed, skipped, failed, min float64) Widths {
	w := [3]float64{passed, skipped, failed}
	if passed == 0 || skipped == 0 || failed == 0 {
		return widthsOf(w)
	}

	var below, above []int
	for _, i := range []int{bucketPassed, bucketSkipped, bucketFailed} {
		if w[i] < min {
			below = append(below, i)
		} else {
			above = append(above, i)
		}
	}

	switch len(below) {
	case 2:
		excess := (min - w[below[0]]) + (min - w[below[1]])
		w[below[0]], w[below[1]] = min, min
		takeWithFallback(&w, above[0], below[1], excess, min)
	case 1:
		excess := min - w[below[0]]
		w[below[0]] = min
		takeWithFallback(&w, above[0], above[1], excess, min)
	}
	return widthsOf(w)
}

// takeWithFallback removes amount from w[from] without letting it drop below
// min; whatever cannot be taken there is taken from w[fallback].
func takeWithFallback(w *[3]float64, from, fallback int, amount, min float64) {
	w[from] -= amount
	if w[from] < min {
		overflow := min - w[from]
		w[from] = min
		w[fallback] -= overflow
	}
}

func widthsOf(w [3]float64) Widths {
	return Widths{Passed: w[bucketPassed], Skipped: w[bucketSkipped], Failed: w[bucketFailed]}
}
