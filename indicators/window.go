package indicators

// push appends v to window, dropping the oldest values beyond n
func push(window []float64, v float64, n int) []float64 {
	if len(window) < n {
		return append(window, v)
	}
	copy(window, window[1:])
	window[len(window)-1] = v
	return window
}

// flat reports whether every value in window equals the first. A flat window
// has an exact mean and no deviation, which summing can lose to rounding.
func flat(window []float64) bool {
	for i := 1; i < len(window); i++ {
		if window[i] != window[0] {
			return false
		}
	}
	return len(window) > 0
}
