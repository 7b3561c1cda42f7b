package analytics

import "math"

// round1 rounds to one decimal place; every percentage and mean in the
// result goes through it.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// pct returns part/total as a percentage, 0 when total is 0.
func pct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(part) / float64(total) * 100)
}

// ratio returns a/b*100 unrounded, 0 when b is 0. Callers round once at
// the end so intermediate stages do not accumulate rounding error.
func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b * 100
}

// meanInts returns the mean of the values, 0 for an empty set.
func meanInts(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}
