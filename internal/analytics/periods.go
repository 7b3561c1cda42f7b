package analytics

import (
	"sort"

	"github.com/salonops/repeat-insight/internal/cohort"
)

// periodBands are the fixed days-to-first-repeat bands, in report order.
// Upper is inclusive; the final band is open-ended.
var periodBands = []struct {
	label string
	upper int
}{
	{"0-7", 7},
	{"8-14", 14},
	{"15-30", 30},
	{"31-60", 60},
	{"61-90", 90},
	{"91+", 1<<31 - 1},
}

// periodAnalysis summarizes how fast cohort customers came back, among
// those that came back at all.
func periodAnalysis(repeats []cohort.RepeatRecord) PeriodAnalysis {
	var days []int
	for _, r := range repeats {
		if r.DaysToFirstRepeat != nil {
			days = append(days, *r.DaysToFirstRepeat)
		}
	}

	result := PeriodAnalysis{Distribution: make([]PeriodBand, 0, len(periodBands))}
	if len(days) == 0 {
		for _, band := range periodBands {
			result.Distribution = append(result.Distribution, PeriodBand{Label: band.label})
		}
		return result
	}

	sorted := append([]int(nil), days...)
	sort.Ints(sorted)

	result.AvgDays = round1(meanInts(days))
	result.MedianDays = median(sorted)
	result.MinDays = sorted[0]
	result.MaxDays = sorted[len(sorted)-1]

	counts := make([]int, len(periodBands))
	for _, d := range days {
		for i, band := range periodBands {
			if d <= band.upper {
				counts[i]++
				break
			}
		}
	}
	for i, band := range periodBands {
		result.Distribution = append(result.Distribution, PeriodBand{
			Label:      band.label,
			Count:      counts[i],
			Percentage: pct(counts[i], len(days)),
		})
	}
	return result
}

// median of pre-sorted values, rounded to one decimal.
func median(sorted []int) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return round1(float64(sorted[n/2-1]+sorted[n/2]) / 2)
}
