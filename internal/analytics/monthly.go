package analytics

import (
	"sort"

	"github.com/salonops/repeat-insight/internal/cohort"
)

// monthlyAnalysis groups the cohort by calendar month of first visit and
// reports each month's size and first-repeat rate.
func monthlyAnalysis(repeats []cohort.RepeatRecord) MonthlyAnalysis {
	type bucket struct {
		total     int
		repeaters int
	}
	byMonth := make(map[string]*bucket)
	for _, r := range repeats {
		month := r.FirstVisit.Format("2006-01")
		b := byMonth[month]
		if b == nil {
			b = &bucket{}
			byMonth[month] = b
		}
		b.total++
		if r.RepeatCount >= 1 {
			b.repeaters++
		}
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	out := MonthlyAnalysis{Months: make([]MonthlyStat, 0, len(months))}
	for _, m := range months {
		b := byMonth[m]
		out.Months = append(out.Months, MonthlyStat{
			Month:        m,
			NewCustomers: b.total,
			Repeaters:    b.repeaters,
			RepeatRate:   pct(b.repeaters, b.total),
		})
	}
	return out
}
