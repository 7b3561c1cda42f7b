package analytics

import (
	"sort"

	"github.com/salonops/repeat-insight/internal/cohort"
)

// Bucket labels for records with no segment value.
const (
	unknownStylist = "unknown"
	noCoupon       = "none"
)

func stylistAnalysis(repeats []cohort.RepeatRecord, minCustomers, minRepeatCount int) SegmentAnalysis {
	groups := groupBy(repeats, func(r cohort.RepeatRecord) string {
		if r.Stylist == "" {
			return unknownStylist
		}
		return r.Stylist
	})

	stats := segmentStats(groups, minCustomers, minRepeatCount)

	top := TopSegment{Name: NotApplicable}
	if len(stats) > 0 {
		top = TopSegment{Name: stats[0].Name, Rate: stats[0].XPlusRate}
	}

	return SegmentAnalysis{
		Stats: stats,
		Top:   top,
		// Grand total over the whole cohort, not just qualifying groups.
		TotalXPlusRepeaters: countAtLeast(repeats, minRepeatCount),
		MinCustomersFilter:  minCustomers,
	}
}

func couponAnalysis(repeats []cohort.RepeatRecord, minCustomers, minRepeatCount int) SegmentAnalysis {
	groups := groupBy(repeats, func(r cohort.RepeatRecord) string {
		if r.Coupon == "" {
			return noCoupon
		}
		return r.Coupon
	})

	stats := segmentStats(groups, minCustomers, minRepeatCount)

	top := TopSegment{Name: NotApplicable}
	if len(stats) > 0 {
		top = TopSegment{
			Name:      stats[0].Name,
			Rate:      stats[0].XPlusRate,
			AvgRepeat: stats[0].AvgRepeatRepeaters,
		}
	}

	return SegmentAnalysis{
		Stats:               stats,
		Top:                 top,
		TotalXPlusRepeaters: countAtLeast(repeats, minRepeatCount),
		MinCustomersFilter:  minCustomers,
	}
}

func groupBy(repeats []cohort.RepeatRecord, key func(cohort.RepeatRecord) string) map[string][]cohort.RepeatRecord {
	groups := make(map[string][]cohort.RepeatRecord)
	for _, r := range repeats {
		k := key(r)
		groups[k] = append(groups[k], r)
	}
	return groups
}

// segmentStats computes per-group metrics, drops groups below the size
// filter and ranks by threshold-repeat rate descending. Ties break on
// name so repeated runs order identically.
func segmentStats(groups map[string][]cohort.RepeatRecord, minCustomers, minRepeatCount int) []SegmentStats {
	var stats []SegmentStats
	for name, group := range groups {
		if len(group) < minCustomers {
			continue
		}

		var all, repeatersOnly []int
		for _, r := range group {
			all = append(all, r.RepeatCount)
			if r.RepeatCount > 0 {
				repeatersOnly = append(repeatersOnly, r.RepeatCount)
			}
		}

		stats = append(stats, SegmentStats{
			Name:               name,
			TotalCustomers:     len(group),
			XPlusRepeaters:     countAtLeast(group, minRepeatCount),
			XPlusRate:          pct(countAtLeast(group, minRepeatCount), len(group)),
			FirstRepeaters:     countAtLeast(group, 1),
			FirstRepeatRate:    pct(countAtLeast(group, 1), len(group)),
			AvgRepeat:          round1(meanInts(all)),
			AvgRepeatRepeaters: round1(meanInts(repeatersOnly)),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].XPlusRate != stats[j].XPlusRate {
			return stats[i].XPlusRate > stats[j].XPlusRate
		}
		return stats[i].Name < stats[j].Name
	})
	return stats
}
