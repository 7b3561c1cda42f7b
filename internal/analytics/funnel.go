package analytics

import (
	"sort"

	"github.com/salonops/repeat-insight/internal/cohort"
)

// stageNames are the funnel stages in order: arriving at all, then each
// successive repeat threshold up to the fifth visit.
var stageNames = []string{"first_visit", "second_visit", "third_visit", "fourth_visit", "fifth_visit"}

func funnelAnalysis(repeats []cohort.RepeatRecord) FunnelAnalysis {
	total := len(repeats)

	stages := make([]FunnelStage, 0, len(stageNames))
	prev := 0
	for i, name := range stageNames {
		count := countAtLeast(repeats, i) // stage i requires >= i repeats
		stage := FunnelStage{
			Name:  name,
			Count: count,
			Share: pct(count, total),
		}
		if i > 0 {
			stage.Continuation = pct(count, prev)
		}
		stages = append(stages, stage)
		prev = count
	}

	// Full repeat-count histogram with cumulative curve
	histogram := make(map[int]int)
	for _, r := range repeats {
		histogram[r.RepeatCount]++
	}
	counts := make([]int, 0, len(histogram))
	for c := range histogram {
		counts = append(counts, c)
	}
	sort.Ints(counts)

	bins := make([]DistributionBin, 0, len(counts))
	cumulative := 0
	for _, c := range counts {
		cumulative += histogram[c]
		bins = append(bins, DistributionBin{
			RepeatCount:   c,
			Customers:     histogram[c],
			CumulativePct: pct(cumulative, total),
		})
	}

	return FunnelAnalysis{Stages: stages, Distribution: bins}
}
