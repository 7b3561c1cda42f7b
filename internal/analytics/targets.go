package analytics

import (
	"math"

	"github.com/salonops/repeat-insight/internal/cohort"
)

// targetComparison compares three stage actuals against the caller's
// targets: first-repeat rate over the whole cohort, then the stage-to-
// stage continuations into the third and fourth visit.
func targetComparison(repeats []cohort.RepeatRecord, targets TargetRates) TargetComparison {
	total := len(repeats)
	second := countAtLeast(repeats, 1)
	third := countAtLeast(repeats, 2)
	fourth := countAtLeast(repeats, 3)

	actual := TargetRates{
		FirstRepeat:  ratio(float64(second), float64(total)),
		SecondRepeat: ratio(float64(third), float64(second)),
		ThirdRepeat:  ratio(float64(fourth), float64(third)),
	}

	achievement := TargetRates{
		FirstRepeat:  ratio(actual.FirstRepeat, targets.FirstRepeat),
		SecondRepeat: ratio(actual.SecondRepeat, targets.SecondRepeat),
		ThirdRepeat:  ratio(actual.ThirdRepeat, targets.ThirdRepeat),
	}
	overall := (achievement.FirstRepeat + achievement.SecondRepeat + achievement.ThirdRepeat) / 3

	tc := TargetComparison{
		TargetRates: targets,
		ActualRates: TargetRates{
			FirstRepeat:  round1(actual.FirstRepeat),
			SecondRepeat: round1(actual.SecondRepeat),
			ThirdRepeat:  round1(actual.ThirdRepeat),
		},
		AchievementRates: TargetRates{
			FirstRepeat:  round1(achievement.FirstRepeat),
			SecondRepeat: round1(achievement.SecondRepeat),
			ThirdRepeat:  round1(achievement.ThirdRepeat),
		},
		OverallAchievement: round1(overall),
	}

	tc.RequiredAdditional.FirstRepeat = stageGap(targets.FirstRepeat, total, second)
	tc.RequiredAdditional.SecondRepeat = stageGap(targets.SecondRepeat, second, third)
	tc.RequiredAdditional.ThirdRepeat = stageGap(targets.ThirdRepeat, third, fourth)
	return tc
}

// stageGap computes how many more customers the stage needs to hit its
// target rate at the current base size.
func stageGap(targetRate float64, base, current int) StageGap {
	targetCount := float64(base) * targetRate / 100
	additional := math.Max(0, targetCount-float64(current))
	return StageGap{
		TargetCount:      int(math.Round(targetCount)),
		CurrentCount:     current,
		AdditionalNeeded: int(math.Round(additional)),
	}
}
