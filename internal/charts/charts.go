package charts

import (
	"fmt"

	"github.com/salonops/repeat-insight/internal/analytics"
)

// Chart is a renderer-agnostic chart config in the Chart.js shape the
// dashboard front end consumes.
type Chart struct {
	Type     string    `json:"type"`
	Title    string    `json:"title"`
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset is one series within a chart.
type Dataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
	Kind  string    `json:"kind,omitempty"` // overrides Chart.Type for mixed charts
	Axis  string    `json:"axis,omitempty"` // secondary axis marker
}

// Card is one headline number on the dashboard.
type Card struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Dashboard bundles every chart plus the headline cards.
type Dashboard struct {
	Cards  []Card           `json:"cards"`
	Charts map[string]Chart `json:"charts"`
}

// chart type names accepted by Get.
const (
	TypeFunnel       = "funnel"
	TypeDistribution = "distribution"
	TypeStylist      = "stylist"
	TypeCoupon       = "coupon"
	TypeTargets      = "targets"
	TypePeriods      = "periods"
	TypeMonthly      = "monthly"
)

// Get returns one named chart for a result.
func Get(chartType string, result *analytics.AnalysisResult) (Chart, error) {
	switch chartType {
	case TypeFunnel:
		return Funnel(result), nil
	case TypeDistribution:
		return Distribution(result), nil
	case TypeStylist:
		return Stylist(result), nil
	case TypeCoupon:
		return Coupon(result), nil
	case TypeTargets:
		return Targets(result), nil
	case TypePeriods:
		return Periods(result), nil
	case TypeMonthly:
		return Monthly(result), nil
	default:
		return Chart{}, fmt.Errorf("unknown chart type %q", chartType)
	}
}

// Build assembles the full dashboard payload.
func Build(result *analytics.AnalysisResult) Dashboard {
	return Dashboard{
		Cards: SummaryCards(result),
		Charts: map[string]Chart{
			TypeFunnel:       Funnel(result),
			TypeDistribution: Distribution(result),
			TypeStylist:      Stylist(result),
			TypeCoupon:       Coupon(result),
			TypeTargets:      Targets(result),
			TypePeriods:      Periods(result),
			TypeMonthly:      Monthly(result),
		},
	}
}

// SummaryCards builds the headline numbers row.
func SummaryCards(result *analytics.AnalysisResult) []Card {
	b := result.BasicStats
	return []Card{
		{Label: "New customers", Value: fmt.Sprintf("%d", b.TotalNewCustomers)},
		{Label: fmt.Sprintf("%d+ repeat rate", b.MinRepeatCount), Value: fmt.Sprintf("%.1f%%", b.XPlusRate)},
		{Label: "First repeat rate", Value: fmt.Sprintf("%.1f%%", b.FirstRepeatRate)},
		{Label: "Avg repeats", Value: fmt.Sprintf("%.1f", b.AvgRepeatAll)},
	}
}

// Funnel is the stage-count bar chart.
func Funnel(result *analytics.AnalysisResult) Chart {
	var labels []string
	var counts []float64
	for _, s := range result.FunnelAnalysis.Stages {
		labels = append(labels, s.Name)
		counts = append(counts, float64(s.Count))
	}
	return Chart{
		Type:   "bar",
		Title:  "Retention funnel",
		Labels: labels,
		Datasets: []Dataset{
			{Label: "Customers", Data: counts},
		},
	}
}

// Distribution is the repeat-count histogram with the cumulative curve on
// a secondary axis.
func Distribution(result *analytics.AnalysisResult) Chart {
	var labels []string
	var counts, cumulative []float64
	for _, bin := range result.FunnelAnalysis.Distribution {
		labels = append(labels, fmt.Sprintf("%d", bin.RepeatCount))
		counts = append(counts, float64(bin.Customers))
		cumulative = append(cumulative, bin.CumulativePct)
	}
	return Chart{
		Type:   "bar",
		Title:  "Repeat-count distribution",
		Labels: labels,
		Datasets: []Dataset{
			{Label: "Customers", Data: counts},
			{Label: "Cumulative %", Data: cumulative, Kind: "line", Axis: "y2"},
		},
	}
}

func segmentChart(title string, stats []analytics.SegmentStats) Chart {
	var labels []string
	var rates []float64
	for _, s := range stats {
		labels = append(labels, s.Name)
		rates = append(rates, s.XPlusRate)
	}
	return Chart{
		Type:   "bar",
		Title:  title,
		Labels: labels,
		Datasets: []Dataset{
			{Label: "Repeat rate %", Data: rates},
		},
	}
}

// Stylist ranks qualifying stylists by threshold-repeat rate.
func Stylist(result *analytics.AnalysisResult) Chart {
	return segmentChart("Repeat rate by stylist", result.StylistAnalysis.Stats)
}

// Coupon ranks qualifying coupons by threshold-repeat rate.
func Coupon(result *analytics.AnalysisResult) Chart {
	return segmentChart("Repeat rate by coupon", result.CouponAnalysis.Stats)
}

// Targets pairs actual and target rates per stage.
func Targets(result *analytics.AnalysisResult) Chart {
	tc := result.TargetComparison
	return Chart{
		Type:   "bar",
		Title:  "Target vs actual",
		Labels: []string{"first_repeat", "second_repeat", "third_repeat"},
		Datasets: []Dataset{
			{Label: "Actual %", Data: []float64{tc.ActualRates.FirstRepeat, tc.ActualRates.SecondRepeat, tc.ActualRates.ThirdRepeat}},
			{Label: "Target %", Data: []float64{tc.TargetRates.FirstRepeat, tc.TargetRates.SecondRepeat, tc.TargetRates.ThirdRepeat}},
		},
	}
}

// Periods is the time-to-first-repeat band pie.
func Periods(result *analytics.AnalysisResult) Chart {
	var labels []string
	var counts []float64
	for _, band := range result.PeriodAnalysis.Distribution {
		labels = append(labels, band.Label)
		counts = append(counts, float64(band.Count))
	}
	return Chart{
		Type:   "pie",
		Title:  "Days to first repeat",
		Labels: labels,
		Datasets: []Dataset{
			{Label: "Customers", Data: counts},
		},
	}
}

// Monthly is the new-customer trend line with the per-month repeat rate.
func Monthly(result *analytics.AnalysisResult) Chart {
	var labels []string
	var newCustomers, rates []float64
	for _, m := range result.MonthlyAnalysis.Months {
		labels = append(labels, m.Month)
		newCustomers = append(newCustomers, float64(m.NewCustomers))
		rates = append(rates, m.RepeatRate)
	}
	return Chart{
		Type:   "line",
		Title:  "Monthly new customers",
		Labels: labels,
		Datasets: []Dataset{
			{Label: "New customers", Data: newCustomers},
			{Label: "Repeat rate %", Data: rates, Axis: "y2"},
		},
	}
}
