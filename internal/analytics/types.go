package analytics

// Params are the inputs of one analysis run. Dates are YYYY-MM-DD strings
// at this boundary (the shell passes them straight from the request) and
// are validated before any computation.
type Params struct {
	NewCustomerStart    string      `json:"new_customer_start"`
	NewCustomerEnd      string      `json:"new_customer_end"`
	RepeatAnalysisEnd   string      `json:"repeat_analysis_end"`
	MinRepeatCount      int         `json:"min_repeat_count"`
	MinStylistCustomers int         `json:"min_stylist_customers"`
	MinCouponCustomers  int         `json:"min_coupon_customers"`
	TargetRates         TargetRates `json:"target_rates"`

	// Error is the empty-result marker: set when the run completed but the
	// window contained no new customers. Callers branch on this, not on a
	// returned error.
	Error string `json:"error,omitempty"`
}

// TargetRates are the per-stage target percentages.
type TargetRates struct {
	FirstRepeat  float64 `json:"first_repeat"`
	SecondRepeat float64 `json:"second_repeat"`
	ThirdRepeat  float64 `json:"third_repeat"`
}

// withDefaults fills unset parameters with the documented defaults.
func (p Params) withDefaults() Params {
	if p.MinRepeatCount == 0 {
		p.MinRepeatCount = 3
	}
	if p.MinStylistCustomers == 0 {
		p.MinStylistCustomers = 10
	}
	if p.MinCouponCustomers == 0 {
		p.MinCouponCustomers = 5
	}
	if p.TargetRates == (TargetRates{}) {
		p.TargetRates = TargetRates{FirstRepeat: 35.0, SecondRepeat: 45.0, ThirdRepeat: 60.0}
	}
	return p
}

// AnalysisResult bundles the seven analytic views plus the echoed
// parameters. It is immutable once returned: presentation collaborators
// read it, never write it.
type AnalysisResult struct {
	Empty            bool             `json:"empty"`
	BasicStats       BasicStats       `json:"basic_stats"`
	FunnelAnalysis   FunnelAnalysis   `json:"funnel_analysis"`
	StylistAnalysis  SegmentAnalysis  `json:"stylist_analysis"`
	CouponAnalysis   SegmentAnalysis  `json:"coupon_analysis"`
	TargetComparison TargetComparison `json:"target_comparison"`
	PeriodAnalysis   PeriodAnalysis   `json:"period_analysis"`
	MonthlyAnalysis  MonthlyAnalysis  `json:"monthly_analysis"`
	Parameters       Params           `json:"parameters"`
}

// BasicStats is the headline view.
type BasicStats struct {
	TotalNewCustomers  int     `json:"total_new_customers"`
	XPlusRepeaters     int     `json:"x_plus_repeaters"`
	XPlusRate          float64 `json:"x_plus_rate"`
	FirstRepeaters     int     `json:"first_repeaters"`
	FirstRepeatRate    float64 `json:"first_repeat_rate"`
	AvgRepeatAll       float64 `json:"avg_repeat_all"`
	AvgRepeatRepeaters float64 `json:"avg_repeat_repeaters"`
	MinRepeatCount     int     `json:"min_repeat_count"`
}

// FunnelStage is one retention stage. Continuation is the count as a
// percentage of the previous stage's count; it is 0 for the first stage.
type FunnelStage struct {
	Name         string  `json:"name"`
	Count        int     `json:"count"`
	Share        float64 `json:"share"`
	Continuation float64 `json:"continuation_rate"`
}

// DistributionBin is one repeat-count histogram bin with its cumulative
// share of the whole cohort.
type DistributionBin struct {
	RepeatCount   int     `json:"repeat_count"`
	Customers     int     `json:"customers"`
	CumulativePct float64 `json:"cumulative_pct"`
}

// FunnelAnalysis is the retention funnel view.
type FunnelAnalysis struct {
	Stages       []FunnelStage     `json:"stages"`
	Distribution []DistributionBin `json:"repeat_distribution"`
}

// SegmentStats are the repeat metrics of one stylist or coupon group.
type SegmentStats struct {
	Name               string  `json:"name"`
	TotalCustomers     int     `json:"total_customers"`
	XPlusRepeaters     int     `json:"x_plus_repeaters"`
	XPlusRate          float64 `json:"x_plus_rate"`
	FirstRepeaters     int     `json:"first_repeaters"`
	FirstRepeatRate    float64 `json:"first_repeat_rate"`
	AvgRepeat          float64 `json:"avg_repeat"`
	AvgRepeatRepeaters float64 `json:"avg_repeat_repeaters"`
}

// TopSegment names the best-performing qualifying group, or the
// not-applicable sentinel when no group passes the size filter.
type TopSegment struct {
	Name      string  `json:"name"`
	Rate      float64 `json:"rate"`
	AvgRepeat float64 `json:"avg_repeat"`
}

// SegmentAnalysis is the stylist or coupon segmentation view.
type SegmentAnalysis struct {
	Stats               []SegmentStats `json:"stats"`
	Top                 TopSegment     `json:"top"`
	TotalXPlusRepeaters int            `json:"total_x_plus_repeaters"`
	MinCustomersFilter  int            `json:"min_customers_filter"`
}

// StageGap is the customer count needed to reach a stage target at the
// current base size.
type StageGap struct {
	TargetCount      int `json:"target_count"`
	CurrentCount     int `json:"current_count"`
	AdditionalNeeded int `json:"additional_needed"`
}

// TargetComparison is the target-vs-actual view. Achievement rates may
// exceed 100 when the actual beats the target.
type TargetComparison struct {
	TargetRates        TargetRates `json:"target_rates"`
	ActualRates        TargetRates `json:"actual_rates"`
	AchievementRates   TargetRates `json:"achievement_rates"`
	OverallAchievement float64     `json:"overall_achievement"`
	RequiredAdditional struct {
		FirstRepeat  StageGap `json:"first_repeat"`
		SecondRepeat StageGap `json:"second_repeat"`
		ThirdRepeat  StageGap `json:"third_repeat"`
	} `json:"required_additional"`
}

// PeriodBand is one fixed days-to-first-repeat band.
type PeriodBand struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// PeriodAnalysis is the time-to-repeat distribution among customers that
// repeated at least once.
type PeriodAnalysis struct {
	AvgDays      float64      `json:"avg_days"`
	MedianDays   float64      `json:"median_days"`
	MinDays      int          `json:"min_days"`
	MaxDays      int          `json:"max_days"`
	Distribution []PeriodBand `json:"period_distribution"`
}

// MonthlyStat is one calendar month of first visits with its first-repeat
// rate.
type MonthlyStat struct {
	Month        string  `json:"month"`
	NewCustomers int     `json:"new_customers"`
	Repeaters    int     `json:"repeaters"`
	RepeatRate   float64 `json:"repeat_rate"`
}

// MonthlyAnalysis is the monthly trend view, months ascending.
type MonthlyAnalysis struct {
	Months []MonthlyStat `json:"months"`
}
