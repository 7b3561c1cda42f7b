package analytics

import (
	"errors"
	"fmt"

	"github.com/salonops/repeat-insight/internal/cohort"
	"github.com/salonops/repeat-insight/internal/normalize"
	"github.com/salonops/repeat-insight/internal/pkg/logger"
)

// ErrMissingColumns marks a dataset that lacks the columns the engine
// cannot degrade around. Fatal: no partial results.
var ErrMissingColumns = errors.New("required columns missing from dataset")

// ErrUnresolvedIdentity marks a dataset that skipped identity resolution.
var ErrUnresolvedIdentity = errors.New("dataset has no resolved customer ids")

// NotApplicable is the sentinel name used when no segment passes the
// minimum-size filter.
const NotApplicable = "n/a"

// Engine computes the repeat analysis over a resolved dataset. It holds
// no state between runs and never mutates the caller's dataset, so one
// loaded dataset can serve many parameter variations.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Analyze validates inputs, extracts the cohort, builds repeat patterns
// and computes the seven analytic views.
//
// Zero new customers in the window is not an error: the result comes back
// with Empty=true and Parameters.Error set so callers can distinguish
// "ran fine, no data" from a failure.
func (e *Engine) Analyze(ds *normalize.Dataset, p Params) (*AnalysisResult, error) {
	p = p.withDefaults()

	if err := validateDataset(ds); err != nil {
		return nil, err
	}

	windowStart, err := cohort.ParseWindowDate(p.NewCustomerStart)
	if err != nil {
		return nil, fmt.Errorf("new customer start: %w", err)
	}
	windowEnd, err := cohort.ParseWindowDate(p.NewCustomerEnd)
	if err != nil {
		return nil, fmt.Errorf("new customer end: %w", err)
	}
	cutoff, err := cohort.ParseWindowDate(p.RepeatAnalysisEnd)
	if err != nil {
		return nil, fmt.Errorf("repeat analysis end: %w", err)
	}
	if windowEnd.Before(windowStart) {
		return nil, fmt.Errorf("%w: window end %s before start %s",
			cohort.ErrInvalidDateRange, p.NewCustomerEnd, p.NewCustomerStart)
	}
	if cutoff.Before(windowEnd) {
		return nil, fmt.Errorf("%w: repeat cutoff %s before window end %s",
			cohort.ErrInvalidDateRange, p.RepeatAnalysisEnd, p.NewCustomerEnd)
	}

	newCustomers := cohort.ExtractNewCustomers(ds, windowStart, windowEnd)
	if len(newCustomers) == 0 {
		logger.Info("no new customers in window, returning placeholder result")
		p.Error = fmt.Sprintf("no new customers between %s and %s", p.NewCustomerStart, p.NewCustomerEnd)
		return &AnalysisResult{Empty: true, Parameters: p}, nil
	}

	repeats := cohort.BuildRepeatPatterns(ds, newCustomers, cutoff)

	result := &AnalysisResult{
		BasicStats:       basicStats(repeats, p.MinRepeatCount),
		FunnelAnalysis:   funnelAnalysis(repeats),
		StylistAnalysis:  stylistAnalysis(repeats, p.MinStylistCustomers, p.MinRepeatCount),
		CouponAnalysis:   couponAnalysis(repeats, p.MinCouponCustomers, p.MinRepeatCount),
		TargetComparison: targetComparison(repeats, p.TargetRates),
		PeriodAnalysis:   periodAnalysis(repeats),
		MonthlyAnalysis:  monthlyAnalysis(repeats),
		Parameters:       p,
	}
	logger.Info("analysis complete", "new_customers", len(newCustomers))
	return result, nil
}

func validateDataset(ds *normalize.Dataset) error {
	var missing []string
	if !ds.HasColumn(normalize.FieldVisitDate) {
		missing = append(missing, string(normalize.FieldVisitDate))
	}
	if !ds.HasColumn(normalize.FieldFirstVisitFlag) {
		missing = append(missing, string(normalize.FieldFirstVisitFlag))
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingColumns, missing)
	}
	for _, rec := range ds.Records {
		if rec.CustomerID == "" {
			return ErrUnresolvedIdentity
		}
	}
	return nil
}

// countAtLeast counts records with RepeatCount >= n.
func countAtLeast(repeats []cohort.RepeatRecord, n int) int {
	count := 0
	for _, r := range repeats {
		if r.RepeatCount >= n {
			count++
		}
	}
	return count
}

func basicStats(repeats []cohort.RepeatRecord, minRepeatCount int) BasicStats {
	total := len(repeats)

	var all, repeatersOnly []int
	for _, r := range repeats {
		all = append(all, r.RepeatCount)
		if r.RepeatCount > 0 {
			repeatersOnly = append(repeatersOnly, r.RepeatCount)
		}
	}

	return BasicStats{
		TotalNewCustomers:  total,
		XPlusRepeaters:     countAtLeast(repeats, minRepeatCount),
		XPlusRate:          pct(countAtLeast(repeats, minRepeatCount), total),
		FirstRepeaters:     countAtLeast(repeats, 1),
		FirstRepeatRate:    pct(countAtLeast(repeats, 1), total),
		AvgRepeatAll:       round1(meanInts(all)),
		AvgRepeatRepeaters: round1(meanInts(repeatersOnly)),
		MinRepeatCount:     minRepeatCount,
	}
}
