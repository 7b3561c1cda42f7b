package cohort

import (
	"sort"
	"time"

	"github.com/salonops/repeat-insight/internal/normalize"
	"github.com/salonops/repeat-insight/internal/pkg/logger"
)

// RepeatRecord is the repeat history of one cohort customer up to the
// cutoff date. Immutable once built; every analytic view reads from it.
type RepeatRecord struct {
	CustomerID        string      `json:"customer_id"`
	FirstVisit        time.Time   `json:"first_visit"`
	RepeatCount       int         `json:"repeat_count"`
	RepeatDates       []time.Time `json:"repeat_dates"`
	DaysToFirstRepeat *int        `json:"days_to_first_repeat"`
	Stylist           string      `json:"stylist"`
	Coupon            string      `json:"coupon"`
	Gender            string      `json:"gender"`
	Menu              string      `json:"menu"`
	FirstAmount       float64     `json:"first_amount"`
}

// BuildRepeatPatterns walks each new customer's completed visits strictly
// after their first visit and on or before cutoff. Customers with zero
// repeats still produce a record: the result always has exactly one row
// per new customer.
func BuildRepeatPatterns(ds *normalize.Dataset, customers []NewCustomer, cutoff time.Time) []RepeatRecord {
	visitsByCustomer := make(map[string][]time.Time)
	for _, rec := range ds.Records {
		visitsByCustomer[rec.CustomerID] = append(visitsByCustomer[rec.CustomerID], rec.VisitDate)
	}

	out := make([]RepeatRecord, 0, len(customers))
	for _, nc := range customers {
		var repeats []time.Time
		for _, d := range visitsByCustomer[nc.CustomerID] {
			if d.After(nc.FirstVisit) && !d.After(cutoff) {
				repeats = append(repeats, d)
			}
		}
		sort.Slice(repeats, func(i, j int) bool { return repeats[i].Before(repeats[j]) })

		rec := RepeatRecord{
			CustomerID:  nc.CustomerID,
			FirstVisit:  nc.FirstVisit,
			RepeatCount: len(repeats),
			RepeatDates: repeats,
			Stylist:     nc.Stylist,
			Coupon:      nc.Coupon,
			Gender:      nc.Gender,
			Menu:        nc.Menu,
			FirstAmount: nc.FirstAmount,
		}
		if len(repeats) > 0 {
			days := int(repeats[0].Sub(nc.FirstVisit).Hours() / 24)
			rec.DaysToFirstRepeat = &days
		}
		out = append(out, rec)
	}

	logger.Info("repeat patterns built", "customers", len(out), "cutoff", cutoff.Format("2006-01-02"))
	return out
}
