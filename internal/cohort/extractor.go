package cohort

import (
	"errors"
	"fmt"
	"time"

	"github.com/salonops/repeat-insight/internal/normalize"
	"github.com/salonops/repeat-insight/internal/pkg/logger"
)

// ErrInvalidDateRange marks a malformed or logically inconsistent window.
var ErrInvalidDateRange = errors.New("invalid date range")

// NewCustomer is one customer whose first-ever completed visit falls inside
// the analysis window. The attributes are taken from that first visit and
// become the customer's cohort attributes.
type NewCustomer struct {
	CustomerID  string         `json:"customer_id"`
	FirstVisit  time.Time      `json:"first_visit"`
	Flag        normalize.Flag `json:"first_visit_flag"`
	Stylist     string         `json:"stylist"`
	Coupon      string         `json:"coupon"`
	Gender      string         `json:"gender"`
	Menu        string         `json:"menu"`
	FirstAmount float64        `json:"first_amount"`
}

// ParseWindowDate parses a YYYY-MM-DD window parameter.
func ParseWindowDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrInvalidDateRange, s)
	}
	return t, nil
}

// ExtractNewCustomers returns the customers whose globally earliest visit
// falls within [windowStart, windowEnd] and whose self-reported first-visit
// flag at that visit is true or unknown. The global minimum is computed
// over the customer's entire history, not just the window: a customer with
// an earlier visit outside the window is not new, whatever the flag says.
//
// When a customer has several rows on exactly the earliest date, the first
// occurrence in canonical input order is the first visit.
func ExtractNewCustomers(ds *normalize.Dataset, windowStart, windowEnd time.Time) []NewCustomer {
	// Index of the chosen first-visit record per customer.
	firstIdx := make(map[string]int)
	for i, rec := range ds.Records {
		j, seen := firstIdx[rec.CustomerID]
		if !seen || rec.VisitDate.Before(ds.Records[j].VisitDate) {
			firstIdx[rec.CustomerID] = i
		}
	}

	var out []NewCustomer
	for i, rec := range ds.Records {
		if firstIdx[rec.CustomerID] != i {
			continue
		}
		if rec.VisitDate.Before(windowStart) || rec.VisitDate.After(windowEnd) {
			continue
		}
		if rec.FirstVisit == normalize.FlagFalse {
			continue
		}
		out = append(out, NewCustomer{
			CustomerID:  rec.CustomerID,
			FirstVisit:  rec.VisitDate,
			Flag:        rec.FirstVisit,
			Stylist:     rec.Stylist,
			Coupon:      rec.Coupon,
			Gender:      rec.Gender,
			Menu:        rec.Menu,
			FirstAmount: rec.TotalAmount,
		})
	}

	logger.Info("new customers extracted",
		"window_start", windowStart.Format("2006-01-02"),
		"window_end", windowEnd.Format("2006-01-02"),
		"count", len(out))
	return out
}
