package identity

import (
	"fmt"
	"sort"

	"github.com/salonops/repeat-insight/internal/normalize"
	"github.com/salonops/repeat-insight/internal/pkg/logger"
)

// ID prefixes make the resolution source visible in logs and exports.
const (
	prefixPhone    = "PHONE_"
	prefixName     = "NAME_"
	prefixCustomer = "CUST_"
	prefixUnknown  = "UNKNOWN_"
)

// ResolveID assigns a stable customer identifier from one record alone.
// Priority is fixed: phone > name key > customer number > unique fallback.
// seq is the record's canonical position and only matters for the
// fallback, which is deliberately un-mergeable with any other row.
func ResolveID(rec normalize.VisitRecord, seq int) string {
	switch {
	case rec.Phone != "":
		return prefixPhone + rec.Phone
	case rec.NameKey != "":
		return prefixName + rec.NameKey
	case rec.CustomerNumber != "":
		return prefixCustomer + rec.CustomerNumber
	default:
		return fmt.Sprintf("%s%d", prefixUnknown, seq)
	}
}

// Assign resolves every record in the dataset in canonical order, then
// runs the whole-table consistency pass. Conflicts are logged, never
// fatal: they signal upstream data quality problems, and the best
// available grouping is still the right one to analyze.
func Assign(ds *normalize.Dataset) {
	for i := range ds.Records {
		ds.Records[i].CustomerID = ResolveID(ds.Records[i], i)
	}

	conflicts := CheckConsistency(ds)
	if len(conflicts) > 0 {
		logger.Warn("customer ids with conflicting evidence", "count", len(conflicts))
		for _, c := range conflicts {
			logger.Debug("identity conflict", "customer_id", c.ID,
				"distinct_phones", len(c.Phones), "distinct_name_keys", len(c.NameKeys))
		}
	}
}

// Conflict describes a customer id whose member rows disagree on the
// underlying evidence (more than one distinct non-empty phone or name key).
type Conflict struct {
	ID       string
	Phones   []string
	NameKeys []string
}

// CheckConsistency groups resolved rows by customer id and flags ids whose
// groups carry more than one distinct non-empty phone or name key.
func CheckConsistency(ds *normalize.Dataset) []Conflict {
	phones := make(map[string]map[string]bool)
	names := make(map[string]map[string]bool)

	for _, rec := range ds.Records {
		if rec.Phone != "" {
			if phones[rec.CustomerID] == nil {
				phones[rec.CustomerID] = make(map[string]bool)
			}
			phones[rec.CustomerID][rec.Phone] = true
		}
		if rec.NameKey != "" {
			if names[rec.CustomerID] == nil {
				names[rec.CustomerID] = make(map[string]bool)
			}
			names[rec.CustomerID][rec.NameKey] = true
		}
	}

	var conflicts []Conflict
	seen := make(map[string]bool)
	for _, rec := range ds.Records {
		id := rec.CustomerID
		if seen[id] {
			continue
		}
		seen[id] = true
		if len(phones[id]) > 1 || len(names[id]) > 1 {
			conflicts = append(conflicts, Conflict{
				ID:       id,
				Phones:   sortedKeys(phones[id]),
				NameKeys: sortedKeys(names[id]),
			})
		}
	}
	return conflicts
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
