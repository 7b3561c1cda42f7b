package report

import (
	"os"
	"strings"
	"testing"

	"github.com/salonops/repeat-insight/internal/analytics"
	"github.com/salonops/repeat-insight/internal/cohort"
	"github.com/salonops/repeat-insight/internal/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyzed(t *testing.T) *analytics.AnalysisResult {
	t.Helper()

	day := func(s string) normalize.VisitRecord {
		d, err := cohort.ParseWindowDate(s)
		require.NoError(t, err)
		return normalize.VisitRecord{VisitDate: d}
	}
	rec := func(id, date, stylist string, flag normalize.Flag) normalize.VisitRecord {
		r := day(date)
		r.CustomerID = id
		r.Stylist = stylist
		r.FirstVisit = flag
		return r
	}

	ds := &normalize.Dataset{
		Records: []normalize.VisitRecord{
			rec("A", "2024-01-05", "tanaka", normalize.FlagTrue),
			rec("A", "2024-01-20", "tanaka", normalize.FlagFalse),
			rec("A", "2024-02-20", "tanaka", normalize.FlagFalse),
			rec("A", "2024-03-20", "tanaka", normalize.FlagFalse),
			rec("B", "2024-01-10", "tanaka", normalize.FlagTrue),
		},
		Columns: map[normalize.CanonicalField]bool{
			normalize.FieldVisitDate:      true,
			normalize.FieldFirstVisitFlag: true,
		},
	}

	result, err := analytics.NewEngine().Analyze(ds, analytics.Params{
		NewCustomerStart:    "2024-01-01",
		NewCustomerEnd:      "2024-01-31",
		RepeatAnalysisEnd:   "2024-06-30",
		MinStylistCustomers: 1,
		MinCouponCustomers:  1,
	})
	require.NoError(t, err)
	return result
}

func TestRender(t *testing.T) {
	text, err := New(t.TempDir()).Render(analyzed(t))
	require.NoError(t, err)

	assert.Contains(t, text, "SALON REPEAT-VISIT ANALYSIS REPORT")
	assert.Contains(t, text, "2024-01-01 - 2024-01-31")
	assert.Contains(t, text, "New customers:                     2")
	assert.Contains(t, text, "first_visit: 2")
	assert.Contains(t, text, "tanaka")
	assert.Contains(t, text, "0-7 days:")
	assert.Contains(t, text, "2024-01: 2 new")
	// One-decimal formatting everywhere.
	assert.Contains(t, text, "50.0%")
	assert.NotContains(t, text, "RESULT:")
}

func TestRenderEmptyResult(t *testing.T) {
	result := &analytics.AnalysisResult{
		Empty: true,
		Parameters: analytics.Params{
			NewCustomerStart:  "2024-01-01",
			NewCustomerEnd:    "2024-01-31",
			RepeatAnalysisEnd: "2024-06-30",
			MinRepeatCount:    3,
			Error:             "no new customers between 2024-01-01 and 2024-01-31",
		},
	}

	text, err := New(t.TempDir()).Render(result)
	require.NoError(t, err)

	assert.Contains(t, text, "RESULT: no new customers")
	assert.NotContains(t, text, "[Basic statistics]")
}

func TestGenerateWritesFile(t *testing.T) {
	dir := t.TempDir()
	path, err := New(dir).Generate(analyzed(t))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, dir))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "SALON REPEAT-VISIT ANALYSIS REPORT")
}
