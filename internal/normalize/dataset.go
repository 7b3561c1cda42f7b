package normalize

import (
	"time"

	"github.com/salonops/repeat-insight/internal/ingest"
	"github.com/salonops/repeat-insight/internal/pkg/logger"
)

// VisitRecord is one cleaned salon visit. Raw linking fields are already
// normalized; CustomerID is filled in by the identity resolver.
type VisitRecord struct {
	VisitDate      time.Time `json:"visit_date"`
	Status         string    `json:"status"`
	Phone          string    `json:"phone"`
	NameKey        string    `json:"name_key"`
	CustomerNumber string    `json:"customer_number"`
	Stylist        string    `json:"stylist"`
	Coupon         string    `json:"coupon"`
	FirstVisit     Flag      `json:"first_visit"`
	TotalAmount    float64   `json:"total_amount"`
	Gender         string    `json:"gender"`
	Menu           string    `json:"menu"`
	SourceFile     string    `json:"source_file"`
	CustomerID     string    `json:"customer_id"`
}

// Dataset is the combined, cleaned visit table for one analysis run.
// Record order is canonical (file order, then in-file order) and must stay
// stable: the cohort extractor tie-breaks duplicate same-day first visits
// by first occurrence.
type Dataset struct {
	Records []VisitRecord           `json:"records"`
	Columns map[CanonicalField]bool `json:"columns"`
}

// HasColumn reports whether any input file carried the given field.
func (d *Dataset) HasColumn(f CanonicalField) bool {
	return d.Columns[f]
}

// BuildDataset cleans and combines parsed CSV tables into one Dataset.
// Per-row problems filter the row; per-column problems degrade the run
// with a warning. completedStatus is the sentinel that marks an eligible
// visit; when a file has no status column at all the filter is skipped
// for that file rather than dropping everything.
func BuildDataset(tables []*ingest.RawTable, completedStatus string) *Dataset {
	ds := &Dataset{Columns: make(map[CanonicalField]bool)}

	for _, table := range tables {
		mapping := MapColumns(table.Header)
		for _, f := range mapping.FieldMap {
			ds.Columns[f] = true
		}
		if missing := mapping.MissingRequired(); len(missing) > 0 {
			logger.Warn("required columns missing, run degrades", "file", table.SourceFile, "missing", fieldNames(missing))
		}
		if !mapping.Has(FieldVisitDate) {
			logger.Warn("no visit date column, skipping file rows", "file", table.SourceFile)
			continue
		}
		statusPresent := mapping.Has(FieldStatus)
		if !statusPresent {
			logger.Warn("no status column, completed-status filter skipped", "file", table.SourceFile)
		}

		kept, droppedDate, droppedStatus := 0, 0, 0
		for _, row := range table.Rows {
			rec, ok := buildRecord(row, mapping, table.SourceFile)
			if !ok {
				droppedDate++
				continue
			}
			if statusPresent && rec.Status != completedStatus {
				droppedStatus++
				continue
			}
			ds.Records = append(ds.Records, rec)
			kept++
		}
		logger.Info("file cleaned", "file", table.SourceFile,
			"kept", kept, "dropped_bad_date", droppedDate, "dropped_status", droppedStatus)
	}

	return ds
}

// buildRecord applies the per-field transforms to one raw row. A row
// without a parseable visit date is filtered, not an error.
func buildRecord(row []string, mapping *ColumnMapping, sourceFile string) (VisitRecord, bool) {
	rec := VisitRecord{SourceFile: sourceFile}

	var kana, kanji string
	for i, field := range mapping.FieldMap {
		if i >= len(row) {
			continue
		}
		val := row[i]
		switch field {
		case FieldVisitDate:
			t, ok := ParseVisitDate(val)
			if !ok {
				return VisitRecord{}, false
			}
			rec.VisitDate = t
		case FieldStatus:
			rec.Status = trimSpace(val)
		case FieldPhone:
			rec.Phone = NormalizePhone(val)
		case FieldKanaName:
			kana = NormalizeName(val)
		case FieldKanjiName:
			kanji = NormalizeName(val)
		case FieldCustomerNumber:
			rec.CustomerNumber = CleanCustomerNumber(val)
		case FieldStylist:
			rec.Stylist = NormalizeLabel(val)
		case FieldCoupon:
			rec.Coupon = trimSpace(val)
		case FieldFirstVisitFlag:
			rec.FirstVisit = ParseFlag(val)
		case FieldTotalAmount:
			rec.TotalAmount = ParseAmount(val)
		case FieldGender:
			rec.Gender = trimSpace(val)
		case FieldMenu:
			rec.Menu = trimSpace(val)
		}
	}

	rec.NameKey = BuildNameKey(kana, kanji)
	if rec.VisitDate.IsZero() {
		return VisitRecord{}, false
	}
	return rec, true
}

func trimSpace(s string) string {
	// Full-width space aware trim
	return string([]rune(trimRunes(s)))
}

func trimRunes(s string) string {
	runes := []rune(s)
	start, end := 0, len(runes)
	for start < end && isSpaceRune(runes[start]) {
		start++
	}
	for end > start && isSpaceRune(runes[end-1]) {
		end--
	}
	return string(runes[start:end])
}

func isSpaceRune(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '　'
}

func fieldNames(fields []CanonicalField) string {
	out := ""
	for i, f := range fields {
		if i > 0 {
			out += ","
		}
		out += string(f)
	}
	return out
}
