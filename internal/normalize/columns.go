package normalize

import "strings"

// CanonicalField is a normalized field name used across all export sources.
type CanonicalField string

const (
	FieldVisitDate      CanonicalField = "visit_date"
	FieldStatus         CanonicalField = "status"
	FieldPhone          CanonicalField = "phone"
	FieldKanaName       CanonicalField = "kana_name"
	FieldKanjiName      CanonicalField = "kanji_name"
	FieldCustomerNumber CanonicalField = "customer_number"
	FieldStylist        CanonicalField = "stylist"
	FieldCoupon         CanonicalField = "coupon"
	FieldFirstVisitFlag CanonicalField = "first_visit_flag"
	FieldTotalAmount    CanonicalField = "total_amount"
	FieldGender         CanonicalField = "gender"
	FieldMenu           CanonicalField = "menu"
)

// columnAliases maps raw header names to canonical fields. Booking-system
// exports use the Japanese headers; English aliases cover re-exported or
// hand-edited files.
var columnAliases = map[string]CanonicalField{
	// Visit date
	"来店日":        FieldVisitDate,
	"visit_date": FieldVisitDate,
	"visit date": FieldVisitDate,
	"date":       FieldVisitDate,

	// Status
	"ステータス":  FieldStatus,
	"status": FieldStatus,

	// Phone
	"電話番号":         FieldPhone,
	"phone":        FieldPhone,
	"phone_number": FieldPhone,
	"tel":          FieldPhone,

	// Kana name
	"フリガナ":      FieldKanaName,
	"氏名(カナ)":    FieldKanaName,
	"kana":      FieldKanaName,
	"kana_name": FieldKanaName,

	// Kanji name
	"お名前":        FieldKanjiName,
	"氏名(漢字)":     FieldKanjiName,
	"name":       FieldKanjiName,
	"kanji_name": FieldKanjiName,

	// Customer number
	"お客様番号":           FieldCustomerNumber,
	"customer_number": FieldCustomerNumber,
	"customer_no":     FieldCustomerNumber,

	// Stylist
	"スタイリスト名":      FieldStylist,
	"stylist":      FieldStylist,
	"stylist_name": FieldStylist,

	// Coupon
	"予約時hotpepperbeautyクーポン": FieldCoupon,
	"クーポン":                    FieldCoupon,
	"coupon":                  FieldCoupon,
	"coupon_name":             FieldCoupon,

	// First visit flag
	"このサロンに行くのは初めてですか？": FieldFirstVisitFlag,
	"first_visit":        FieldFirstVisitFlag,
	"is_first_visit":     FieldFirstVisitFlag,

	// Total amount
	"予約時合計金額":       FieldTotalAmount,
	"total_amount":  FieldTotalAmount,
	"amount":        FieldTotalAmount,

	// Gender
	"性別":     FieldGender,
	"gender": FieldGender,

	// Menu
	"予約時メニュー": FieldMenu,
	"メニュー":    FieldMenu,
	"menu":    FieldMenu,
}

// requiredFields must be present for a full-fidelity analysis. A missing
// one degrades the run (warning, lenient behavior) rather than failing it.
var requiredFields = []CanonicalField{FieldStatus, FieldVisitDate, FieldFirstVisitFlag}

// ColumnMapping holds the resolved mapping from CSV column indices to
// canonical fields for one file.
type ColumnMapping struct {
	FieldMap map[int]CanonicalField // column index -> canonical field
	RawNames []string               // original header names
}

// Has reports whether the mapping resolved the given canonical field.
func (m *ColumnMapping) Has(field CanonicalField) bool {
	for _, f := range m.FieldMap {
		if f == field {
			return true
		}
	}
	return false
}

// MissingRequired returns the required canonical fields absent from the header.
func (m *ColumnMapping) MissingRequired() []CanonicalField {
	var missing []CanonicalField
	for _, f := range requiredFields {
		if !m.Has(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// MapColumns takes a raw CSV header row and returns a resolved mapping.
// When several columns resolve to the same field (multiple phone columns
// in merged exports), the first one wins.
func MapColumns(header []string) *ColumnMapping {
	m := &ColumnMapping{
		FieldMap: make(map[int]CanonicalField, len(header)),
		RawNames: header,
	}

	claimed := make(map[CanonicalField]bool)
	for i, h := range header {
		normalized := strings.ToLower(strings.TrimSpace(h))
		normalized = strings.Trim(normalized, "\"'")

		field, ok := columnAliases[normalized]
		if !ok {
			field, ok = fuzzyField(normalized)
		}
		if ok && !claimed[field] {
			m.FieldMap[i] = field
			claimed[field] = true
		}
	}
	return m
}

// fuzzyField catches header variants that embed a known name, e.g.
// "お客様電話番号" or "ご来店日".
func fuzzyField(header string) (CanonicalField, bool) {
	switch {
	case strings.Contains(header, "電話番号"):
		return FieldPhone, true
	case strings.Contains(header, "来店日"):
		return FieldVisitDate, true
	case strings.Contains(header, "初めて"):
		return FieldFirstVisitFlag, true
	case strings.Contains(header, "クーポン"):
		return FieldCoupon, true
	case strings.Contains(header, "スタイリスト"):
		return FieldStylist, true
	default:
		return "", false
	}
}
