package normalize

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/width"
)

// Flag is the tri-state value of the self-reported first-visit question.
// Anything outside the known vocabulary is Unknown, not false: the cohort
// extractor treats Unknown like true, so collapsing it to false would
// silently shrink the cohort.
type Flag int

const (
	FlagUnknown Flag = iota
	FlagTrue
	FlagFalse
)

func (f Flag) String() string {
	switch f {
	case FlagTrue:
		return "true"
	case FlagFalse:
		return "false"
	default:
		return "unknown"
	}
}

var trueValues = map[string]bool{
	"true": true, "yes": true, "はい": true, "はい、初めてです": true, "1": true,
}

var falseValues = map[string]bool{
	"false": true, "no": true, "いいえ": true, "0": true,
}

// ParseFlag maps a raw cell value to the tri-state first-visit flag.
func ParseFlag(raw string) Flag {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return FlagUnknown
	}
	if trueValues[v] {
		return FlagTrue
	}
	if falseValues[v] {
		return FlagFalse
	}
	return FlagUnknown
}

// genericDateLayouts are tried in order after the strict YYYYMMDD form.
var genericDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006/1/2",
	"2006年1月2日",
	time.RFC3339,
}

// ParseVisitDate parses a visit date cell. Strict 8-digit YYYYMMDD is the
// primary export format; other common forms are attempted after it.
// The result is truncated to the day in UTC.
func ParseVisitDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if len(s) == 8 && isDigits(s) {
		if t, err := time.ParseInLocation("20060102", s, time.UTC); err == nil {
			return t, true
		}
		return time.Time{}, false
	}

	for _, layout := range genericDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// NormalizePhone strips every non-digit character. An empty result means
// no usable phone number.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeName strips every whitespace variant (including the full-width
// space) and folds half-width katakana to full-width, best effort: dakuten
// and handakuten stay as separate marks.
func NormalizeName(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r == ' ' || r == '\t' || r == '　':
			continue
		case r >= 0xFF61 && r <= 0xFF9F:
			b.WriteString(width.Widen.String(string(r)))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// BuildNameKey joins the normalized kana and kanji names into a single
// identity key. Both present: "kana#kanji"; one present: that part alone;
// neither: empty.
func BuildNameKey(kana, kanji string) string {
	switch {
	case kana != "" && kanji != "":
		return kana + "#" + kanji
	case kana != "":
		return kana
	default:
		return kanji
	}
}

// CleanCustomerNumber undoes spreadsheet float artifacts: customer numbers
// round-tripped through Excel come back as "1.234568e+09" or "12345.0".
func CleanCustomerNumber(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if strings.ContainsAny(s, ".eE") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return strconv.FormatFloat(f, 'f', 0, 64)
		}
	}
	return s
}

// NormalizeLabel strips whitespace variants from grouping labels
// (stylist names arrive both with and without interior spaces).
func NormalizeLabel(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if r == ' ' || r == '\t' || r == '　' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ParseAmount parses a total-amount cell, tolerating currency symbols and
// thousands separators. Unparseable values become 0.
func ParseAmount(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "¥")
	s = strings.TrimPrefix(s, "￥")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
