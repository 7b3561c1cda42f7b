package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/salonops/repeat-insight/internal/pkg/logger"
)

// ErrNoReadableInput is returned when none of the provided files could be
// decoded and parsed with any candidate encoding.
var ErrNoReadableInput = errors.New("no readable CSV file among inputs")

// RawTable is one parsed CSV file: a header row plus data rows, still
// untyped. Row order is preserved exactly as read.
type RawTable struct {
	Header     []string
	Rows       [][]string
	SourceFile string
	Encoding   string
}

// Loader reads delimited text files of unknown encoding. Booking-system
// exports arrive variously as CP932, Shift_JIS and UTF-8 (with and without
// BOM), so each file is decoded by trying a candidate list in order.
type Loader struct {
	defaultEncoding string
}

func NewLoader(defaultEncoding string) *Loader {
	return &Loader{defaultEncoding: defaultEncoding}
}

// LoadFiles loads every path it can and skips the ones it cannot.
// A per-file failure is a data-quality anomaly, not a run failure; only
// zero successes is fatal.
func (l *Loader) LoadFiles(paths []string) ([]*RawTable, error) {
	var tables []*RawTable
	for _, path := range paths {
		table, err := l.LoadFile(path)
		if err != nil {
			logger.Warn("csv load failed, skipping file", "file", path, "error", err.Error())
			continue
		}
		if len(table.Rows) == 0 {
			logger.Warn("csv file has no data rows, skipping", "file", path)
			continue
		}
		logger.Info("csv load ok", "file", path, "rows", len(table.Rows), "encoding", table.Encoding)
		tables = append(tables, table)
	}
	if len(tables) == 0 {
		return nil, ErrNoReadableInput
	}
	return tables, nil
}

// LoadFile reads one file, trying each candidate encoding in full. The
// first candidate that decodes and parses the entire file wins.
func (l *Loader) LoadFile(path string) (*RawTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	sniffed := sniffEncoding(data)
	for _, name := range l.candidates(sniffed) {
		decoded, err := decode(data, name)
		if err != nil {
			continue
		}
		header, rows, err := parseCSV(decoded)
		if err != nil {
			logger.Warn("csv parse failed", "file", path, "encoding", name, "error", err.Error())
			continue
		}
		return &RawTable{Header: header, Rows: rows, SourceFile: path, Encoding: name}, nil
	}
	return nil, fmt.Errorf("file %s: no candidate encoding decodes cleanly", path)
}

// candidates builds the ordered, deduplicated encoding list:
// explicit default, sniffed, then the fixed fallbacks.
func (l *Loader) candidates(sniffed string) []string {
	raw := []string{l.defaultEncoding, sniffed, "cp932", "shift_jis", "utf-8-sig", "utf-8"}
	seen := make(map[string]bool, len(raw))
	var out []string
	for _, name := range raw {
		key := canonicalName(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}

// canonicalName folds encoding aliases so the candidate list deduplicates
// names that resolve to the same decoder (cp932 and shift_jis both decode
// through the windows-31j table).
func canonicalName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "":
		return ""
	case "cp932", "shift_jis", "shift-jis", "sjis", "windows-31j", "ms932", "shiftjis":
		return "shift_jis"
	case "utf8", "utf-8":
		return "utf-8"
	case "utf-8-sig", "utf8-sig":
		return "utf-8-sig"
	default:
		return n
	}
}

func sniffEncoding(data []byte) string {
	sample := data
	if len(sample) > 1024 {
		sample = sample[:1024]
	}
	_, name, _ := charset.DetermineEncoding(sample, "")
	return name
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decode converts raw bytes to UTF-8 text under the named encoding.
// The x/text decoders substitute U+FFFD for undecodable bytes instead of
// failing, so a replacement rune in the output is treated as a decode
// failure for that candidate.
func decode(data []byte, name string) (string, error) {
	switch canonicalName(name) {
	case "utf-8":
		// A BOM is valid UTF-8, so strip it here too or it leaks into
		// the first header cell.
		data = bytes.TrimPrefix(data, utf8BOM)
		if !utf8.Valid(data) {
			return "", fmt.Errorf("invalid utf-8")
		}
		return string(data), nil
	case "utf-8-sig":
		if !bytes.HasPrefix(data, utf8BOM) {
			return "", fmt.Errorf("missing utf-8 BOM")
		}
		stripped := bytes.TrimPrefix(data, utf8BOM)
		if !utf8.Valid(stripped) {
			return "", fmt.Errorf("invalid utf-8 after BOM")
		}
		return string(stripped), nil
	case "shift_jis":
		return decodeStrict(data, japanese.ShiftJIS.NewDecoder())
	default:
		enc, err := htmlindex.Get(name)
		if err != nil {
			return "", fmt.Errorf("unknown encoding %q", name)
		}
		return decodeStrict(data, enc.NewDecoder())
	}
}

func decodeStrict(data []byte, dec transform.Transformer) (string, error) {
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", err
	}
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", fmt.Errorf("undecodable bytes")
	}
	return string(out), nil
}

func parseCSV(text string) (header []string, rows [][]string, err error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("empty file")
	}

	header = make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	return header, records[1:], nil
}
