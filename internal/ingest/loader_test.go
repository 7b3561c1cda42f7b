package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func toShiftJIS(t *testing.T, s string) []byte {
	t.Helper()
	out, _, err := transform.Bytes(japanese.ShiftJIS.NewEncoder(), []byte(s))
	if err != nil {
		t.Fatalf("shift_jis encode: %v", err)
	}
	return out
}

const sampleCSV = "ステータス,来店日,お名前\n済み,20240110,山田太郎\n済み,20240111,鈴木花子\n"

func TestLoadFileShiftJIS(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "visits_sjis.csv", toShiftJIS(t, sampleCSV))

	table, err := NewLoader("").LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if canonicalName(table.Encoding) != "shift_jis" {
		t.Errorf("encoding = %q, want a shift_jis alias", table.Encoding)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(table.Rows))
	}
	if table.Header[0] != "ステータス" {
		t.Errorf("header not decoded: %q", table.Header[0])
	}
	if table.Rows[0][2] != "山田太郎" {
		t.Errorf("cell not decoded: %q", table.Rows[0][2])
	}
}

func TestLoadFileUTF8(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "visits_utf8.csv", []byte(sampleCSV))

	table, err := NewLoader("").LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if table.Rows[1][2] != "鈴木花子" {
		t.Errorf("cell not decoded: %q", table.Rows[1][2])
	}
}

func TestLoadFileUTF8BOM(t *testing.T) {
	dir := t.TempDir()
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(sampleCSV)...)
	path := writeFile(t, dir, "visits_bom.csv", data)

	table, err := NewLoader("").LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	// The BOM must not leak into the first header cell.
	if table.Header[0] != "ステータス" {
		t.Errorf("header carries BOM residue: %q", table.Header[0])
	}
}

func TestLoadFileDefaultEncodingFirst(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "visits.csv", toShiftJIS(t, sampleCSV))

	table, err := NewLoader("cp932").LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if table.Encoding != "cp932" {
		t.Errorf("encoding = %q, want the configured default cp932", table.Encoding)
	}
}

func TestLoadFilesSkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.csv", []byte(sampleCSV))
	missing := filepath.Join(dir, "missing.csv")
	empty := writeFile(t, dir, "empty.csv", []byte("header_only\n"))

	tables, err := NewLoader("").LoadFiles([]string{missing, empty, good})
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(tables))
	}
	if tables[0].SourceFile != good {
		t.Errorf("kept wrong file: %s", tables[0].SourceFile)
	}
}

func TestLoadFilesAllUnreadable(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "nope.csv")

	_, err := NewLoader("").LoadFiles([]string{missing})
	if err != ErrNoReadableInput {
		t.Fatalf("err = %v, want ErrNoReadableInput", err)
	}
}

func TestCandidatesDeduplicate(t *testing.T) {
	l := NewLoader("shift_jis")
	got := l.candidates("cp932")

	seen := make(map[string]bool)
	for _, name := range got {
		key := canonicalName(name)
		if seen[key] {
			t.Fatalf("candidate list has duplicate decoder %q: %v", key, got)
		}
		seen[key] = true
	}
	if !seen["shift_jis"] || !seen["utf-8"] || !seen["utf-8-sig"] {
		t.Errorf("candidate list incomplete: %v", got)
	}
}

func TestParseCSVRaggedRows(t *testing.T) {
	header, rows, err := parseCSV("a,b,c\n1,2\n1,2,3,4\n")
	if err != nil {
		t.Fatalf("parseCSV: %v", err)
	}
	if len(header) != 3 {
		t.Fatalf("header len = %d, want 3", len(header))
	}
	if len(rows) != 2 || len(rows[0]) != 2 || len(rows[1]) != 4 {
		t.Errorf("ragged rows not preserved: %v", rows)
	}
}
