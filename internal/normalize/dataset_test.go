package normalize

import (
	"testing"

	"github.com/salonops/repeat-insight/internal/ingest"
)

func TestMapColumns(t *testing.T) {
	header := []string{"ステータス", "来店日", "お名前", "フリガナ", "電話番号", "スタイリスト名", "このサロンに行くのは初めてですか？"}
	m := MapColumns(header)

	want := map[int]CanonicalField{
		0: FieldStatus,
		1: FieldVisitDate,
		2: FieldKanjiName,
		3: FieldKanaName,
		4: FieldPhone,
		5: FieldStylist,
		6: FieldFirstVisitFlag,
	}
	for i, f := range want {
		if got := m.FieldMap[i]; got != f {
			t.Errorf("column %d mapped to %q, want %q", i, got, f)
		}
	}
	if missing := m.MissingRequired(); len(missing) != 0 {
		t.Errorf("MissingRequired() = %v, want none", missing)
	}
}

func TestMapColumnsFuzzyAndDuplicates(t *testing.T) {
	header := []string{"お客様電話番号", "電話番号", "ご来店日", "予約時HotPepperBeautyクーポン"}
	m := MapColumns(header)

	if m.FieldMap[0] != FieldPhone {
		t.Errorf("fuzzy phone header not matched: %v", m.FieldMap[0])
	}
	// First phone column claims the field; the second stays unmapped.
	if _, ok := m.FieldMap[1]; ok {
		t.Errorf("duplicate phone column should be unmapped, got %v", m.FieldMap[1])
	}
	if m.FieldMap[2] != FieldVisitDate {
		t.Errorf("fuzzy visit date header not matched: %v", m.FieldMap[2])
	}
	if m.FieldMap[3] != FieldCoupon {
		t.Errorf("coupon header not matched: %v", m.FieldMap[3])
	}
}

func TestMapColumnsEnglishAliases(t *testing.T) {
	m := MapColumns([]string{"Visit Date", "Status", "Phone", "Stylist"})
	if !m.Has(FieldVisitDate) || !m.Has(FieldStatus) || !m.Has(FieldPhone) || !m.Has(FieldStylist) {
		t.Errorf("english aliases not mapped: %v", m.FieldMap)
	}
}

func table(header []string, rows ...[]string) *ingest.RawTable {
	return &ingest.RawTable{Header: header, Rows: rows, SourceFile: "test.csv", Encoding: "utf-8"}
}

func TestBuildDatasetFiltersRows(t *testing.T) {
	tbl := table(
		[]string{"ステータス", "来店日", "電話番号", "このサロンに行くのは初めてですか？"},
		[]string{"済み", "20240110", "090-1111-2222", "はい"},
		[]string{"キャンセル", "20240111", "090-3333-4444", "はい"},
		[]string{"済み", "not-a-date", "090-5555-6666", "はい"},
		[]string{"済み", "20240112", "090-7777-8888", "いいえ"},
	)

	ds := BuildDataset([]*ingest.RawTable{tbl}, "済み")

	if len(ds.Records) != 2 {
		t.Fatalf("got %d records, want 2 (cancelled and bad-date rows dropped)", len(ds.Records))
	}
	if ds.Records[0].Phone != "09011112222" {
		t.Errorf("phone not normalized: %q", ds.Records[0].Phone)
	}
	if ds.Records[0].FirstVisit != FlagTrue {
		t.Errorf("first record flag = %v, want true", ds.Records[0].FirstVisit)
	}
	if ds.Records[1].FirstVisit != FlagFalse {
		t.Errorf("second record flag = %v, want false", ds.Records[1].FirstVisit)
	}
	if !ds.HasColumn(FieldStatus) || !ds.HasColumn(FieldVisitDate) {
		t.Errorf("column presence not recorded: %v", ds.Columns)
	}
}

func TestBuildDatasetLenientWithoutStatusColumn(t *testing.T) {
	tbl := table(
		[]string{"来店日", "電話番号"},
		[]string{"20240110", "090-1111-2222"},
		[]string{"20240111", "090-3333-4444"},
	)

	ds := BuildDataset([]*ingest.RawTable{tbl}, "済み")

	// Without a status column every date-valid row is kept.
	if len(ds.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(ds.Records))
	}
	if ds.HasColumn(FieldStatus) {
		t.Error("status column should be reported absent")
	}
}

func TestBuildDatasetSkipsFileWithoutVisitDate(t *testing.T) {
	noDates := table([]string{"ステータス", "電話番号"}, []string{"済み", "090-1111-2222"})
	withDates := table([]string{"ステータス", "来店日"}, []string{"済み", "20240110"})

	ds := BuildDataset([]*ingest.RawTable{noDates, withDates}, "済み")

	if len(ds.Records) != 1 {
		t.Fatalf("got %d records, want 1 (file without visit dates skipped)", len(ds.Records))
	}
	if ds.Records[0].SourceFile != "test.csv" {
		t.Errorf("unexpected source file %q", ds.Records[0].SourceFile)
	}
}

func TestBuildDatasetShortRows(t *testing.T) {
	tbl := table(
		[]string{"ステータス", "来店日", "電話番号"},
		[]string{"済み", "20240110"}, // ragged row, phone cell missing
	)

	ds := BuildDataset([]*ingest.RawTable{tbl}, "済み")
	if len(ds.Records) != 1 {
		t.Fatalf("ragged row should still be kept, got %d records", len(ds.Records))
	}
	if ds.Records[0].Phone != "" {
		t.Errorf("missing cell should yield empty phone, got %q", ds.Records[0].Phone)
	}
}

func TestBuildDatasetNameKey(t *testing.T) {
	tbl := table(
		[]string{"来店日", "フリガナ", "お名前"},
		[]string{"20240110", "ﾔﾏﾀﾞ ﾀﾛｳ", "山田　太郎"},
	)

	ds := BuildDataset([]*ingest.RawTable{tbl}, "済み")
	if len(ds.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(ds.Records))
	}
	got := ds.Records[0].NameKey
	want := NormalizeName("ﾔﾏﾀﾞ ﾀﾛｳ") + "#" + "山田太郎"
	if got != want {
		t.Errorf("NameKey = %q, want %q", got, want)
	}
}
