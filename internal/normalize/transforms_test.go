package normalize

import (
	"testing"
	"time"
)

func TestParseVisitDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"strict yyyymmdd", "20240115", "2024-01-15", true},
		{"iso", "2024-01-15", "2024-01-15", true},
		{"slashes", "2024/01/15", "2024-01-15", true},
		{"slashes no padding", "2024/1/5", "2024-01-05", true},
		{"datetime truncated to day", "2024/01/15 13:45:00", "2024-01-15", true},
		{"japanese era-free", "2024年1月15日", "2024-01-15", true},
		{"whitespace tolerated", "  20240115  ", "2024-01-15", true},
		{"empty", "", "", false},
		{"eight digits but not a date", "20241399", "", false},
		{"garbage", "next tuesday", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseVisitDate(tt.in)
			if ok != tt.ok {
				t.Fatalf("ParseVisitDate(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if !ok {
				return
			}
			if got.Format("2006-01-02") != tt.want {
				t.Errorf("ParseVisitDate(%q) = %s, want %s", tt.in, got.Format("2006-01-02"), tt.want)
			}
			if got.Location() != time.UTC {
				t.Errorf("ParseVisitDate(%q) location = %v, want UTC", tt.in, got.Location())
			}
			if got.Hour() != 0 || got.Minute() != 0 {
				t.Errorf("ParseVisitDate(%q) not truncated to day: %v", tt.in, got)
			}
		})
	}
}

func TestParseFlag(t *testing.T) {
	tests := []struct {
		in   string
		want Flag
	}{
		{"はい", FlagTrue},
		{"はい、初めてです", FlagTrue},
		{"true", FlagTrue},
		{"TRUE", FlagTrue},
		{"yes", FlagTrue},
		{"1", FlagTrue},
		{"いいえ", FlagFalse},
		{"false", FlagFalse},
		{"no", FlagFalse},
		{"0", FlagFalse},
		{"", FlagUnknown},
		{"   ", FlagUnknown},
		{"maybe", FlagUnknown},
		{"2回目です", FlagUnknown},
	}

	for _, tt := range tests {
		if got := ParseFlag(tt.in); got != tt.want {
			t.Errorf("ParseFlag(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"090-1234-5678", "09012345678"},
		{"090 1234 5678", "09012345678"},
		{"(03) 1234-5678", "0312345678"},
		{"09012345678", "09012345678"},
		{"no digits", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizePhone(tt.in); got != tt.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ascii space stripped", "Yamada Taro", "YamadaTaro"},
		{"full width space stripped", "山田　太郎", "山田太郎"},
		{"half width katakana widened", "ﾔﾏﾀﾞ", "ヤマダ"},
		{"already full width untouched", "ヤマダ", "ヤマダ"},
		{"leading trailing trimmed", " 山田 ", "山田"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.in); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildNameKey(t *testing.T) {
	tests := []struct {
		kana, kanji, want string
	}{
		{"ヤマダタロウ", "山田太郎", "ヤマダタロウ#山田太郎"},
		{"ヤマダタロウ", "", "ヤマダタロウ"},
		{"", "山田太郎", "山田太郎"},
		{"", "", ""},
	}

	for _, tt := range tests {
		if got := BuildNameKey(tt.kana, tt.kanji); got != tt.want {
			t.Errorf("BuildNameKey(%q, %q) = %q, want %q", tt.kana, tt.kanji, got, tt.want)
		}
	}
}

func TestCleanCustomerNumber(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"12345", "12345"},
		{"12345.0", "12345"},
		{"1.234568e+09", "1234568000"},
		{"1234568000", "1234568000"},
		{"", ""},
		{"ABC-123", "ABC-123"},
	}

	for _, tt := range tests {
		if got := CleanCustomerNumber(tt.in); got != tt.want {
			t.Errorf("CleanCustomerNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"5500", 5500},
		{"5,500", 5500},
		{"¥5,500", 5500},
		{"￥12000", 12000},
		{"", 0},
		{"unknown", 0},
	}

	for _, tt := range tests {
		if got := ParseAmount(tt.in); got != tt.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
