package utils

import (
	"testing"
	"time"
)

func TestContainsAny(t *testing.T) {
	tests := []struct {
		str     string
		substrs []string
		want    bool
	}{
		{"mình muốn tư vấn lại từ đầu", []string{"tư vấn lại", "làm lại"}, true},
		{"laptop gaming", []string{"tư vấn lại"}, false},
		{"anything", nil, false},
	}
	for _, tt := range tests {
		if got := ContainsAny(tt.str, tt.substrs); got != tt.want {
			t.Errorf("ContainsAny(%q, %v) = %v, want %v", tt.str, tt.substrs, got, tt.want)
		}
	}
}

func TestGetTTLWithJitter(t *testing.T) {
	if got := GetTTLWithJitter(0); got != 0 {
		t.Errorf("GetTTLWithJitter(0) = %v", got)
	}
	if got := GetTTLWithJitter(5); got != 5*time.Second {
		t.Errorf("GetTTLWithJitter(5) = %v", got)
	}
	for i := 0; i < 50; i++ {
		got := GetTTLWithJitter(3600)
		if got < time.Hour || got >= time.Hour+360*time.Second {
			t.Fatalf("GetTTLWithJitter(3600) = %v, out of range", got)
		}
	}
}

func TestParseDateFromLogFileName(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		name   string
		want   time.Time
		wantOk bool
	}{
		{"run.log.2025-10-28", time.Date(2025, 10, 28, 0, 0, 0, 0, loc), true},
		{"gin.log.2024-01-02", time.Date(2024, 1, 2, 0, 0, 0, 0, loc), true},
		{"run.log", time.Time{}, false},
		{"nodate", time.Time{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseDateFromLogFileName(tt.name, loc)
		if ok != tt.wantOk || !got.Equal(tt.want) {
			t.Errorf("ParseDateFromLogFileName(%q) = (%v, %v), want (%v, %v)", tt.name, got, ok, tt.want, tt.wantOk)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		str  string
		max  int
		want string
	}{
		{"xin chào", 3, "xin..."},
		{"điện thoại", 5, "điện ..."},
		{"ngắn", 10, "ngắn"},
		{"bất kỳ", 0, "bất kỳ"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.str, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.str, tt.max, got, tt.want)
		}
	}
}

func TestNumberFormat(t *testing.T) {
	if got := NumberFormat(3.14159); got != 3.14 {
		t.Errorf("NumberFormat(3.14159) = %v", got)
	}
	if got := NumberFormat(float32(2.5), 0); got != 3 {
		t.Errorf("NumberFormat(2.5, 0) = %v", got)
	}
}
