package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	for _, tz := range []string{"", "Local"} {
		loc, err := LoadLocation(tz)
		if err != nil || loc != time.Local {
			t.Errorf("LoadLocation(%q) = %v, %v; want time.Local", tz, loc, err)
		}
	}
	if loc, err := LoadLocation("UTC"); err != nil || loc.String() != "UTC" {
		t.Errorf("LoadLocation(UTC) = %v, %v", loc, err)
	}
	if _, err := LoadLocation("Mars/Olympus_Mons"); err == nil {
		t.Error("expected error for unknown zone")
	}
}

func TestValidateTimezone(t *testing.T) {
	cases := map[string]bool{
		"":                  true,
		"Local":             true,
		"UTC":               true,
		"Asia/Kolkata":      true,
		"Mars/Olympus_Mons": false,
		"utc+5":             false,
	}
	for tz, want := range cases {
		if got := ValidateTimezone(tz); got != want {
			t.Errorf("ValidateTimezone(%q) = %v, want %v", tz, got, want)
		}
	}
}

func TestValidateDate(t *testing.T) {
	cases := map[string]bool{
		"2024-01-08": true,
		"2024-02-29": true,
		"2023-02-29": false,
		"2024-1-8":   false,
		"today":      false,
	}
	for in, want := range cases {
		if got := ValidateDate(in); got != want {
			t.Errorf("ValidateDate(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDateAtNoon(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// US spring-forward day: midnight plus 12h would land at 13:00.
	got, err := DateAtNoon("2024-03-10", ny)
	if err != nil {
		t.Fatalf("DateAtNoon() error = %v", err)
	}
	if got.Hour() != 12 || got.Day() != 10 || got.Weekday() != time.Sunday {
		t.Errorf("DateAtNoon() = %v, want Sunday 12:00", got)
	}
	if FormatDate(got) != "2024-03-10" {
		t.Errorf("FormatDate() = %q", FormatDate(got))
	}

	if _, err := DateAtNoon("not-a-date", ny); err == nil {
		t.Error("DateAtNoon() expected error for invalid date")
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		date string
		n    int
		want string
	}{
		{"2024-01-07", -6, "2024-01-01"},
		{"2024-02-28", 1, "2024-02-29"},
		{"2023-12-31", 1, "2024-01-01"},
		{"2024-01-03", 0, "2024-01-03"},
	}
	for _, tt := range tests {
		got, err := AddDays(tt.date, tt.n)
		if err != nil {
			t.Fatalf("AddDays(%q, %d) error = %v", tt.date, tt.n, err)
		}
		if got != tt.want {
			t.Errorf("AddDays(%q, %d) = %q, want %q", tt.date, tt.n, got, tt.want)
		}
	}
	if _, err := AddDays("2024-13-01", 1); err == nil {
		t.Error("AddDays() expected error for invalid month")
	}
}

func TestFormatters(t *testing.T) {
	hhmm := map[int]string{0: "00:00", 5: "00:05", 90: "01:30", 1440: "24:00", -3: "00:00"}
	for in, want := range hhmm {
		if got := FormatHHMM(in); got != want {
			t.Errorf("FormatHHMM(%d) = %q, want %q", in, got, want)
		}
	}

	elapsed := map[int64]string{0: "0:00:00", 59: "0:00:59", 125: "0:02:05", 3661: "1:01:01", -10: "0:00:00"}
	for in, want := range elapsed {
		if got := FormatElapsed(in); got != want {
			t.Errorf("FormatElapsed(%d) = %q, want %q", in, got, want)
		}
	}

	hm := map[int]string{0: "0m", 45: "45m", 60: "1h 0m", 1380: "23h 0m", 1441: "24h 1m"}
	for in, want := range hm {
		if got := FormatHoursMinutes(in); got != want {
			t.Errorf("FormatHoursMinutes(%d) = %q, want %q", in, got, want)
		}
	}
}
