package scheduler

import (
	"testing"
	"time"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		want    models.DayType
		wantErr bool
	}{
		{name: "saturday", date: "2024-01-06", want: models.DayTypeWeekend},
		{name: "sunday", date: "2024-01-07", want: models.DayTypeWeekend},
		{name: "monday", date: "2024-01-08", want: models.DayTypeWeekday},
		{name: "friday", date: "2024-01-12", want: models.DayTypeWeekday},
		{name: "leap day", date: "2024-02-29", want: models.DayTypeWeekday},
		{name: "dst change day", date: "2024-03-10", want: models.DayTypeWeekend},
		{name: "malformed", date: "2024/01/06", wantErr: true},
		{name: "impossible", date: "2024-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.date)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Classify(%q) error = %v, wantErr %v", tt.date, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.date, got, tt.want)
			}
		})
	}
}

func TestClassifyNeverHoliday(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 366; i++ {
		if ClassifyTime(start.AddDate(0, 0, i)) == models.DayTypeHoliday {
			t.Fatalf("day %d classified as holiday", i)
		}
	}
}

func TestPlansForDate(t *testing.T) {
	plans := []models.Plan{
		{ID: "a", DayType: models.DayTypeWeekday, Active: true},
		{ID: "b", DayType: models.DayTypeWeekend, Active: true},
		{ID: "c", DayType: models.DayTypeWeekday, Active: false},
		{ID: "d", DayType: models.DayTypeHoliday, Active: true},
		{ID: "e", DayType: models.DayTypeWeekday, Active: true},
	}

	dt, got, err := PlansForDate(plans, "2024-01-08")
	if err != nil {
		t.Fatalf("PlansForDate() error = %v", err)
	}
	if dt != models.DayTypeWeekday {
		t.Errorf("day type = %q, want weekday", dt)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "e" {
		t.Errorf("PlansForDate() = %+v, want [a e]", got)
	}

	_, got, _ = PlansForDate(plans, "2024-01-06")
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("weekend plans = %+v, want [b]", got)
	}
}

func TestReportWindow(t *testing.T) {
	tests := []struct {
		name         string
		today        string
		kind         RangeKind
		wantFrom     string
		wantDayCount int
	}{
		{name: "rolling", today: "2024-01-10", kind: RangeRolling, wantFrom: "2024-01-04", wantDayCount: 7},
		{name: "rolling across month", today: "2024-03-02", kind: RangeRolling, wantFrom: "2024-02-25", wantDayCount: 7},
		{name: "calendar monday", today: "2024-01-08", kind: RangeCalendar, wantFrom: "2024-01-08", wantDayCount: 1},
		{name: "calendar wednesday", today: "2024-01-10", kind: RangeCalendar, wantFrom: "2024-01-08", wantDayCount: 3},
		{name: "calendar sunday", today: "2024-01-14", kind: RangeCalendar, wantFrom: "2024-01-08", wantDayCount: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := ReportWindow(tt.today, tt.kind)
			if err != nil {
				t.Fatalf("ReportWindow() error = %v", err)
			}
			if w.From != tt.wantFrom || w.To != tt.today {
				t.Errorf("window = %s..%s, want %s..%s", w.From, w.To, tt.wantFrom, tt.today)
			}
			if w.DayCount != tt.wantDayCount {
				t.Errorf("DayCount = %d, want %d", w.DayCount, tt.wantDayCount)
			}
			if !w.Contains(tt.today) || !w.Contains(tt.wantFrom) {
				t.Errorf("window should contain its endpoints")
			}
		})
	}

	if _, err := ReportWindow("2024-01-10", RangeKind("monthly")); err == nil {
		t.Error("expected error for unknown range kind")
	}
}

func TestParseRangeKind(t *testing.T) {
	if k, err := ParseRangeKind("Calendar"); err != nil || k != RangeCalendar {
		t.Errorf("ParseRangeKind(Calendar) = %q, %v", k, err)
	}
	if _, err := ParseRangeKind("weekly"); err == nil {
		t.Error("expected error for weekly")
	}
}
