// Package scheduler decides which plan set applies to a date and which dates a
// report window covers.
package scheduler

import (
	"fmt"
	"strings"
	"time"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/constants"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/utils"
)

// Classify maps a YYYY-MM-DD date to weekday or weekend. The date is read at
// local noon so DST shifts never move it across a day boundary. Holiday is
// never returned.
func Classify(date string) (models.DayType, error) {
	t, err := utils.DateAtNoon(date, time.UTC)
	if err != nil {
		return "", fmt.Errorf("invalid date format: %w", err)
	}
	return ClassifyTime(t), nil
}

// ClassifyTime classifies the calendar day of t in t's own location.
func ClassifyTime(t time.Time) models.DayType {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return models.DayTypeWeekend
	default:
		return models.DayTypeWeekday
	}
}

// PlansForDayType filters plans down to the active ones for dayType,
// preserving input order.
func PlansForDayType(plans []models.Plan, dayType models.DayType) []models.Plan {
	out := make([]models.Plan, 0, len(plans))
	for _, p := range plans {
		if p.Active && p.DayType == dayType {
			out = append(out, p)
		}
	}
	return out
}

// PlansForDate returns the active plans that apply to a date's classified day type.
func PlansForDate(plans []models.Plan, date string) (models.DayType, []models.Plan, error) {
	dt, err := Classify(date)
	if err != nil {
		return "", nil, err
	}
	return dt, PlansForDayType(plans, dt), nil
}

type RangeKind string

const (
	RangeRolling  RangeKind = "rolling"
	RangeCalendar RangeKind = "calendar"
)

func ParseRangeKind(s string) (RangeKind, error) {
	switch RangeKind(strings.ToLower(strings.TrimSpace(s))) {
	case RangeRolling:
		return RangeRolling, nil
	case RangeCalendar:
		return RangeCalendar, nil
	}
	return "", fmt.Errorf("invalid report range: %q (expected rolling or calendar)", s)
}

// Window is an inclusive date range plus the number of days averages are divided by.
type Window struct {
	Kind     RangeKind `json:"kind"`
	From     string    `json:"from"`
	To       string    `json:"to"`
	DayCount int       `json:"day_count"`
}

func (w Window) Range() models.DateRange {
	return models.DateRange{From: w.From, To: w.To}
}

// Contains reports whether date lies inside the window. Dates compare lexically.
func (w Window) Contains(date string) bool {
	return date >= w.From && date <= w.To
}

// ReportWindow computes the window ending on today.
//
// Rolling covers the seven days ending today. Calendar covers Monday through
// today, with Sunday counted as the seventh day of the week that began on the
// preceding Monday.
func ReportWindow(today string, kind RangeKind) (Window, error) {
	t, err := utils.DateAtNoon(today, time.UTC)
	if err != nil {
		return Window{}, fmt.Errorf("invalid date format: %w", err)
	}

	switch kind {
	case RangeRolling:
		from := t.AddDate(0, 0, -(constants.RollingWindowDays - 1))
		return Window{
			Kind:     RangeRolling,
			From:     utils.FormatDate(from),
			To:       today,
			DayCount: constants.RollingWindowDays,
		}, nil
	case RangeCalendar:
		ordinal := WeekdayOrdinal(t.Weekday())
		from := t.AddDate(0, 0, -(ordinal - 1))
		return Window{
			Kind:     RangeCalendar,
			From:     utils.FormatDate(from),
			To:       today,
			DayCount: max(1, ordinal),
		}, nil
	}
	return Window{}, fmt.Errorf("invalid report range: %q", kind)
}

// WeekdayOrdinal numbers Monday as 1 through Sunday as 7.
func WeekdayOrdinal(d time.Weekday) int {
	if d == time.Sunday {
		return 7
	}
	return int(d)
}
