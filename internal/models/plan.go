package models

import (
	"fmt"
	"strings"
)

type DayType string

const (
	DayTypeWeekday DayType = "weekday"
	DayTypeWeekend DayType = "weekend"
	DayTypeHoliday DayType = "holiday"
)

// DayTypes lists day types in display order.
var DayTypes = []DayType{DayTypeWeekday, DayTypeWeekend, DayTypeHoliday}

// ParseDayType accepts a day type name in any case.
func ParseDayType(s string) (DayType, error) {
	switch DayType(strings.ToLower(strings.TrimSpace(s))) {
	case DayTypeWeekday:
		return DayTypeWeekday, nil
	case DayTypeWeekend:
		return DayTypeWeekend, nil
	case DayTypeHoliday:
		return DayTypeHoliday, nil
	}
	return "", fmt.Errorf("invalid day type: %q (expected weekday, weekend or holiday)", s)
}

func (d DayType) Valid() bool {
	return d == DayTypeWeekday || d == DayTypeWeekend || d == DayTypeHoliday
}

type Category string

const (
	CategoryWork       Category = "work"
	CategoryHealth     Category = "health"
	CategorySleep      Category = "sleep"
	CategoryEssentials Category = "essentials"
	CategoryLeisure    Category = "leisure"
	CategoryLearning   Category = "learning"

	// legacyCategoryEducation was renamed to learning; stored rows may still carry it.
	legacyCategoryEducation Category = "education"
)

// Categories is the fixed enumeration order used by reports and pickers.
var Categories = []Category{
	CategoryWork,
	CategoryHealth,
	CategorySleep,
	CategoryEssentials,
	CategoryLeisure,
	CategoryLearning,
}

var categoryLabels = map[Category]string{
	CategoryWork:       "Work",
	CategoryHealth:     "Health",
	CategorySleep:      "Sleep",
	CategoryEssentials: "Essentials",
	CategoryLeisure:    "Leisure",
	CategoryLearning:   "Learning",
}

// NormalizeCategory lowercases and maps legacy names onto the current set.
func NormalizeCategory(c Category) Category {
	c = Category(strings.ToLower(strings.TrimSpace(string(c))))
	if c == legacyCategoryEducation {
		return CategoryLearning
	}
	return c
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[NormalizeCategory(c)]
	return ok
}

// Label returns the display label, or the raw value for unknown categories.
func (c Category) Label() string {
	if l, ok := categoryLabels[NormalizeCategory(c)]; ok {
		return l
	}
	return string(c)
}

// Plan is a daily time target for one activity on one day type.
type Plan struct {
	ID            string   `json:"id"`
	OwnerID       string   `json:"owner_id"`
	ActivityName  string   `json:"activity_name"`
	DayType       DayType  `json:"day_type"`
	Category      Category `json:"category"`
	TargetMinutes int      `json:"target_minutes"`
	Active        bool     `json:"active"`
}
