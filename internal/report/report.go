// Package report aggregates closed sessions into per-category planned-vs-actual
// summaries over a rolling or calendar week.
package report

import (
	"math"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/constants"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/scheduler"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/utils"
)

type Consistency string

const (
	ConsistencyHigh   Consistency = "High"
	ConsistencyMedium Consistency = "Medium"
	ConsistencyLow    Consistency = "Low"
)

type Balance string

const (
	BalanceStable         Balance = "Stable"
	BalanceSlightlySkewed Balance = "Slightly Skewed"
	BalanceSkewed         Balance = "Skewed"
)

// CategoryReport is one category's planned-vs-actual row. Diff is positive when overspent.
type CategoryReport struct {
	Category            models.Category `json:"category"`
	Label               string          `json:"label"`
	PlannedDailyMinutes int             `json:"planned_daily_minutes"`
	ActualAvgMinutes    float64         `json:"actual_avg_minutes"`
	DiffMinutes         float64         `json:"diff_minutes"`
	PresentDays         int             `json:"present_days"`
	Consistency         Consistency     `json:"consistency"`
}

// Summary holds the window-wide scalars. BalanceScore is the mean of
// |diff|/planned over categories that have a plan.
type Summary struct {
	Window           scheduler.Window `json:"window"`
	MostOverspent    models.Category  `json:"most_overspent"`
	MostUnderspent   models.Category  `json:"most_underspent"`
	BalanceScore     float64          `json:"balance_score"`
	BalanceIndex     Balance          `json:"balance_index"`
	AvgTrackedMin    float64          `json:"avg_tracked_minutes"`
	FormattedAvgTime string           `json:"formatted_avg_time"`
}

type Report struct {
	Categories []CategoryReport `json:"categories"`
	Summary    Summary          `json:"summary"`
}

// Row returns the report row for c.
func (r Report) Row(c models.Category) (CategoryReport, bool) {
	for _, row := range r.Categories {
		if row.Category == c {
			return row, true
		}
	}
	return CategoryReport{}, false
}

// Aggregate computes the report for sessions inside window.
//
// plans is the owner's full plan set: planned minutes count active plans only,
// while sessions are attributed through any plan, so time logged against a
// since-deactivated plan still lands in its category.
func Aggregate(plans []models.Plan, sessions []models.ActivitySession, window scheduler.Window) Report {
	dayCount := window.DayCount
	if dayCount < 1 {
		dayCount = 1
	}

	categoryOf := make(map[string]models.Category, len(plans))
	planned := make(map[models.Category]int)
	for _, p := range plans {
		cat := models.NormalizeCategory(p.Category)
		categoryOf[p.ID] = cat
		if p.Active {
			planned[cat] += p.TargetMinutes
		}
	}

	actual := make(map[models.Category]int64)
	present := make(map[models.Category]map[string]struct{})
	var trackedSeconds int64
	for _, s := range sessions {
		if s.IsOpen() || !window.Contains(s.ActivityDate) {
			continue
		}
		trackedSeconds += s.Seconds()
		cat, ok := categoryOf[s.PlanID]
		if !ok {
			continue
		}
		actual[cat] += s.Seconds()
		if present[cat] == nil {
			present[cat] = make(map[string]struct{})
		}
		present[cat][s.ActivityDate] = struct{}{}
	}

	rows := make([]CategoryReport, 0, len(models.Categories))
	for _, cat := range models.Categories {
		avg := float64(actual[cat]) / 60 / float64(dayCount)
		days := len(present[cat])
		rows = append(rows, CategoryReport{
			Category:            cat,
			Label:               cat.Label(),
			PlannedDailyMinutes: planned[cat],
			ActualAvgMinutes:    avg,
			DiffMinutes:         avg - float64(planned[cat]),
			PresentDays:         days,
			Consistency:         consistencyTier(days, dayCount),
		})
	}

	avgTracked := float64(trackedSeconds) / 60 / float64(dayCount)
	score := balanceScore(rows)
	over, under := extremes(rows)

	return Report{
		Categories: rows,
		Summary: Summary{
			Window:           window,
			MostOverspent:    over,
			MostUnderspent:   under,
			BalanceScore:     score,
			BalanceIndex:     balanceTier(score),
			AvgTrackedMin:    avgTracked,
			FormattedAvgTime: utils.FormatHHMM(int(math.Floor(avgTracked))),
		},
	}
}

func consistencyTier(presentDays, dayCount int) Consistency {
	switch {
	case float64(presentDays) >= constants.ConsistencyHighRatio*float64(dayCount):
		return ConsistencyHigh
	case float64(presentDays) >= constants.ConsistencyMediumRatio*float64(dayCount):
		return ConsistencyMedium
	}
	return ConsistencyLow
}

// extremes picks the max and min diff rows; the first row wins ties.
func extremes(rows []CategoryReport) (over, under models.Category) {
	if len(rows) == 0 {
		return "", ""
	}
	maxRow, minRow := rows[0], rows[0]
	for _, r := range rows[1:] {
		if r.DiffMinutes > maxRow.DiffMinutes {
			maxRow = r
		}
		if r.DiffMinutes < minRow.DiffMinutes {
			minRow = r
		}
	}
	return maxRow.Category, minRow.Category
}

func balanceScore(rows []CategoryReport) float64 {
	var sum float64
	n := 0
	for _, r := range rows {
		if r.PlannedDailyMinutes == 0 {
			continue
		}
		sum += math.Abs(r.DiffMinutes) / float64(r.PlannedDailyMinutes)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func balanceTier(score float64) Balance {
	switch {
	case score < constants.BalanceStableBelow:
		return BalanceStable
	case score < constants.BalanceSlightlySkewedBelow:
		return BalanceSlightlySkewed
	}
	return BalanceSkewed
}
