package tracker

import (
	"sort"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
)

// Rank orders plans for display: the running plan first, then plans by
// recency in history, then everything else in its original order.
func Rank(plans []models.Plan, runningPlanID string, history []string) []models.Plan {
	pos := make(map[string]int, len(history))
	for i, id := range history {
		if _, seen := pos[id]; !seen {
			pos[id] = i
		}
	}
	priority := func(p models.Plan) int {
		if runningPlanID != "" && p.ID == runningPlanID {
			return -1
		}
		if i, ok := pos[p.ID]; ok {
			return i
		}
		return len(history)
	}

	out := append([]models.Plan(nil), plans...)
	sort.SliceStable(out, func(i, j int) bool {
		return priority(out[i]) < priority(out[j])
	})
	return out
}
