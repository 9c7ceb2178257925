package models

type ProgressStatus string

const (
	ProgressPending   ProgressStatus = "pending"
	ProgressCompleted ProgressStatus = "completed"
	ProgressOverdone  ProgressStatus = "overdone"
)

// PlanProgress is one dashboard row: a plan plus the time logged against it on the viewed date.
type PlanProgress struct {
	Plan         Plan           `json:"plan"`
	BaseSeconds  int64          `json:"base_seconds"` // closed sessions
	LiveSeconds  int64          `json:"live_seconds"` // running session, today only
	TotalSeconds int64          `json:"total_seconds"`
	Progress     float64        `json:"progress"` // total / target, uncapped
	Status       ProgressStatus `json:"status"`
	Active       bool           `json:"active"` // plan backs the running session
}
