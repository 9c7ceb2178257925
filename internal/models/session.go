package models

import "time"

// ActivitySession is one timed run of a plan's activity. EndTime is nil while open.
type ActivitySession struct {
	ID              string     `json:"id"`
	OwnerID         string     `json:"owner_id"`
	PlanID          string     `json:"plan_id"`
	ActivityName    string     `json:"activity_name"` // snapshot taken at start
	ActivityDate    string     `json:"activity_date"` // YYYY-MM-DD format
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationSeconds *int64     `json:"duration_seconds,omitempty"`
}

// IsOpen reports whether the session has not been stopped yet.
func (s ActivitySession) IsOpen() bool {
	return s.EndTime == nil
}

// Seconds returns the recorded duration, 0 for open sessions.
func (s ActivitySession) Seconds() int64 {
	if s.DurationSeconds == nil {
		return 0
	}
	return *s.DurationSeconds
}

// NewSession holds the fields supplied when opening a session.
type NewSession struct {
	OwnerID      string
	PlanID       string
	ActivityName string
	ActivityDate string
	StartTime    time.Time
}

// RunningSession is the in-memory projection of the open session.
type RunningSession struct {
	SessionID    string    `json:"session_id"`
	PlanID       string    `json:"plan_id"`
	ActivityName string    `json:"activity_name"`
	StartTime    time.Time `json:"start_time"`
}

// RunningFromSession projects an open session record.
func RunningFromSession(s ActivitySession) RunningSession {
	return RunningSession{
		SessionID:    s.ID,
		PlanID:       s.PlanID,
		ActivityName: s.ActivityName,
		StartTime:    s.StartTime,
	}
}

// DailyTotal is the sum of closed session durations for one date.
type DailyTotal struct {
	ActivityDate string `json:"activity_date"`
	TotalSeconds int64  `json:"total_seconds"`
}

// PlanTotal is the closed session time logged against one plan on one date.
type PlanTotal struct {
	PlanID  string `json:"plan_id"`
	Seconds int64  `json:"seconds"`
}

// DateRange is an inclusive range of YYYY-MM-DD dates.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}
