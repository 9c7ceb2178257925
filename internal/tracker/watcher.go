package tracker

import "sync"

// TargetWatcher reports the first time a session's plan total crosses its target.
type TargetWatcher struct {
	mu       sync.Mutex
	notified map[string]bool
}

func NewTargetWatcher() *TargetWatcher {
	return &TargetWatcher{notified: make(map[string]bool)}
}

// Crossed returns true once per session, on the first call where totalSeconds reaches the target.
// Sessions that start already past the target never fire.
func (w *TargetWatcher) Crossed(sessionID string, baseSeconds, liveSeconds int64, targetMinutes int) bool {
	if sessionID == "" || targetMinutes <= 0 {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, seen := w.notified[sessionID]; seen {
		return false
	}
	target := int64(targetMinutes) * 60
	if baseSeconds >= target {
		w.notified[sessionID] = false
		return false
	}
	if baseSeconds+liveSeconds < target {
		return false
	}
	w.notified[sessionID] = true
	return true
}
