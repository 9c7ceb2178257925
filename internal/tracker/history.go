package tracker

import "sync"

// History is a bounded most-recent-first list of started plan ids.
type History struct {
	mu    sync.Mutex
	limit int
	ids   []string
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = 1
	}
	return &History{limit: limit}
}

// Push moves planID to the front, dropping the oldest entry past the limit.
func (h *History) Push(planID string) {
	if planID == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]string, 0, len(h.ids)+1)
	out = append(out, planID)
	for _, id := range h.ids {
		if id != planID {
			out = append(out, id)
		}
	}
	if len(out) > h.limit {
		out = out[:h.limit]
	}
	h.ids = out
}

// Index returns planID's position, or -1.
func (h *History) Index(planID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, id := range h.ids {
		if id == planID {
			return i
		}
	}
	return -1
}

func (h *History) Snapshot() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.ids...)
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.ids)
}

func (h *History) Reset() {
	h.mu.Lock()
	h.ids = nil
	h.mu.Unlock()
}
