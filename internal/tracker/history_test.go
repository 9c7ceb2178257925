package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoryPush(t *testing.T) {
	h := NewHistory(3)
	for _, id := range []string{"A", "B", "C"} {
		h.Push(id)
	}
	assert.Equal(t, []string{"C", "B", "A"}, h.Snapshot())

	h.Push("A")
	assert.Equal(t, []string{"A", "C", "B"}, h.Snapshot())

	h.Push("D")
	assert.Equal(t, []string{"D", "A", "C"}, h.Snapshot())
	assert.Equal(t, 3, h.Len())

	h.Push("")
	assert.Equal(t, 3, h.Len())
}

func TestHistoryIndex(t *testing.T) {
	h := NewHistory(5)
	h.Push("A")
	h.Push("B")
	assert.Equal(t, 0, h.Index("B"))
	assert.Equal(t, 1, h.Index("A"))
	assert.Equal(t, -1, h.Index("C"))

	h.Reset()
	assert.Equal(t, 0, h.Len())
}

func TestHistorySnapshotIsCopy(t *testing.T) {
	h := NewHistory(2)
	h.Push("A")
	snap := h.Snapshot()
	snap[0] = "X"
	assert.Equal(t, []string{"A"}, h.Snapshot())
}
