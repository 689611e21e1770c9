package memory

import "github.com/sandevgo/everebot/internal/core"

// History is an ordered, oldest-first sequence of records that never holds
// more than its capacity. Pushing onto a full history drops the oldest record.
type History struct {
	records  []core.Record
	capacity int
}

func NewHistory(capacity int, seed ...core.Record) *History {
	if capacity < 0 {
		capacity = 0
	}
	h := &History{
		records:  make([]core.Record, 0, min(capacity, len(seed))),
		capacity: capacity,
	}
	for _, r := range seed {
		h.Push(r)
	}
	return h
}

// Push appends r and reports whether an older record was evicted.
func (h *History) Push(r core.Record) bool {
	if h.capacity == 0 {
		return false
	}
	if len(h.records) < h.capacity {
		h.records = append(h.records, r)
		return false
	}
	copy(h.records, h.records[1:])
	h.records[len(h.records)-1] = r
	return true
}

func (h *History) Len() int { return len(h.records) }

func (h *History) Cap() int { return h.capacity }

// Records returns a copy of the history, oldest first.
func (h *History) Records() []core.Record {
	out := make([]core.Record, len(h.records))
	copy(out, h.records)
	return out
}
