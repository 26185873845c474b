package spkernel

import (
	"math"

	"github.com/Khoshkhah/h3-routing-platform/pkg/store"
)

// Inf is the "unreached" distance sentinel used throughout this package.
const Inf = math.MaxUint32

// PQItem is one priority-queue entry: an edge and its tentative cost.
type PQItem struct {
	Edge store.EdgeID
	Cost uint32
}

// MinHeap is a concrete-typed binary min-heap, carried over from the
// teacher's routing priority queue rather than container/heap, to avoid
// interface boxing on the hottest loop in the contraction pipeline.
type MinHeap struct {
	items []PQItem
}

func (h *MinHeap) Len() int { return len(h.items) }

func (h *MinHeap) Push(edge store.EdgeID, cost uint32) {
	h.items = append(h.items, PQItem{edge, cost})
	h.siftUp(len(h.items) - 1)
}

func (h *MinHeap) Pop() PQItem {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

func (h *MinHeap) PeekCost() uint32 {
	if len(h.items) == 0 {
		return Inf
	}
	return h.items[0].Cost
}

func (h *MinHeap) Reset() {
	h.items = h.items[:0]
}

func (h *MinHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.items[i].Cost >= h.items[parent].Cost {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *MinHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2
		if left < n && h.items[left].Cost < h.items[smallest].Cost {
			smallest = left
		}
		if right < n && h.items[right].Cost < h.items[smallest].Cost {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}
