package planner

import "github.com/zeu5/gridnav/grid"

// nodeItem is one open-set entry. Entries are never updated in place; a
// better route pushes a fresh entry and the old one goes stale.
type nodeItem struct {
	cell grid.Cell
	g    float64
	f    float64
	seq  uint64 // insertion order, breaks f ties
}

// openSet is a min-heap on (f, seq).
type openSet []*nodeItem

func (pq openSet) Len() int { return len(pq) }

func (pq openSet) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].seq < pq[j].seq
}

func (pq openSet) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *openSet) Push(x interface{}) {
	*pq = append(*pq, x.(*nodeItem))
}

func (pq *openSet) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}
