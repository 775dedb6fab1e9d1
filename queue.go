package throng

import "container/heap"

// entry pairs an item with a monotonically increasing sequence number so
// that items comparing equal keep their insertion order.
type entry[T Item[T]] struct {
	item T
	seq  uint64
}

// itemHeap is a max-heap over item priority, stable on insertion order.
type itemHeap[T Item[T]] []entry[T]

func (h itemHeap[T]) Len() int { return len(h) }

func (h itemHeap[T]) Less(i, j int) bool {
	if h[i].item.Less(h[j].item) {
		return false
	}
	if h[j].item.Less(h[i].item) {
		return true
	}
	// Neither compares less: equal priority, older entry wins.
	return h[i].seq < h[j].seq
}

func (h itemHeap[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *itemHeap[T]) Push(x any) { *h = append(*h, x.(entry[T])) }

func (h *itemHeap[T]) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = entry[T]{} // release the item reference
	*h = old[:n-1]
	return e
}

// itemQueue is the pool's work queue: a stable priority queue. It is not
// self-synchronized; the pool holds its queue lock around every call, only
// for the duration of the structural mutation.
type itemQueue[T Item[T]] struct {
	heap itemHeap[T]
	seq  uint64
}

// push inserts item by priority.
func (q *itemQueue[T]) push(item T) {
	q.seq++
	heap.Push(&q.heap, entry[T]{item: item, seq: q.seq})
}

// pop removes and returns the highest-priority item. The queue must not
// be empty.
func (q *itemQueue[T]) pop() T {
	return heap.Pop(&q.heap).(entry[T]).item
}

func (q *itemQueue[T]) len() int { return len(q.heap) }
