// Package bucketq provides a bucketed minimum-priority queue for search
// frontiers whose priorities are nonnegative reals accumulated in small
// fixed increments.
//
// Priorities are discretized by a precision factor and floored to an integer
// key. Items sharing a key come out in insertion order, which makes search
// expansion order reproducible. Live keys are tracked in a small min-heap so
// memory grows with the number of nonempty buckets rather than with the
// numeric range of the priorities.
package bucketq

import (
	"math"

	g "github.com/zyedidia/generic"
	"github.com/zyedidia/generic/heap"
)

// DefaultPrecision gives a quantization step of 0.1, well below the
// smallest cost increment of the movement model.
const DefaultPrecision = 10

type bucket[T any] struct {
	items []T
	head  int
}

func (b *bucket[T]) empty() bool {
	return b.head >= len(b.items)
}

func (b *bucket[T]) pop() T {
	var zero T
	item := b.items[b.head]
	b.items[b.head] = zero
	b.head++
	return item
}

// Queue is a bucketed min-priority queue. It is not safe for concurrent use;
// each search allocates its own.
type Queue[T any] struct {
	precision float64
	buckets   map[int64]*bucket[T]
	keys      *heap.Heap[int64]
	size      int
}

// New creates an empty queue with DefaultPrecision.
func New[T any]() *Queue[T] {
	return NewWithPrecision[T](DefaultPrecision)
}

// NewWithPrecision creates an empty queue whose keys are
// floor(priority * precision). Non-positive precision falls back to the
// default.
func NewWithPrecision[T any](precision float64) *Queue[T] {
	if precision <= 0 || math.IsNaN(precision) || math.IsInf(precision, 0) {
		precision = DefaultPrecision
	}
	return &Queue[T]{
		precision: precision,
		buckets:   make(map[int64]*bucket[T]),
		keys:      heap.New[int64](g.Less[int64]),
	}
}

// Precision returns the discretization factor.
func (q *Queue[T]) Precision() float64 {
	return q.precision
}

// Key returns the bucket key a priority maps to.
func (q *Queue[T]) Key(priority float64) int64 {
	if math.IsNaN(priority) || priority <= 0 {
		return 0
	}
	k := math.Floor(priority * q.precision)
	if k >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(k)
}

// Push enqueues item at priority. An infinite priority is refused and Push
// returns false.
func (q *Queue[T]) Push(item T, priority float64) bool {
	if math.IsInf(priority, 1) {
		return false
	}
	key := q.Key(priority)
	b, ok := q.buckets[key]
	if !ok {
		b = &bucket[T]{}
		q.buckets[key] = b
		q.keys.Push(key)
	}
	b.items = append(b.items, item)
	q.size++
	return true
}

// Pop removes and returns the oldest item of the lowest nonempty bucket.
// ok is false when the queue is empty.
func (q *Queue[T]) Pop() (item T, ok bool) {
	for {
		key, found := q.keys.Peek()
		if !found {
			return item, false
		}
		b := q.buckets[key]
		if b == nil || b.empty() {
			q.keys.Pop()
			delete(q.buckets, key)
			continue
		}
		item = b.pop()
		q.size--
		if b.empty() {
			q.keys.Pop()
			delete(q.buckets, key)
		}
		return item, true
	}
}

// MinKey returns the lowest live bucket key.
func (q *Queue[T]) MinKey() (int64, bool) {
	return q.keys.Peek()
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	return q.size
}

// Empty returns true if the queue has no items.
func (q *Queue[T]) Empty() bool {
	return q.size == 0
}

// Buckets returns the number of live buckets.
func (q *Queue[T]) Buckets() int {
	return len(q.buckets)
}
