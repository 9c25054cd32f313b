package bucketq

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain[T any](q *Queue[T]) []T {
	var out []T
	for {
		item, ok := q.Pop()
		if !ok {
			return out
		}
		out = append(out, item)
	}
}

func TestQueue_OrderAndFIFO(t *testing.T) {
	q := New[string]()
	q.Push("x", 3.0)
	q.Push("A", 1.0)
	q.Push("y", 2.0)
	q.Push("B", 1.0)

	assert.Equal(t, 4, q.Len())
	assert.Equal(t, []string{"A", "B", "y", "x"}, drain(q))
	assert.True(t, q.Empty())
}

func TestQueue_PopEmpty(t *testing.T) {
	q := New[int]()
	item, ok := q.Pop()
	assert.False(t, ok)
	assert.Zero(t, item)

	_, ok = q.MinKey()
	assert.False(t, ok)
}

func TestQueue_SameBucketIsFIFO(t *testing.T) {
	// 1.04 and 1.01 share key 10, so insertion order wins over value.
	q := New[string]()
	q.Push("first", 1.04)
	q.Push("second", 1.01)
	q.Push("third", 1.09)
	assert.Equal(t, []string{"first", "second", "third"}, drain(q))
}

func TestQueue_Key(t *testing.T) {
	q := New[int]()
	assert.Equal(t, int64(0), q.Key(0))
	assert.Equal(t, int64(0), q.Key(0.09))
	assert.Equal(t, int64(15), q.Key(1.5))
	assert.Equal(t, int64(25), q.Key(2.5))
	assert.Equal(t, int64(0), q.Key(-3))
	assert.Equal(t, int64(0), q.Key(math.NaN()))

	coarse := NewWithPrecision[int](1)
	assert.Equal(t, int64(2), coarse.Key(2.9))
	assert.Equal(t, float64(DefaultPrecision), NewWithPrecision[int](0).Precision())
}

func TestQueue_RejectsInfinity(t *testing.T) {
	q := New[int]()
	assert.False(t, q.Push(1, math.Inf(1)))
	assert.True(t, q.Empty())
	assert.Zero(t, q.Buckets())
}

func TestQueue_EmptyBucketsAreErased(t *testing.T) {
	q := New[int]()
	q.Push(1, 0.5)
	q.Push(2, 0.5)
	q.Push(3, 4.0)
	assert.Equal(t, 2, q.Buckets())

	k, ok := q.MinKey()
	require.True(t, ok)
	assert.Equal(t, int64(5), k)

	q.Pop()
	assert.Equal(t, 2, q.Buckets())
	q.Pop()
	assert.Equal(t, 1, q.Buckets())

	k, _ = q.MinKey()
	assert.Equal(t, int64(40), k)
	q.Pop()
	assert.Zero(t, q.Buckets())
}

func TestQueue_InterleavedPushPop(t *testing.T) {
	// Dijkstra-style use: pushes never go below the last popped key.
	q := New[float64]()
	q.Push(0, 0)
	var popped []float64
	for len(popped) < 50 {
		v, ok := q.Pop()
		require.True(t, ok)
		popped = append(popped, v)
		q.Push(v+1.5, v+1.5)
		q.Push(v+1.0, v+1.0)
	}
	for i := 1; i < len(popped); i++ {
		assert.LessOrEqual(t, q.Key(popped[i-1]), q.Key(popped[i]))
	}
}

func TestQueue_MatchesSortedKeys(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	q := New[int]()
	prios := make([]float64, 500)
	for i := range prios {
		prios[i] = rng.Float64() * 100
		q.Push(i, prios[i])
	}

	got := drain(q)
	require.Len(t, got, len(prios))

	keys := make([]int64, len(got))
	for i, idx := range got {
		keys[i] = q.Key(prios[idx])
	}
	assert.True(t, sort.SliceIsSorted(keys, func(i, j int) bool { return keys[i] < keys[j] }))

	// Within a key, items keep insertion order.
	for i := 1; i < len(got); i++ {
		if keys[i] == keys[i-1] {
			assert.Less(t, got[i-1], got[i])
		}
	}
}
