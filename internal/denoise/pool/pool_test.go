package pool

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSubmitWaitRunsJob(t *testing.T) {
	p := New(2)
	defer p.Close()

	var ran atomic.Bool
	id := p.Submit(func() { ran.Store(true) })
	p.Wait(id)

	require.True(t, ran.Load())
}

func TestWaitAllBlocksUntilEveryJobCompletes(t *testing.T) {
	p := New(4)
	defer p.Close()

	var count atomic.Int32
	ids := make([]ID, 0, 8)
	for i := 0; i < 8; i++ {
		ids = append(ids, p.Submit(func() {
			time.Sleep(time.Millisecond)
			count.Add(1)
		}))
	}

	p.WaitAll(ids)
	require.EqualValues(t, 8, count.Load())
}

func TestForEachCoversEveryIndexExactlyOnce(t *testing.T) {
	p := New(3)
	defer p.Close()

	const n = 17
	seen := make([]atomic.Int32, n)

	p.ForEach(n, 4, func(i int) {
		seen[i].Add(1)
	})

	for i := 0; i < n; i++ {
		require.EqualValues(t, 1, seen[i].Load(), "index %d visited %d times", i, seen[i].Load())
	}
}

func TestForEachWithNonPositiveN(t *testing.T) {
	p := New(1)
	defer p.Close()

	called := false
	p.ForEach(0, 4, func(int) { called = true })
	require.False(t, called)
}

func TestForEachDefaultsBatchSizeToN(t *testing.T) {
	p := New(2)
	defer p.Close()

	var count atomic.Int32
	p.ForEach(5, 0, func(int) { count.Add(1) })
	require.EqualValues(t, 5, count.Load())
}
