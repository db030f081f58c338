package counter

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumMetric(entries []Entry, key Key, metric Metric) int64 {
	var total int64
	for _, e := range entries {
		if e.Key == key {
			total += e.Delta[metric]
		}
	}
	return total
}

func TestIncrementAndDrain(t *testing.T) {
	b := NewBuffer()
	key := Key{Kind: KindPost, ID: 1}

	b.Increment(key, MetricImpressions, 3)
	b.Increment(key, MetricImpressions, 2)
	b.Increment(key, MetricViews, 1)

	entries := b.DrainAll()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(5), entries[0].Delta[MetricImpressions])
	assert.Equal(t, int64(1), entries[0].Delta[MetricViews])

	// 取走后缓冲应为空
	assert.Empty(t, b.DrainAll())
}

func TestIncrementIgnoresNonPositive(t *testing.T) {
	b := NewBuffer()
	key := Key{Kind: KindCategory, ID: 7}

	b.Increment(key, MetricImpressions, 0)
	b.Increment(key, MetricImpressions, -5)

	assert.Empty(t, b.DrainAll())
}

func TestMergeRestoresDelta(t *testing.T) {
	b := NewBuffer()
	key := Key{Kind: KindPost, ID: 9}
	b.Increment(key, MetricViews, 4)

	entries := b.DrainAll()
	require.Len(t, entries, 1)

	b.Merge(entries)
	b.Increment(key, MetricViews, 1)

	again := b.DrainAll()
	assert.Equal(t, int64(5), sumMetric(again, key, MetricViews))
}

// 并发 Increment 与 DrainAll 交错时，快照与剩余缓冲之和必须等于全部增量
func TestConcurrentIncrementDuringDrain(t *testing.T) {
	b := NewBuffer()

	const workers = 16
	const perWorker = 1000

	keys := []Key{
		{Kind: KindPost, ID: 1},
		{Kind: KindPost, ID: 2},
		{Kind: KindCategory, ID: 1},
	}

	var wg sync.WaitGroup
	drained := make(chan []Entry, workers*(perWorker/100))

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				b.Increment(keys[(w+i)%len(keys)], MetricImpressions, 1)
				if i%100 == 0 {
					drained <- b.DrainAll()
				}
			}
		}(w)
	}
	wg.Wait()
	close(drained)

	var total int64
	for entries := range drained {
		for _, key := range keys {
			total += sumMetric(entries, key, MetricImpressions)
		}
	}
	rest := b.DrainAll()
	for _, key := range keys {
		total += sumMetric(rest, key, MetricImpressions)
	}

	assert.Equal(t, int64(workers*perWorker), total)
}
