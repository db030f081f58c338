package counter

import (
	"hash/fnv"
	"strconv"
	"sync"
)

// EntityKind 计数实体类型
type EntityKind string

const (
	KindPost     EntityKind = "post"
	KindCategory EntityKind = "category"
)

// Metric 缓冲计数的指标名，仅允许高频低价值指标走缓冲路径
type Metric string

const (
	MetricViews       Metric = "views"
	MetricImpressions Metric = "impressions"
)

// Key 缓冲计数的复合主键 (实体类型, 实体ID)
type Key struct {
	Kind EntityKind
	ID   uint64
}

// Delta 自上次刷盘以来累积的增量
type Delta map[Metric]int64

// Entry DrainAll 返回的一条待刷盘记录
type Entry struct {
	Key   Key
	Delta Delta
}

const shardCount = 32

type shard struct {
	mu     sync.Mutex
	counts map[Key]Delta
}

// Buffer 进程内计数缓冲，分片锁避免所有请求串行到一把全局锁上。
// 由 wire 构造一次并注入，不使用包级全局实例。
type Buffer struct {
	shards [shardCount]shard
}

func NewBuffer() *Buffer {
	b := &Buffer{}
	for i := range b.shards {
		b.shards[i].counts = make(map[Key]Delta)
	}
	return b
}

func (b *Buffer) shardFor(key Key) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key.Kind))
	_, _ = h.Write([]byte(strconv.FormatUint(key.ID, 10)))
	return &b.shards[h.Sum32()%shardCount]
}

// Increment 累加一次计数，条目不存在时创建
func (b *Buffer) Increment(key Key, metric Metric, n int64) {
	if n <= 0 {
		return
	}
	s := b.shardFor(key)
	s.mu.Lock()
	d, ok := s.counts[key]
	if !ok {
		d = make(Delta, 2)
		s.counts[key] = d
	}
	d[metric] += n
	s.mu.Unlock()
}

// DrainAll 原子地取走并清空全部缓冲计数。
// 每个分片在锁内整体换出 map，并发 Increment 要么落在本次快照里，
// 要么落在换出后的新 map 里，不会丢失也不会重复。
func (b *Buffer) DrainAll() []Entry {
	var entries []Entry
	for i := range b.shards {
		s := &b.shards[i]
		s.mu.Lock()
		drained := s.counts
		s.counts = make(map[Key]Delta)
		s.mu.Unlock()

		for key, delta := range drained {
			if len(delta) == 0 {
				continue
			}
			entries = append(entries, Entry{Key: key, Delta: delta})
		}
	}
	return entries
}

// Merge 把刷盘失败的增量合并回缓冲，等待下个周期重试
func (b *Buffer) Merge(entries []Entry) {
	for _, e := range entries {
		for metric, n := range e.Delta {
			b.Increment(e.Key, metric, n)
		}
	}
}
