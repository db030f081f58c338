package cache

import (
	"strings"
	"sync"
	"time"
)

// Payload 一份已渲染的列表/详情快照。
// EntityIDs 记录快照中包含的实体，命中时据此补记 impression。
type Payload struct {
	Data      interface{}
	EntityIDs []uint64
}

type entry struct {
	payload   Payload
	expiresAt time.Time
}

// Store 进程内响应缓存，按规范化查询签名存取。
// 替代源系统里的缓存单例：由 wire 构造并注入，失效按签名前缀粗粒度清除。
type Store struct {
	mu         sync.RWMutex
	entries    map[string]entry
	defaultTTL time.Duration
	now        func() time.Time
}

func NewStore(defaultTTL time.Duration) *Store {
	return &Store{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Get 查询签名对应的快照，过期条目在读取时惰性剔除
func (s *Store) Get(signature string) (Payload, bool) {
	s.mu.RLock()
	e, ok := s.entries[signature]
	s.mu.RUnlock()
	if !ok {
		return Payload{}, false
	}
	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		// 二次确认，期间可能已被新 Put 覆盖
		if cur, still := s.entries[signature]; still && s.now().After(cur.expiresAt) {
			delete(s.entries, signature)
		}
		s.mu.Unlock()
		return Payload{}, false
	}
	return e.payload, true
}

// Put 写入快照，ttl <= 0 时使用默认 TTL
func (s *Store) Put(signature string, p Payload, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	s.mu.Lock()
	s.entries[signature] = entry{payload: p, expiresAt: s.now().Add(ttl)}
	s.mu.Unlock()
}

// InvalidatePrefix 按签名前缀清除。写路径宁可多清也不读脏
func (s *Store) InvalidatePrefix(prefix string) {
	s.mu.Lock()
	for sig := range s.entries {
		if strings.HasPrefix(sig, prefix) {
			delete(s.entries, sig)
		}
	}
	s.mu.Unlock()
}

// InvalidateAll 清空全部缓存
func (s *Store) InvalidateAll() {
	s.mu.Lock()
	s.entries = make(map[string]entry)
	s.mu.Unlock()
}
