package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMissOnEmptyStore(t *testing.T) {
	s := NewStore(5 * time.Minute)

	_, ok := s.Get("post:list:newest:1")
	assert.False(t, ok)
}

func TestPutThenGetWithinTTL(t *testing.T) {
	s := NewStore(5 * time.Minute)

	p := Payload{Data: "snapshot", EntityIDs: []uint64{1, 2, 3}}
	s.Put("post:list:newest:1", p, 0)

	got, ok := s.Get("post:list:newest:1")
	require.True(t, ok)
	assert.Equal(t, "snapshot", got.Data)
	assert.Equal(t, []uint64{1, 2, 3}, got.EntityIDs)
}

func TestExpiredEntryIsEvictedLazily(t *testing.T) {
	s := NewStore(5 * time.Minute)

	current := time.Now()
	s.now = func() time.Time { return current }

	s.Put("post:detail:hello", Payload{Data: "v1"}, time.Minute)

	current = current.Add(61 * time.Second)
	_, ok := s.Get("post:detail:hello")
	assert.False(t, ok)

	// 过期后必须重新 Put 才能再次命中
	_, ok = s.Get("post:detail:hello")
	assert.False(t, ok)

	s.Put("post:detail:hello", Payload{Data: "v2"}, time.Minute)
	got, ok := s.Get("post:detail:hello")
	require.True(t, ok)
	assert.Equal(t, "v2", got.Data)
}

func TestInvalidatePrefix(t *testing.T) {
	s := NewStore(5 * time.Minute)

	s.Put("post:list:newest:1", Payload{Data: "a"}, 0)
	s.Put("post:list:newest:2", Payload{Data: "b"}, 0)
	s.Put("category:list:1", Payload{Data: "c"}, 0)

	s.InvalidatePrefix("post:list:")

	_, ok := s.Get("post:list:newest:1")
	assert.False(t, ok)
	_, ok = s.Get("post:list:newest:2")
	assert.False(t, ok)

	_, ok = s.Get("category:list:1")
	assert.True(t, ok)
}

func TestInvalidateAll(t *testing.T) {
	s := NewStore(5 * time.Minute)

	s.Put("post:list:newest:1", Payload{Data: "a"}, 0)
	s.Put("category:list:1", Payload{Data: "c"}, 0)

	s.InvalidateAll()

	_, ok := s.Get("post:list:newest:1")
	assert.False(t, ok)
	_, ok = s.Get("category:list:1")
	assert.False(t, ok)
}
