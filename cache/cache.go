package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	NoExpiration      time.Duration = -1
	DefaultExpiration time.Duration = 0
)

// entry 缓存项，expiresAt 为零值表示永不过期
type entry[V any] struct {
	value     V
	expiresAt time.Time
}

func (e entry[V]) expiredAt(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Stats 命中统计
type Stats struct {
	Hits   uint64
	Misses uint64
	Items  int
}

// Cache 按字符串键缓存已编译的表达式，带可选的过期时间和后台清理
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration

	hits   atomic.Uint64
	misses atomic.Uint64

	cleanupInterval time.Duration
	stop            chan struct{}
	stopOnce        sync.Once
}

// NewCache ttl 为默认过期时间；cleanupInterval > 0 时启动后台清理协程
func NewCache[V any](ttl, cleanupInterval time.Duration) *Cache[V] {
	c := &Cache[V]{
		entries:         make(map[string]entry[V]),
		ttl:             ttl,
		cleanupInterval: cleanupInterval,
		stop:            make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go c.janitor()
	}
	return c
}

func (c *Cache[V]) janitor() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.DeleteExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *Cache[V]) deadline(d time.Duration) time.Time {
	if d == DefaultExpiration {
		d = c.ttl
	}
	if d <= 0 {
		return time.Time{}
	}
	return time.Now().Add(d)
}

// Set d 为 DefaultExpiration 时使用默认过期时间，NoExpiration 表示永不过期
func (c *Cache[V]) Set(key string, value V, d time.Duration) {
	e := entry[V]{value: value, expiresAt: c.deadline(d)}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
}

func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		c.misses.Add(1)
		return zero, false
	}
	if e.expiredAt(time.Now()) {
		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		c.misses.Add(1)
		return zero, false
	}
	c.hits.Add(1)
	return e.value, true
}

func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len 包括尚未清理的过期项
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Flush 清空缓存项，命中统计一并归零
func (c *Cache[V]) Flush() {
	c.mu.Lock()
	clear(c.entries)
	c.mu.Unlock()
	c.hits.Store(0)
	c.misses.Store(0)
}

func (c *Cache[V]) DeleteExpired() {
	now := time.Now()
	c.mu.Lock()
	for k, e := range c.entries {
		if e.expiredAt(now) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}

func (c *Cache[V]) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Items: c.Len()}
}

// Close 停止清理协程，可重复调用
func (c *Cache[V]) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	return nil
}
