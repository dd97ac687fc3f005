package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// 测试 Set 和 Get 功能
func TestCacheSetGet(t *testing.T) {
	cache := NewCache[string](DefaultExpiration, 0)
	defer cache.Close()

	cache.Set("zvtx", "zvtx{nominal=rg(-7,7)}", DefaultExpiration)
	value, found := cache.Get("zvtx")
	if !found {
		t.Error("缓存中应存在键 'zvtx'")
	}
	if value != "zvtx{nominal=rg(-7,7)}" {
		t.Errorf("预期原表达式，实际得到 '%v'", value)
	}

	// 测试不存在的键
	value, found = cache.Get("nonexistent")
	if found || value != "" {
		t.Error("不应找到键 'nonexistent'")
	}

	// 测试使用自定义过期时间
	cache.Set("pt", "pt{min=th(0.2)}", 50*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	if _, found = cache.Get("pt"); found {
		t.Error("键 'pt' 应该已过期")
	}

	// 测试永不过期
	cache.Set("eta", "eta{acc=rg(-0.8,0.8)}", NoExpiration)
	time.Sleep(100 * time.Millisecond)
	if _, found = cache.Get("eta"); !found {
		t.Error("使用 NoExpiration 的键 'eta' 不应过期")
	}
}

// 测试 Delete 和 Flush 功能
func TestCacheDeleteFlush(t *testing.T) {
	cache := NewCache[int](DefaultExpiration, 0)
	defer cache.Close()

	cache.Set("a", 1, DefaultExpiration)
	cache.Set("b", 2, DefaultExpiration)
	cache.Delete("a")
	if _, found := cache.Get("a"); found {
		t.Error("删除后不应找到键 'a'")
	}
	// 删除不存在的键（应该不会出错）
	cache.Delete("nonexistent")

	if cache.Len() != 1 {
		t.Errorf("预期 1 个缓存项，实际 %d", cache.Len())
	}
	cache.Flush()
	if cache.Len() != 0 {
		t.Errorf("清空后预期 0 个缓存项，实际 %d", cache.Len())
	}
}

// 测试自动过期和 DeleteExpired 功能
func TestCacheExpiration(t *testing.T) {
	cache := NewCache[int](50*time.Millisecond, 0)
	defer cache.Close()

	cache.Set("key1", 1, DefaultExpiration)
	cache.Set("key2", 2, 200*time.Millisecond)
	cache.Set("key3", 3, NoExpiration)

	time.Sleep(75 * time.Millisecond)
	if _, found := cache.Get("key1"); found {
		t.Error("键 'key1' 应该已过期")
	}
	if _, found := cache.Get("key2"); !found {
		t.Error("键 'key2' 不应该已过期")
	}

	time.Sleep(150 * time.Millisecond)
	cache.DeleteExpired()
	if cache.Len() != 1 {
		t.Errorf("清理后预期只剩 'key3'，实际 %d 项", cache.Len())
	}
	if _, found := cache.Get("key3"); !found {
		t.Error("键 'key3' 不应过期")
	}
}

// 测试并发安全性
func TestCacheConcurrency(t *testing.T) {
	cache := NewCache[int](5*time.Minute, 0)
	defer cache.Close()

	const workers = 10
	const iterations = 100

	var wg sync.WaitGroup
	wg.Add(workers * 2)

	for i := 0; i < workers; i++ {
		go func(workerID int) {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				cache.Set(fmt.Sprintf("cut-%d", workerID), j, DefaultExpiration)
			}
		}(i)
	}

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				for k := 0; k < workers; k++ {
					cache.Get(fmt.Sprintf("cut-%d", k))
				}
			}
		}()
	}

	wg.Wait()
}

// 测试缓存关闭功能
func TestCacheClose(t *testing.T) {
	cache := NewCache[string](DefaultExpiration, 1*time.Minute)
	if err := cache.Close(); err != nil {
		t.Errorf("关闭缓存时出错: %v", err)
	}

	// 关闭后的操作仍然有效
	cache.Set("key", "value", DefaultExpiration)
	value, found := cache.Get("key")
	if !found || value != "value" {
		t.Errorf("关闭后应仍能使用缓存，得到 %v", value)
	}
}

// 测试命中统计和重复关闭
func TestCacheStats(t *testing.T) {
	cache := NewCache[int](DefaultExpiration, 10*time.Millisecond)
	cache.Set("zvtx", 1, DefaultExpiration)
	cache.Get("zvtx")
	cache.Get("zvtx")
	cache.Get("pt")

	st := cache.Stats()
	if st.Hits != 2 || st.Misses != 1 || st.Items != 1 {
		t.Errorf("统计不符: %+v", st)
	}
	cache.Flush()
	if st = cache.Stats(); st.Hits != 0 || st.Misses != 0 || st.Items != 0 {
		t.Errorf("清空后统计应归零: %+v", st)
	}
	if err := cache.Close(); err != nil {
		t.Fatal(err)
	}
	if err := cache.Close(); err != nil {
		t.Errorf("重复关闭不应出错: %v", err)
	}
}
