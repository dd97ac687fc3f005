package cutspec

import (
	"strings"
	"time"

	"github.com/xuenqlve/cutbrick/brick"
	"github.com/xuenqlve/cutbrick/cache"
)

const specCacheExpiration = 30 * time.Minute

// specCache 已解析表达式的缓存，键为去除首尾空白后的表达式
var specCache = cache.NewCache[*Spec](specCacheExpiration, 0)

// Compile 解析表达式，命中缓存时直接返回缓存副本
func Compile(expr string) (*Spec, error) {
	key := strings.TrimSpace(expr)
	if spec, ok := specCache.Get(key); ok {
		return spec.Clone(), nil
	}
	spec, err := Parse(key)
	if err != nil {
		return nil, err
	}
	specCache.Set(key, spec.Clone(), cache.DefaultExpiration)
	return spec, nil
}

// CompileVariationSet 解析表达式并构造 VariationSet
func CompileVariationSet[V brick.Value](expr string) (*brick.VariationSet[V], error) {
	spec, err := Compile(expr)
	if err != nil {
		return nil, err
	}
	return Build[V](spec)
}

// ClearCache 清空表达式缓存
func ClearCache() {
	specCache.Flush()
}

// CacheSize 缓存中的条目数量
func CacheSize() int {
	return specCache.Len()
}

// CacheStats 表达式缓存的命中统计
func CacheStats() cache.Stats {
	return specCache.Stats()
}
