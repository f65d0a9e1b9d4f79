package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/patrickmn/go-cache"
)

// Cache 全局缓存实例
var Cache *cache.Cache

// InitCache 初始化缓存
func InitCache() {
	// 默认过期时间5分钟，清理间隔10分钟
	Cache = cache.New(5*time.Minute, 10*time.Minute)
}

// CacheGet 获取缓存值
func CacheGet(key string) (interface{}, bool) {
	return Cache.Get(key)
}

// CacheSet 设置缓存值
func CacheSet(key string, value interface{}, duration time.Duration) {
	Cache.Set(key, value, duration)
}

// CacheDelete 删除缓存
func CacheDelete(key string) {
	Cache.Delete(key)
}

// CacheClear 清空所有缓存
func CacheClear() {
	Cache.Flush()
}

// LRUCache 带上限的 LRU 缓存封装（相似度行缓存用，无 TTL：索引进程内不变）
type LRUCache[K comparable, V any] struct {
	storage *lru.Cache[K, V]
}

// NewLRUCache 初始化，size 是最大缓存条数
func NewLRUCache[K comparable, V any](size int) *LRUCache[K, V] {
	// lru.New 是线程安全的
	c, _ := lru.New[K, V](size)
	return &LRUCache[K, V]{storage: c}
}

func (c *LRUCache[K, V]) Set(key K, value V) {
	c.storage.Add(key, value)
}

func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	return c.storage.Get(key)
}

func (c *LRUCache[K, V]) Len() int {
	return c.storage.Len()
}

func (c *LRUCache[K, V]) Clear() {
	c.storage.Purge()
}
