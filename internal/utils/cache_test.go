package utils

import "testing"

func TestLRUCache(t *testing.T) {
	cache := NewLRUCache[int, string](2)

	cache.Set(1, "a")
	cache.Set(2, "b")

	if v, ok := cache.Get(1); !ok || v != "a" {
		t.Errorf("Get(1) = %q, %v", v, ok)
	}

	// 容量 2，写入第三个键时淘汰最久未访问的键 2
	cache.Set(3, "c")
	if _, ok := cache.Get(2); ok {
		t.Error("键 2 应已被淘汰")
	}
	if v, ok := cache.Get(1); !ok || v != "a" {
		t.Errorf("刚访问过的键 1 不应被淘汰: %q, %v", v, ok)
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Clear 后长度应为 0，得到 %d", cache.Len())
	}
}

func TestHashIP(t *testing.T) {
	a := HashIP("203.0.113.7")
	b := HashIP("203.0.113.7")
	c := HashIP("203.0.113.8")

	if a != b {
		t.Error("同一 IP 的哈希应稳定")
	}
	if a == c {
		t.Error("不同 IP 的哈希不应相同")
	}
	if len(a) != 16 {
		t.Errorf("哈希长度应为 16 个十六进制字符，得到 %d", len(a))
	}
}
