package cache

import (
	"container/list"
	"sync"
	"time"
)

// TTLLRUCache: TTL 기반 제네릭 LRU 캐시입니다.
// 값 타입만 주입하여 참조 데이터(티어 구성 등) 캐싱에 재사용합니다.
type TTLLRUCache[V any] struct {
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration
	items      map[string]*list.Element
	order      *list.List
}

type ttlLRUEntry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

// NewTTLLRUCache: TTL LRU 캐시를 생성합니다.
func NewTTLLRUCache[V any](maxEntries int, ttl time.Duration) *TTLLRUCache[V] {
	if maxEntries <= 0 || ttl <= 0 {
		return nil
	}
	return &TTLLRUCache[V]{
		maxEntries: maxEntries,
		ttl:        ttl,
		items:      make(map[string]*list.Element, maxEntries),
		order:      list.New(),
	}
}

// Get: 캐시에서 값을 조회합니다.
func (c *TTLLRUCache[V]) Get(key string) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}

	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return zero, false
	}

	entry := elem.Value.(ttlLRUEntry[V])
	if !entry.expiresAt.After(now) {
		c.removeElement(elem)
		return zero, false
	}

	c.order.MoveToFront(elem)
	return entry.value, true
}

// Set: 캐시에 값을 저장합니다.
func (c *TTLLRUCache[V]) Set(key string, value V) {
	if c == nil {
		return
	}

	expiresAt := time.Now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value = ttlLRUEntry[V]{
			key:       key,
			value:     value,
			expiresAt: expiresAt,
		}
		return
	}

	elem := c.order.PushFront(ttlLRUEntry[V]{
		key:       key,
		value:     value,
		expiresAt: expiresAt,
	})
	c.items[key] = elem

	for len(c.items) > c.maxEntries {
		back := c.order.Back()
		if back == nil {
			break
		}
		c.removeElement(back)
	}
}

func (c *TTLLRUCache[V]) removeElement(elem *list.Element) {
	entry := elem.Value.(ttlLRUEntry[V])
	delete(c.items, entry.key)
	c.order.Remove(elem)
}
