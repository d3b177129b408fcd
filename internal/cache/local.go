package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/kdv2001/authd/internal/domain"
)

// localCache ограниченный LRU-кеш token -> UserView с дедлайном на запись.
// Безопасен для конкурентного доступа из обработчиков запросов.
type localCache struct {
	mu sync.Mutex

	capacity int
	order    *list.List
	items    map[string]*list.Element
}

type localEntry struct {
	token    string
	view     domain.UserView
	deadline time.Time
}

func newLocalCache(capacity int) *localCache {
	return &localCache{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

func (c *localCache) get(token string, now time.Time) (domain.UserView, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[token]
	if !ok {
		return domain.UserView{}, false
	}

	entry := el.Value.(localEntry)
	if !now.Before(entry.deadline) {
		c.order.Remove(el)
		delete(c.items, token)

		return domain.UserView{}, false
	}

	c.order.MoveToFront(el)

	return entry.view, true
}

func (c *localCache) set(token string, view domain.UserView, deadline time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[token]; ok {
		el.Value = localEntry{token: token, view: view, deadline: deadline}
		c.order.MoveToFront(el)

		return
	}

	c.items[token] = c.order.PushFront(localEntry{token: token, view: view, deadline: deadline})

	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(localEntry).token)
	}
}

func (c *localCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}
