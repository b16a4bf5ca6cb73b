package cache

import (
	"container/list"
	"sync"

	"github.com/sosnovich/skyward/internal/models"
)

// UserCache is a bounded LRU cache of id → user lookups. It is constructed
// explicitly and handed to its owner; entries must be invalidated whenever
// the underlying row is updated or deleted.
type UserCache struct {
	mu    sync.Mutex
	cap   int
	order *list.List
	items map[uint64]*list.Element
}

type cacheEntry struct {
	id   uint64
	user *models.User
}

func NewUserCache(capacity int) *UserCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &UserCache{
		cap:   capacity,
		order: list.New(),
		items: make(map[uint64]*list.Element, capacity),
	}
}

func (c *UserCache) Get(id uint64) (*models.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[id]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).user, true
}

func (c *UserCache) Put(user *models.User) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[user.ID]; ok {
		el.Value.(*cacheEntry).user = user
		c.order.MoveToFront(el)
		return
	}
	c.items[user.ID] = c.order.PushFront(&cacheEntry{id: user.ID, user: user})
	if c.order.Len() > c.cap {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).id)
	}
}

func (c *UserCache) Invalidate(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[id]; ok {
		c.order.Remove(el)
		delete(c.items, id)
	}
}

func (c *UserCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
