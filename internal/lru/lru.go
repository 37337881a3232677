// Package lru implements a fixed capacity least recently used cache.
package lru

// node is a typed doubly-linked list node with freelist support.
type node[K comparable, V any] struct {
	key   K
	value V
	prev  *node[K, V]
	next  *node[K, V]
}

// Cache is a Least Recently Used cache. It is not safe for concurrent use.
type Cache[K comparable, V any] struct {
	m    map[K]*node[K, V]
	head *node[K, V]
	tail *node[K, V]

	len      int
	cap      int
	freelist *node[K, V]
}

// New creates a new Cache. cap is the maximum number of entries. New panics if
// cap < 1.
func New[K comparable, V any](cap int) *Cache[K, V] {
	if cap < 1 {
		panic("lru: capacity must be at least 1")
	}

	head := &node[K, V]{}
	tail := &node[K, V]{}
	head.next = tail
	tail.prev = head

	return &Cache[K, V]{
		cap:  cap,
		m:    make(map[K]*node[K, V], cap),
		head: head,
		tail: tail,
	}
}

// Get returns the value stored for key and marks it as most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	n, ok := c.m[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(n)
	return n.value, true
}

// PutIfAbsent stores value for key unless key is already present. It returns
// the value stored for key after the call. The least recently used entry is
// evicted when the cache is full.
func (c *Cache[K, V]) PutIfAbsent(key K, value V) V {
	if n, present := c.m[key]; present {
		c.moveToFront(n)
		return n.value
	}

	if c.len == c.cap {
		c.evictOldest()
	}

	n := c.allocNode()
	n.key = key
	n.value = value
	c.insertAfter(c.head, n)
	c.m[key] = n
	c.len++

	return value
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	return c.len
}

func (c *Cache[K, V]) evictOldest() {
	n := c.tail.prev
	if n == c.head {
		return
	}
	delete(c.m, n.key)
	c.unlink(n)
	c.len--
	c.freeNode(n)
}

// List operations - sentinel nodes eliminate nil checks

func (c *Cache[K, V]) insertAfter(at, n *node[K, V]) {
	n.prev = at
	n.next = at.next
	at.next.prev = n
	at.next = n
}

func (c *Cache[K, V]) unlink(n *node[K, V]) {
	n.prev.next = n.next
	n.next.prev = n.prev
}

func (c *Cache[K, V]) moveToFront(n *node[K, V]) {
	if n.prev == c.head {
		return
	}
	c.unlink(n)
	c.insertAfter(c.head, n)
}

// Node pool operations - reuse evicted nodes to avoid allocations

func (c *Cache[K, V]) allocNode() *node[K, V] {
	if c.freelist != nil {
		n := c.freelist
		c.freelist = n.next
		n.next = nil
		n.prev = nil
		return n
	}
	return &node[K, V]{}
}

func (c *Cache[K, V]) freeNode(n *node[K, V]) {
	var zeroK K
	var zeroV V
	n.key = zeroK
	n.value = zeroV
	n.prev = nil
	n.next = c.freelist
	c.freelist = n
}
