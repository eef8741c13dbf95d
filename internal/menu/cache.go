package menu

import (
	"sync"

	"menugrid.gg/internal/host"
)

// Cache is the two-tier key/value store a Service owns: one global bucket
// shared by every session, and one bucket per user. Values are untyped so
// unrelated menus can share state without a common type hierarchy; callers
// that care about types go through GlobalAs/SessionAs, which treat a type
// mismatch as absent. No TTL, no eviction: entries live until cleared or,
// for the per-user bucket, until the session is removed.
type Cache struct {
	global  sync.Map // string -> any
	session sync.Map // host.UserID -> *sync.Map (string -> any)
}

func NewCache() *Cache { return &Cache{} }

func (c *Cache) PutGlobal(key string, v any) { c.global.Store(key, v) }

func (c *Cache) GetGlobal(key string) (any, bool) { return c.global.Load(key) }

func (c *Cache) DeleteGlobal(key string) { c.global.Delete(key) }

func (c *Cache) PutSession(user host.UserID, key string, v any) {
	c.bucket(user).Store(key, v)
}

func (c *Cache) GetSession(user host.UserID, key string) (any, bool) {
	m, ok := c.session.Load(user)
	if !ok {
		return nil, false
	}
	return m.(*sync.Map).Load(key)
}

// ClearSession drops every entry in the user's bucket. The global bucket is
// untouched.
func (c *Cache) ClearSession(user host.UserID) {
	c.session.Delete(user)
}

// ClearAll empties both tiers.
func (c *Cache) ClearAll() {
	c.global.Range(func(k, _ any) bool {
		c.global.Delete(k)
		return true
	})
	c.session.Range(func(k, _ any) bool {
		c.session.Delete(k)
		return true
	})
}

func (c *Cache) bucket(user host.UserID) *sync.Map {
	if m, ok := c.session.Load(user); ok {
		return m.(*sync.Map)
	}
	m, _ := c.session.LoadOrStore(user, &sync.Map{})
	return m.(*sync.Map)
}

// GlobalAs reads a global entry as T. A missing entry or one holding a
// different type returns the zero T and false; it never panics.
func GlobalAs[T any](c *Cache, key string) (T, bool) {
	var zero T
	v, ok := c.GetGlobal(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// SessionAs is GlobalAs for the per-user bucket.
func SessionAs[T any](c *Cache, user host.UserID, key string) (T, bool) {
	var zero T
	v, ok := c.GetSession(user, key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
