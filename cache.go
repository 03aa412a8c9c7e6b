package main

import (
	"crypto/rand"
	"log/slog"
	"math/big"
	"sync"
)

// codeAlphabet and codeLength match the links already in circulation.
const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	codeLength   = 6
)

// generateCode mints a new content code. Collisions are not checked; at
// 62^6 the chance is treated as negligible.
func generateCode() string {
	b := make([]byte, codeLength)
	alphaLen := big.NewInt(int64(len(codeAlphabet)))
	for i := range b {
		n, _ := rand.Int(rand.Reader, alphaLen)
		b[i] = codeAlphabet[n.Int64()]
	}
	return string(b)
}

// collection is one write-back cached collection: lazily loaded from the
// Store on first access, served from memory afterwards, flushed back when
// dirty. The Store is never read again after the first load; memory is the
// source of truth until restart.
type collection[T any] struct {
	name  string
	load  func() (T, error)
	save  func(T) error
	clone func(T) T

	mu     sync.Mutex
	loaded bool
	val    T
	dirty  bool
}

// ensureLoaded must be called with mu held.
func (c *collection[T]) ensureLoaded() {
	if c.loaded {
		return
	}
	v, err := c.load()
	if err != nil {
		slog.Warn("cache: initial load failed, starting empty", "collection", c.name, "err", err)
	} else {
		c.val = v
	}
	c.loaded = true
}

// get returns a copy of the current value. Callers mutate their copy and
// hand it back via put.
func (c *collection[T]) get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded()
	return c.clone(c.val)
}

// put replaces the in-memory value and marks the collection dirty. It never
// touches the Store.
func (c *collection[T]) put(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = true
	c.val = c.clone(v)
	c.dirty = true
}

// update runs a read-modify-write atomically under the collection lock,
// for callers that must not race a concurrent get/put cycle.
func (c *collection[T]) update(fn func(T) T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded()
	c.val = fn(c.clone(c.val))
	c.dirty = true
}

// flush writes the collection to the Store if dirty. The lock is held only
// long enough to snapshot the value and clear the flag, so puts on other
// collections (and this one) are not blocked by disk I/O. On save failure
// the flag is restored and the next cycle retries.
func (c *collection[T]) flush() {
	c.mu.Lock()
	if !c.dirty {
		c.mu.Unlock()
		return
	}
	snapshot := c.clone(c.val)
	c.dirty = false
	c.mu.Unlock()

	if err := c.save(snapshot); err != nil {
		slog.Error("cache: flush failed, will retry", "collection", c.name, "err", err)
		c.mu.Lock()
		c.dirty = true
		c.mu.Unlock()
		return
	}
	slog.Info("cache: flushed", "collection", c.name)
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneSlice[V any](s []V) []V {
	out := make([]V, len(s))
	copy(out, s)
	return out
}

// Cache is the in-memory mirror of the Store: four write-back collections
// plus a periodic flush. Writes since the last successful flush are lost on
// a crash — an accepted data-loss window of at most one flush interval.
type Cache struct {
	videos   collection[map[string]string]
	packages collection[map[string][]MediaEntry]
	demos    collection[map[string]string]
	users    collection[[]int64]
}

func NewCache(store Store) *Cache {
	return &Cache{
		videos: collection[map[string]string]{
			name:  "videos",
			load:  store.LoadVideos,
			save:  store.SaveVideos,
			clone: cloneMap[string],
		},
		packages: collection[map[string][]MediaEntry]{
			name:  "packages",
			load:  store.LoadPackages,
			save:  store.SavePackages,
			clone: cloneMap[[]MediaEntry],
		},
		demos: collection[map[string]string]{
			name:  "demo_messages",
			load:  store.LoadDemos,
			save:  store.SaveDemos,
			clone: cloneMap[string],
		},
		users: collection[[]int64]{
			name:  "users",
			load:  store.LoadUsers,
			save:  store.SaveUsers,
			clone: cloneSlice[int64],
		},
	}
}

func (c *Cache) Videos() map[string]string { return c.videos.get() }
func (c *Cache) PutVideos(v map[string]string) { c.videos.put(v) }

func (c *Cache) Packages() map[string][]MediaEntry { return c.packages.get() }
func (c *Cache) PutPackages(v map[string][]MediaEntry) { c.packages.put(v) }

func (c *Cache) Demos() map[string]string { return c.demos.get() }
func (c *Cache) PutDemos(v map[string]string) { c.demos.put(v) }

func (c *Cache) Users() []int64 { return c.users.get() }

// AddUser appends the id to the registry if absent. The check-then-append
// runs under the collection lock so concurrent first contacts cannot lose
// each other's insert.
func (c *Cache) AddUser(id int64) {
	c.users.update(func(users []int64) []int64 {
		for _, u := range users {
			if u == id {
				return users
			}
		}
		return append(users, id)
	})
}

// Flush writes every dirty collection. One collection's failure does not
// stop the others.
func (c *Cache) Flush() {
	c.videos.flush()
	c.packages.flush()
	c.demos.flush()
	c.users.flush()
}

// Stats reports collection sizes for the admin panel.
func (c *Cache) Stats() (users, videos, packages, demos int) {
	return len(c.Users()), len(c.Videos()), len(c.Packages()), len(c.Demos())
}
