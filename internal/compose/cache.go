// Package compose implements build-time member composition: capturing
// guest units' member lists into a session-wide cache, forcing guests
// to build before a host consults the cache, and splicing cached
// members into the host's output.
package compose

import (
	"sort"
	"sync"

	"github.com/quiltlang/quilt/internal/unit"
)

// Cache is the process-wide module cache mapping a module identity to
// the member list captured when that module was built as a guest.
//
// Lifetime contract: created once per build session and kept alive
// across incremental passes, so a guest not re-touched by a pass stays
// visible to hosts rebuilt in that pass. It is never cleared
// mid-session, lives only in memory, and does not survive process
// restart. Put and Get are safe under concurrent and re-entrant use; a
// Get never observes a partially written entry.
type Cache struct {
	mu      sync.RWMutex
	members map[string][]unit.Member
}

func NewCache() *Cache {
	return &Cache{members: make(map[string][]unit.Member)}
}

// Put stores a captured member list under identity, overwriting any
// prior entry. The list is copied, so later mutation of the argument
// cannot corrupt the cache. Reports whether an entry was overwritten.
func (c *Cache) Put(identity string, members []unit.Member) bool {
	stored := unit.CloneMembers(members)
	c.mu.Lock()
	defer c.mu.Unlock()
	_, existed := c.members[identity]
	c.members[identity] = stored
	return existed
}

// Get returns the captured member list for identity. Absence is an
// expected outcome, not an error: build order is not guaranteed and
// incremental state may have been torn down externally. The returned
// list is a copy; the cached original is never handed out.
func (c *Cache) Get(identity string) ([]unit.Member, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	members, ok := c.members[identity]
	if !ok {
		return nil, false
	}
	return unit.CloneMembers(members), true
}

// Len returns the number of cached modules.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.members)
}

// Identities returns the cached module identities, sorted.
func (c *Cache) Identities() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.members))
	for id := range c.members {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
