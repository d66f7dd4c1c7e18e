// Package session holds the state that spans a whole build session:
// the module cache, the built-unit set, and the emitted program.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/quiltlang/quilt/internal/compose"
	"github.com/quiltlang/quilt/internal/emit"
)

// Session is one long-lived build session. The module cache it owns
// survives every incremental pass of the session and is reset only
// when the session (the process) goes away; the built-unit set is what
// makes resolving an already-built module a no-op within the session.
type Session struct {
	// ID identifies the session in logs and the history store.
	ID uuid.UUID
	// Cache is the session-wide module cache.
	Cache *compose.Cache
	// Program accumulates emitted units across passes.
	Program *emit.Program

	mu    sync.Mutex
	built map[string]bool
	pass  int
}

func New() *Session {
	return &Session{
		ID:      uuid.New(),
		Cache:   compose.NewCache(),
		Program: emit.NewProgram(),
		built:   make(map[string]bool),
	}
}

// Pass returns the current pass number (0 before the first BeginPass).
func (s *Session) Pass() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pass
}

// BeginPass starts a new build pass and returns its number. With a nil
// dirty set every unit is considered dirty (full rebuild); otherwise
// only the named units are marked for rebuild. The cache is never
// touched: a guest not re-built this pass stays visible to hosts.
func (s *Session) BeginPass(dirty []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pass++
	if dirty == nil {
		s.built = make(map[string]bool)
	} else {
		for _, id := range dirty {
			delete(s.built, id)
		}
	}
	return s.pass
}

// Built reports whether the unit has been built this session.
func (s *Session) Built(identity string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.built[identity]
}

// MarkBuilt records that the unit's build hook has run this session.
func (s *Session) MarkBuilt(identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.built[identity] = true
}

// RestoreBuilt seeds the built-unit set without touching the cache.
// This models a warm start: the surrounding pipeline's resolution state
// survived while the member cache was torn down externally, which is
// exactly the situation the stale-cache degrade path exists for.
func (s *Session) RestoreBuilt(identities []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range identities {
		s.built[id] = true
	}
}

// BuiltCount returns how many units have been built this session.
func (s *Session) BuiltCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.built)
}
