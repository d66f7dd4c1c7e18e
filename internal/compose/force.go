package compose

import "sync"

// Resolver is the capability, injected by the surrounding pipeline, to
// fully resolve a module by identity: by the time Resolve returns, the
// module's build hook has executed (or an error explains why it could
// not). Resolving an already-built module must be a no-op.
type Resolver interface {
	Resolve(identity string) error
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(identity string) error

func (f ResolverFunc) Resolve(identity string) error { return f(identity) }

// Forcer guarantees each referenced guest has been resolved before its
// cached members are trusted. Composition is declared by name, not by a
// structural reference the pipeline would traverse on its own, so the
// guest's build must be force-triggered rather than passively awaited.
//
// Force is idempotent: each identity is resolved at most once per
// Forcer, and concurrent forces of the same identity share one result.
type Forcer struct {
	resolver Resolver

	mu      sync.Mutex
	results map[string]*forceResult
}

type forceResult struct {
	once sync.Once
	err  error
}

func NewForcer(r Resolver) *Forcer {
	return &Forcer{
		resolver: r,
		results:  make(map[string]*forceResult),
	}
}

// Force ensures the module named by identity has been fully resolved.
// A failure (unknown identity, build error inside the guest) is
// returned to the caller and memoized; it surfaces as a build failure
// for the forcing host rather than being swallowed.
func (f *Forcer) Force(identity string) error {
	f.mu.Lock()
	r, ok := f.results[identity]
	if !ok {
		r = &forceResult{}
		f.results[identity] = r
	}
	f.mu.Unlock()

	r.once.Do(func() {
		r.err = f.resolver.Resolve(identity)
	})
	return r.err
}
