package compose

import (
	"sync"

	"github.com/quiltlang/quilt/internal/diagnostics"
	"github.com/quiltlang/quilt/internal/unit"
)

// Result tells the pipeline what to do with a unit's build output.
type Result struct {
	// Suppress means the unit emits nothing of its own (captured guest).
	// Its identity still exists for cache lookups and forcing.
	Suppress bool
	// Members is the unit's emitted member list when not suppressed.
	Members []unit.Member
}

// Hook is the per-unit build hook. The pipeline invokes Build exactly
// once per unit per session; the hook classifies the unit and either
// captures it (guest) or merges its guests' cached members (host).
type Hook struct {
	cache  *Cache
	merger *Merger
	report func(*diagnostics.DiagnosticError)

	mu       sync.Mutex
	captured map[string]bool // guests captured this pass
}

// NewHook wires a build hook over the session cache. forcer must re-enter
// the pipeline that drives this hook; report receives non-fatal
// diagnostics (stale cache, double capture).
func NewHook(cache *Cache, forcer *Forcer, report func(*diagnostics.DiagnosticError)) *Hook {
	h := &Hook{
		cache:    cache,
		report:   report,
		captured: make(map[string]bool),
	}
	h.merger = NewMerger(cache, forcer, report)
	return h
}

// Build runs the hook on one unit. Guests never fail here: capture is
// total over valid input. Host failures (unresolvable guests) propagate.
func (h *Hook) Build(u *unit.Unit) (Result, error) {
	switch unit.Classify(u) {
	case unit.RoleGuest:
		h.capture(u)
		return Result{Suppress: true}, nil
	case unit.RoleHost:
		members, err := h.merger.Merge(u)
		if err != nil {
			return Result{}, err
		}
		return Result{Members: members}, nil
	default:
		return Result{Members: u.Members}, nil
	}
}

// capture records the guest's as-declared member list under its module
// identity. Overwriting an entry captured in an earlier pass is normal
// incremental behavior; a second capture within the same pass points at
// a re-entrant double build and is reported, not silently absorbed.
func (h *Hook) capture(u *unit.Unit) {
	h.cache.Put(u.Module, u.Members)

	h.mu.Lock()
	dup := h.captured[u.Module]
	h.captured[u.Module] = true
	h.mu.Unlock()

	if dup {
		h.report(diagnostics.NewWarning(
			diagnostics.WarnC002, u.Pos,
			"module %s captured more than once in a single pass", u.Module,
		))
	}
}
