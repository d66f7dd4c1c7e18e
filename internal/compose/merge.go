package compose

import (
	"fmt"

	"github.com/quiltlang/quilt/internal/diagnostics"
	"github.com/quiltlang/quilt/internal/unit"
)

// Merger splices cached guest members into a host's output member list.
type Merger struct {
	cache  *Cache
	forcer *Forcer
	report func(*diagnostics.DiagnosticError)
}

func NewMerger(cache *Cache, forcer *Forcer, report func(*diagnostics.DiagnosticError)) *Merger {
	return &Merger{cache: cache, forcer: forcer, report: report}
}

// Merge builds the host's final member list: for each guest in declared
// order, the guest is forced, its cached members are cloned with their
// source location rewritten to the host's declaration site, and the
// clones are appended. The host's own declared members come last.
//
// A guest that resolves but has no cache entry degrades rather than
// fails: one diagnostic is emitted and that guest's contribution is
// omitted, keeping a long-running incremental session usable. A guest
// that cannot be resolved at all fails the host's build.
func (m *Merger) Merge(host *unit.Unit) ([]unit.Member, error) {
	merged := make([]unit.Member, 0, len(host.Members))
	for _, guest := range host.Compose {
		if err := m.forcer.Force(guest); err != nil {
			return nil, fmt.Errorf("composing %s: guest %s: %w", host.Module, guest, err)
		}
		cached, ok := m.cache.Get(guest)
		if !ok {
			m.report(diagnostics.NewWarning(
				diagnostics.WarnC001, host.Pos,
				"no cached members for module %s (incremental state likely stale); its contribution to %s is omitted",
				guest, host.Module,
			).WithHint("run a clean rebuild to repopulate the module cache"))
			continue
		}
		for _, mem := range cached {
			// Rewritten copy: error messages and debugging point at the
			// host's declaration site, and the cached original stays as
			// captured in case another host merges the same guest.
			merged = append(merged, mem.WithLocation(host.Pos))
		}
	}
	return append(merged, host.Members...), nil
}
