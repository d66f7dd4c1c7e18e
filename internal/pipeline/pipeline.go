// Package pipeline drives the per-unit build hooks for a build session.
//
// The pipeline guarantees each unit's hook runs exactly once per
// session, and it is re-entrant: a host's merge step forces its guests
// through the same pipeline, triggering nested builds by name.
package pipeline

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/quiltlang/quilt/internal/compose"
	"github.com/quiltlang/quilt/internal/diagnostics"
	"github.com/quiltlang/quilt/internal/modules"
	"github.com/quiltlang/quilt/internal/session"
	"github.com/quiltlang/quilt/internal/unit"
)

// PassStats summarizes one build pass.
type PassStats struct {
	UnitsBuilt     int
	HostsMerged    int
	GuestsCaptured int
}

type Pipeline struct {
	loader  *modules.Loader
	session *session.Session
	logger  *log.Logger
	hook    *compose.Hook

	mu         sync.Mutex
	inProgress map[string]bool
	diags      []*diagnostics.DiagnosticError
	stats      PassStats
}

type Option func(*Pipeline)

// WithLogger routes the pipeline's debug output to l.
func WithLogger(l *log.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

func New(loader *modules.Loader, sess *session.Session, opts ...Option) *Pipeline {
	p := &Pipeline{
		loader:     loader,
		session:    sess,
		logger:     log.New(io.Discard),
		inProgress: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BeginPass starts a build pass. A nil dirty set means a full rebuild;
// otherwise only the named units are re-read and re-built, while the
// session cache keeps every previously captured guest available. The
// forcer is fresh per pass so a dirty guest forced again this pass is
// actually re-resolved.
func (p *Pipeline) BeginPass(dirty []string) int {
	if dirty == nil {
		p.loader.Reset()
	} else {
		for _, id := range dirty {
			p.loader.Invalidate(id)
		}
	}
	pass := p.session.BeginPass(dirty)

	forcer := compose.NewForcer(compose.ResolverFunc(p.resolve))
	p.hook = compose.NewHook(p.session.Cache, forcer, p.report)

	p.mu.Lock()
	p.stats = PassStats{}
	p.mu.Unlock()

	p.logger.Debug("pass started", "session", p.session.ID, "pass", pass)
	return pass
}

// BuildAll builds the named units in order. The first fatal error stops
// the pass; non-fatal diagnostics accumulate and are available through
// Diagnostics.
func (p *Pipeline) BuildAll(identities []string) error {
	if p.hook == nil {
		p.BeginPass(nil)
	}
	for _, id := range identities {
		u, err := p.loader.Load(id)
		if err != nil {
			return err
		}
		if err := p.BuildUnit(u); err != nil {
			return err
		}
	}
	return nil
}

// BuildUnit runs the build hook on one unit. Building an already-built
// unit is a no-op, which is what makes forcing idempotent at the
// session level. A unit found mid-build means a composition cycle.
func (p *Pipeline) BuildUnit(u *unit.Unit) error {
	id := u.Module

	p.mu.Lock()
	if p.session.Built(id) {
		p.mu.Unlock()
		return nil
	}
	if p.inProgress[id] {
		p.mu.Unlock()
		return diagnostics.NewError(diagnostics.ErrR002, u.Pos,
			"circular composition involving module %s", id)
	}
	p.inProgress[id] = true
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		delete(p.inProgress, id)
		p.mu.Unlock()
	}()

	role := unit.Classify(u)
	p.logger.Debug("building unit", "module", id, "role", role)

	res, err := p.hook.Build(u)
	if err != nil {
		return err
	}
	p.session.MarkBuilt(id)

	p.mu.Lock()
	p.stats.UnitsBuilt++
	p.mu.Unlock()

	if res.Suppress {
		// The guest's identity lives on in the cache; the program
		// contains no standalone emission for it.
		p.session.Program.Remove(id)
		p.mu.Lock()
		p.stats.GuestsCaptured++
		p.mu.Unlock()
		p.logger.Debug("guest captured and suppressed", "module", id, "members", len(u.Members))
		return nil
	}

	if role == unit.RoleHost {
		p.mu.Lock()
		p.stats.HostsMerged++
		p.mu.Unlock()
		p.logger.Debug("host merged", "module", id, "members", len(res.Members))
	}
	p.session.Program.SetUnit(id, res.Members)
	return nil
}

// resolve is the Resolver handed to the forcer: it re-enters the
// pipeline to build a module by name.
func (p *Pipeline) resolve(identity string) error {
	u, err := p.loader.Load(identity)
	if err != nil {
		return err
	}
	return p.BuildUnit(u)
}

func (p *Pipeline) report(d *diagnostics.DiagnosticError) {
	p.mu.Lock()
	p.diags = append(p.diags, d)
	p.mu.Unlock()
	p.logger.Warn(d.Message, "code", d.Code, "pos", d.Pos.String())
}

// Diagnostics returns the non-fatal diagnostics collected so far.
func (p *Pipeline) Diagnostics() []*diagnostics.DiagnosticError {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*diagnostics.DiagnosticError(nil), p.diags...)
}

// Stats returns the current pass's statistics.
func (p *Pipeline) Stats() PassStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}
