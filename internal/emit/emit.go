// Package emit assembles the final program from emitted units and
// writes the combined output.
package emit

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/quiltlang/quilt/internal/unit"
)

// ProgramUnit is one unit as it appears in the final program.
type ProgramUnit struct {
	Module  string        `yaml:"module"`
	Members []unit.Member `yaml:"members"`
}

// Program maintains knowledge of every unit emitted during a build
// session. Units keep their first-emission order; rebuilding a unit in
// a later pass replaces its members in place. Suppressed guests are
// simply never added (or are removed if an earlier pass emitted them
// as plain units).
type Program struct {
	mu    sync.Mutex
	order []string
	units map[string][]unit.Member
}

func NewProgram() *Program {
	return &Program{units: make(map[string][]unit.Member)}
}

// SetUnit records a unit's emitted member list, replacing any previous
// emission for the same module.
func (p *Program) SetUnit(module string, members []unit.Member) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.units[module]; !ok {
		p.order = append(p.order, module)
	}
	p.units[module] = unit.CloneMembers(members)
}

// Remove drops a unit from the program. Used when a unit emitted in an
// earlier pass becomes a suppressed guest in a later one.
func (p *Program) Remove(module string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.units[module]; !ok {
		return
	}
	delete(p.units, module)
	for i, id := range p.order {
		if id == module {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// Contains reports whether module has a standalone emission.
func (p *Program) Contains(module string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.units[module]
	return ok
}

// Units returns the emitted units in emission order.
func (p *Program) Units() []ProgramUnit {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ProgramUnit, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, ProgramUnit{Module: id, Members: unit.CloneMembers(p.units[id])})
	}
	return out
}

// Unit returns the emitted member list for module, if any.
func (p *Program) Unit(module string) ([]unit.Member, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	members, ok := p.units[module]
	if !ok {
		return nil, false
	}
	return unit.CloneMembers(members), true
}

// WriteFile writes the combined program to target as YAML.
func (p *Program) WriteFile(target string) error {
	var doc struct {
		Units []ProgramUnit `yaml:"units"`
	}
	doc.Units = p.Units()
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encoding program: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return nil
}
