// Package unit defines the build-unit data model consumed by the
// composition core: units, their members, and the host/guest
// classification derived from the composition declaration.
package unit

import "github.com/quiltlang/quilt/internal/token"

// MemberKind tags what a member declares. The member body itself is an
// opaque payload: it is copied around, never interpreted.
type MemberKind string

const (
	MemberFunction MemberKind = "function"
	MemberField    MemberKind = "field"
	MemberConstant MemberKind = "constant"
)

// IsValid reports whether k is one of the known member kinds.
func (k MemberKind) IsValid() bool {
	switch k {
	case MemberFunction, MemberField, MemberConstant:
		return true
	}
	return false
}

// Member is a single declared member of a unit. Members are value
// types: every copy is independent, which is what lets the composition
// core hand rewritten copies to a host while the cached originals stay
// untouched.
type Member struct {
	Name string         `yaml:"name"`
	Kind MemberKind     `yaml:"kind"`
	Body string         `yaml:"body,omitempty"`
	Pos  token.Position `yaml:"-"`
}

// WithLocation returns a copy of m whose source position points at pos.
// The receiver is not modified.
func (m Member) WithLocation(pos token.Position) Member {
	m.Pos = pos
	return m
}

// Unit is one compilable unit: a module identity plus its as-declared
// member list and, for hosts, the ordered composition declaration.
type Unit struct {
	// Module is the dotted identity naming this unit within the
	// program. It is stable across rebuilds within a session and is
	// the module cache key.
	Module string
	// File is the unit definition file this unit was loaded from.
	File string
	// Pos is the unit's declaration position (the module line).
	Pos token.Position
	// Members is the ordered, as-declared member list.
	Members []Member
	// Compose, when non-nil, marks this unit as a host and lists the
	// guest module identities to fold in, in merge order.
	Compose []string
	// Partial marks this unit as a composition participant without a
	// guest list, i.e. a guest.
	Partial bool
}

// Role classifies a unit's part in composition. The classification is
// structural: it follows purely from the presence of the composition
// declaration, so a unit can never be both host and guest.
type Role int

const (
	// RoleNone means the unit does not participate in composition and
	// passes through the build untouched.
	RoleNone Role = iota
	// RoleHost means the unit declares a guest list and is the
	// composition target.
	RoleHost
	// RoleGuest means the unit contributes its members to a host and
	// is suppressed from standalone existence.
	RoleGuest
)

func (r Role) String() string {
	switch r {
	case RoleHost:
		return "host"
	case RoleGuest:
		return "guest"
	}
	return "none"
}

// Classify returns the unit's role. Among participating units a unit is
// a guest exactly when the composition declaration is absent; the
// front-end guarantees Compose and Partial are never both set.
func Classify(u *Unit) Role {
	switch {
	case u.Compose != nil:
		return RoleHost
	case u.Partial:
		return RoleGuest
	}
	return RoleNone
}

// CloneMembers returns an independent copy of ms.
func CloneMembers(ms []Member) []Member {
	if ms == nil {
		return nil
	}
	out := make([]Member, len(ms))
	copy(out, ms)
	return out
}
