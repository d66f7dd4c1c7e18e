package unit

import (
	"testing"

	"github.com/quiltlang/quilt/internal/token"
)

func TestClassify_Host(t *testing.T) {
	u := &Unit{Module: "app", Compose: []string{"partials.foo"}}
	if got := Classify(u); got != RoleHost {
		t.Errorf("role = %v, want host", got)
	}
}

func TestClassify_Guest(t *testing.T) {
	u := &Unit{Module: "partials.foo", Partial: true}
	if got := Classify(u); got != RoleGuest {
		t.Errorf("role = %v, want guest", got)
	}
}

func TestClassify_None(t *testing.T) {
	u := &Unit{Module: "plain"}
	if got := Classify(u); got != RoleNone {
		t.Errorf("role = %v, want none", got)
	}
}

func TestWithLocation_DoesNotMutateOriginal(t *testing.T) {
	orig := Member{
		Name: "foo",
		Kind: MemberFunction,
		Pos:  token.Position{File: "partials/foo.unit.yaml", Line: 3, Column: 5},
	}
	moved := orig.WithLocation(token.Position{File: "app.unit.yaml", Line: 1, Column: 1})

	if moved.Pos.File != "app.unit.yaml" {
		t.Errorf("moved.Pos.File = %q, want app.unit.yaml", moved.Pos.File)
	}
	if orig.Pos.File != "partials/foo.unit.yaml" || orig.Pos.Line != 3 {
		t.Errorf("original position mutated: %v", orig.Pos)
	}
}

func TestCloneMembers_Independent(t *testing.T) {
	ms := []Member{{Name: "a"}, {Name: "b"}}
	clone := CloneMembers(ms)
	clone[0].Name = "changed"
	if ms[0].Name != "a" {
		t.Errorf("clone shares backing array with original")
	}
	if CloneMembers(nil) != nil {
		t.Error("clone of nil should be nil")
	}
}

func TestIsValidIdentity(t *testing.T) {
	valid := []string{"app", "partials.Foo", "a.b.c", "_x", "a1.b2"}
	for _, s := range valid {
		if !IsValidIdentity(s) {
			t.Errorf("IsValidIdentity(%q) = false, want true", s)
		}
	}
	invalid := []string{"", ".", "a.", ".a", "a..b", "1a", "a-b", "a b", "a.1b"}
	for _, s := range invalid {
		if IsValidIdentity(s) {
			t.Errorf("IsValidIdentity(%q) = true, want false", s)
		}
	}
}
