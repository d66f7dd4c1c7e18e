package session

import (
	"testing"

	"github.com/google/uuid"

	"github.com/quiltlang/quilt/internal/unit"
)

func TestNew(t *testing.T) {
	s := New()
	if s.ID == uuid.Nil {
		t.Error("session has no ID")
	}
	if s.Cache == nil || s.Program == nil {
		t.Error("session state not initialized")
	}
	if s.Pass() != 0 {
		t.Errorf("pass = %d, want 0 before the first BeginPass", s.Pass())
	}
}

func TestBuiltSet(t *testing.T) {
	s := New()
	if s.Built("m") {
		t.Error("fresh session reports m as built")
	}
	s.MarkBuilt("m")
	if !s.Built("m") {
		t.Error("MarkBuilt did not stick")
	}
	if s.BuiltCount() != 1 {
		t.Errorf("BuiltCount = %d, want 1", s.BuiltCount())
	}
}

func TestBeginPass_FullRebuildClearsBuiltSet(t *testing.T) {
	s := New()
	s.MarkBuilt("a")
	s.MarkBuilt("b")
	if pass := s.BeginPass(nil); pass != 1 {
		t.Errorf("pass = %d, want 1", pass)
	}
	if s.Built("a") || s.Built("b") {
		t.Error("full rebuild kept stale built entries")
	}
}

func TestBeginPass_IncrementalMarksOnlyDirty(t *testing.T) {
	s := New()
	s.MarkBuilt("a")
	s.MarkBuilt("b")
	s.BeginPass([]string{"a"})
	if s.Built("a") {
		t.Error("dirty unit still marked built")
	}
	if !s.Built("b") {
		t.Error("clean unit lost its built mark")
	}
}

func TestCacheSurvivesPasses(t *testing.T) {
	s := New()
	s.Cache.Put("g", []unit.Member{{Name: "x"}})

	s.BeginPass(nil)
	s.BeginPass([]string{"h"})

	if _, ok := s.Cache.Get("g"); !ok {
		t.Error("cache entry lost across passes")
	}
}

func TestRestoreBuilt(t *testing.T) {
	s := New()
	s.RestoreBuilt([]string{"g1", "g2"})
	if !s.Built("g1") || !s.Built("g2") {
		t.Error("RestoreBuilt did not seed the built set")
	}
	if _, ok := s.Cache.Get("g1"); ok {
		t.Error("RestoreBuilt must not touch the cache")
	}
}
