// Package modules resolves dotted module identities to unit files and
// caches loaded units for the lifetime of a build session.
package modules

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/quiltlang/quilt/internal/config"
	"github.com/quiltlang/quilt/internal/frontend"
	"github.com/quiltlang/quilt/internal/unit"
)

// ErrUnknownModule marks an identity that resolves to no unit file.
// Unlike a stale cache entry this is a hard authoring error.
var ErrUnknownModule = errors.New("unknown module")

// Loader maps module identities to unit files under a project root.
type Loader struct {
	Root        string
	LoadedUnits map[string]*unit.Unit // cache of loaded units by identity
}

func NewLoader(root string) *Loader {
	return &Loader{
		Root:        root,
		LoadedUnits: make(map[string]*unit.Unit),
	}
}

// UnitPath returns the file a module identity resolves to:
// dots become path separators under the project root.
func (l *Loader) UnitPath(identity string) string {
	rel := strings.ReplaceAll(identity, ".", string(filepath.Separator))
	return filepath.Join(l.Root, rel+config.UnitFileExt)
}

// Load resolves an identity to its unit, parsing the unit file on first
// use. The declared module identity must match the path-derived one.
func (l *Loader) Load(identity string) (*unit.Unit, error) {
	if u, ok := l.LoadedUnits[identity]; ok {
		return u, nil
	}
	if !unit.IsValidIdentity(identity) {
		return nil, fmt.Errorf("%w: invalid identity %q", ErrUnknownModule, identity)
	}

	path := l.UnitPath(identity)
	u, err := frontend.LoadUnit(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s (no unit file at %s)", ErrUnknownModule, identity, path)
		}
		return nil, err
	}
	if u.Module != identity {
		return nil, fmt.Errorf("%s: declared module %s does not match path-derived identity %s", path, u.Module, identity)
	}

	l.LoadedUnits[identity] = u
	return u, nil
}

// Invalidate drops a cached unit so the next Load re-reads its file.
// Used by incremental passes for dirty units.
func (l *Loader) Invalidate(identity string) {
	delete(l.LoadedUnits, identity)
}

// Reset drops every cached unit. Used at the start of a full rebuild.
func (l *Loader) Reset() {
	l.LoadedUnits = make(map[string]*unit.Unit)
}

// Discover walks the project root and returns the identities of all
// unit files found, sorted for deterministic build order.
func (l *Loader) Discover() ([]string, error) {
	var ids []string
	err := filepath.WalkDir(l.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Skip the working directory and hidden directories.
			name := d.Name()
			if path != l.Root && (name == config.WorkDirName || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), config.UnitFileExt) {
			return nil
		}
		rel, err := filepath.Rel(l.Root, path)
		if err != nil {
			return err
		}
		rel = strings.TrimSuffix(rel, config.UnitFileExt)
		ids = append(ids, strings.ReplaceAll(rel, string(filepath.Separator), "."))
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("project root %s does not exist", l.Root)
		}
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}
