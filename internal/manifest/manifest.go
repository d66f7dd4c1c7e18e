// Package manifest parses the quilt.yaml project manifest.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/quiltlang/quilt/internal/config"
)

// Manifest is the top-level quilt.yaml configuration.
type Manifest struct {
	// Name identifies the project in logs and history.
	Name string `yaml:"name"`

	// Root is the directory containing unit files, relative to the
	// manifest. Defaults to ".".
	Root string `yaml:"root,omitempty"`

	// Output is where the combined program is written, relative to the
	// manifest. Defaults to "program.yaml".
	Output string `yaml:"output,omitempty"`

	// History disables the on-disk pass history when set to false.
	History *bool `yaml:"history,omitempty"`

	// Dir is the directory containing the manifest. Filled by Load,
	// not read from the file.
	Dir string `yaml:"-"`
}

// Load reads and parses a quilt.yaml file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	m, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	m.Dir = filepath.Dir(abs)
	return m, nil
}

// Parse parses manifest content from bytes. The path argument is used
// only for error messages.
func Parse(data []byte, path string) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := m.validate(path); err != nil {
		return nil, err
	}
	m.setDefaults()
	return &m, nil
}

// Find searches for a manifest starting from dir and walking up parent
// directories. Returns the manifest path, or empty string if none is
// found before the filesystem root.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		for _, name := range config.ManifestNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (m *Manifest) validate(path string) error {
	if m.Name == "" {
		return fmt.Errorf("%s: name is required", path)
	}
	if filepath.IsAbs(m.Root) {
		return fmt.Errorf("%s: root must be relative to the manifest", path)
	}
	return nil
}

func (m *Manifest) setDefaults() {
	if m.Root == "" {
		m.Root = "."
	}
	if m.Output == "" {
		m.Output = config.DefaultOutputFile
	}
}

// RootDir returns the absolute unit root directory.
func (m *Manifest) RootDir() string {
	return filepath.Join(m.Dir, m.Root)
}

// OutputPath returns the absolute combined-output path.
func (m *Manifest) OutputPath() string {
	if filepath.IsAbs(m.Output) {
		return m.Output
	}
	return filepath.Join(m.Dir, m.Output)
}

// HistoryEnabled reports whether pass history should be recorded.
func (m *Manifest) HistoryEnabled() bool {
	return m.History == nil || *m.History
}
