// Package frontend parses unit definition files.
//
// The composition core never inspects attributes itself: this package
// turns a *.unit.yaml file into a unit.Unit whose Compose/Partial
// fields are already validated to be mutually exclusive, so the core's
// host/guest classification is purely structural.
package frontend

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quiltlang/quilt/internal/token"
	"github.com/quiltlang/quilt/internal/unit"
)

type memberSpec struct {
	Name string
	Kind unit.MemberKind
	Body string

	line   int
	column int
}

func (m *memberSpec) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Name string `yaml:"name"`
		Kind string `yaml:"kind"`
		Body string `yaml:"body"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	m.Name = raw.Name
	m.Kind = unit.MemberKind(raw.Kind)
	if raw.Kind == "" {
		m.Kind = unit.MemberFunction
	}
	m.Body = raw.Body
	m.line = node.Line
	m.column = node.Column
	return nil
}

type unitFile struct {
	Module  string       `yaml:"module"`
	Partial bool         `yaml:"partial"`
	Compose *[]string    `yaml:"compose"`
	Members []memberSpec `yaml:"members"`
}

// LoadUnit reads and parses a unit definition file.
func LoadUnit(path string) (*unit.Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading unit %s: %w", path, err)
	}
	return ParseUnit(data, path)
}

// ParseUnit parses unit file content from bytes. The path argument is
// recorded as the unit's source file and used in error messages.
func ParseUnit(data []byte, path string) (*unit.Unit, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	var uf unitFile
	if err := doc.Decode(&uf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := uf.validate(path); err != nil {
		return nil, err
	}

	u := &unit.Unit{
		Module:  uf.Module,
		File:    path,
		Pos:     declPosition(&doc, path),
		Partial: uf.Partial,
	}
	if uf.Compose != nil {
		u.Compose = append([]string(nil), (*uf.Compose)...)
	}
	for _, m := range uf.Members {
		u.Members = append(u.Members, unit.Member{
			Name: m.Name,
			Kind: m.Kind,
			Body: m.Body,
			Pos:  token.Position{File: path, Line: m.line, Column: m.column},
		})
	}
	return u, nil
}

// declPosition returns the position of the "module:" key, which serves
// as the unit's declaration site.
func declPosition(doc *yaml.Node, path string) token.Position {
	if len(doc.Content) == 0 {
		return token.Position{File: path, Line: 1, Column: 1}
	}
	root := doc.Content[0]
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == "module" {
			return token.Position{File: path, Line: root.Content[i].Line, Column: root.Content[i].Column}
		}
	}
	return token.Position{File: path, Line: root.Line, Column: root.Column}
}

// validate checks the unit file for front-end errors. Everything the
// composition core relies on structurally is enforced here.
func (uf *unitFile) validate(path string) error {
	if uf.Module == "" {
		return fmt.Errorf("%s: module is required", path)
	}
	if !unit.IsValidIdentity(uf.Module) {
		return fmt.Errorf("%s: invalid module identity %q", path, uf.Module)
	}
	if uf.Compose != nil && uf.Partial {
		return fmt.Errorf("%s: module %s declares both compose and partial; a unit is either a host or a guest, never both", path, uf.Module)
	}
	if uf.Compose != nil {
		if len(*uf.Compose) == 0 {
			return fmt.Errorf("%s: module %s: compose list must not be empty", path, uf.Module)
		}
		seen := make(map[string]bool)
		for i, id := range *uf.Compose {
			if !unit.IsValidIdentity(id) {
				return fmt.Errorf("%s: module %s: compose[%d]: invalid module identity %q", path, uf.Module, i, id)
			}
			if id == uf.Module {
				return fmt.Errorf("%s: module %s: compose[%d]: a host cannot compose itself", path, uf.Module, i)
			}
			if seen[id] {
				return fmt.Errorf("%s: module %s: compose[%d]: duplicate guest %s", path, uf.Module, i, id)
			}
			seen[id] = true
		}
	}
	names := make(map[string]bool)
	for i, m := range uf.Members {
		if m.Name == "" {
			return fmt.Errorf("%s: module %s: members[%d]: name is required", path, uf.Module, i)
		}
		if !m.Kind.IsValid() {
			return fmt.Errorf("%s: module %s: member %s: unknown kind %q", path, uf.Module, m.Name, m.Kind)
		}
		if names[m.Name] {
			return fmt.Errorf("%s: module %s: duplicate member %s", path, uf.Module, m.Name)
		}
		names[m.Name] = true
	}
	return nil
}
