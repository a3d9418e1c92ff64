// Package model defines the data shared by every stage of codelocate: the
// parsed code entity tree, symbols, search keywords and analysis results.
package model

import (
	"fmt"
)

// StructureKind identifies the declaration form of a CodeStructure.
type StructureKind string

const (
	KindClass      StructureKind = "class"
	KindInterface  StructureKind = "interface"
	KindEnum       StructureKind = "enum"
	KindStruct     StructureKind = "struct"
	KindAnnotation StructureKind = "annotation"
	KindTrait      StructureKind = "trait"
)

// Valid reports whether k is one of the known structure kinds.
func (k StructureKind) Valid() bool {
	switch k {
	case KindClass, KindInterface, KindEnum, KindStruct, KindAnnotation, KindTrait:
		return true
	}
	return false
}

// CodePosition is a zero-based row/column location in a source file.
type CodePosition struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Before reports whether p comes strictly before o.
func (p CodePosition) Before(o CodePosition) bool {
	if p.Row != o.Row {
		return p.Row < o.Row
	}
	return p.Column < o.Column
}

// Span is a start/end pair. End is never before Start in a valid span.
type Span struct {
	Start CodePosition `json:"start"`
	End   CodePosition `json:"end"`
}

// Valid reports whether the span's end is not before its start.
func (s Span) Valid() bool {
	return !s.End.Before(s.Start)
}

// CodeVariable is a local variable, field or constant.
type CodeVariable struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Builtin bool   `json:"builtin,omitempty"` // language built-in / system type
}

// Parameter is a single function parameter.
type Parameter struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Annotation is a declaration-level annotation or decorator.
type Annotation struct {
	Name   string            `json:"name"`
	Values map[string]string `json:"values,omitempty"`
}

// CodeFunction is a function or method.
type CodeFunction struct {
	Name        string         `json:"name"`
	Variables   []CodeVariable `json:"variables,omitempty"`
	ReturnType  string         `json:"return_type,omitempty"`
	Span        Span           `json:"span"`
	Parameters  []Parameter    `json:"parameters,omitempty"`
	Modifiers   string         `json:"modifiers,omitempty"`
	Annotations []Annotation   `json:"annotations,omitempty"`
	Comment     string         `json:"comment,omitempty"`
}

// StructID addresses a structure inside its file's arena.
type StructID int

// NoParent marks a top-level structure.
const NoParent StructID = -1

// CodeStructure is a class-like declaration. Nested structures are referenced
// by id through Children; the owning arena holds the values.
type CodeStructure struct {
	ID            StructID       `json:"id"`
	Parent        StructID       `json:"parent"`
	Name          string         `json:"name"`
	CanonicalName string         `json:"canonical_name"`
	Kind          StructureKind  `json:"kind"`
	Package       string         `json:"package,omitempty"`
	Extends       []string       `json:"extends,omitempty"`
	Implements    []string       `json:"implements,omitempty"`
	Fields        []CodeVariable `json:"fields,omitempty"`
	Methods       []CodeFunction `json:"methods,omitempty"`
	Children      []StructID     `json:"children,omitempty"`
	Annotations   []Annotation   `json:"annotations,omitempty"`
	Span          Span           `json:"span"`
	Comment       string         `json:"comment,omitempty"`
}

// CodeFile is a parsed source file. It exclusively owns its structures and
// functions.
type CodeFile struct {
	Name      string          `json:"name"`
	Path      string          `json:"path"`
	Language  string          `json:"language"`
	Package   string          `json:"package,omitempty"`
	Imports   []string        `json:"imports,omitempty"`
	Functions []CodeFunction  `json:"functions,omitempty"`
	Arena     []CodeStructure `json:"structures,omitempty"`
	TopLevel  []StructID      `json:"top_level,omitempty"`
}

// AddStructure inserts s under parent (NoParent for top level) and returns
// its id. Ids are assigned here, so a structure can only ever be attached to
// an already existing node and the containment graph stays a forest.
func (f *CodeFile) AddStructure(parent StructID, s CodeStructure) (StructID, error) {
	if parent != NoParent && !f.has(parent) {
		return 0, fmt.Errorf("add structure %q: unknown parent %d", s.Name, parent)
	}
	id := StructID(len(f.Arena))
	s.ID = id
	s.Parent = parent
	s.Children = nil
	f.Arena = append(f.Arena, s)
	if parent == NoParent {
		f.TopLevel = append(f.TopLevel, id)
	} else {
		f.Arena[parent].Children = append(f.Arena[parent].Children, id)
	}
	return id, nil
}

// Structure returns the structure with the given id.
func (f *CodeFile) Structure(id StructID) (*CodeStructure, bool) {
	if !f.has(id) {
		return nil, false
	}
	return &f.Arena[id], true
}

// HasCanonicalName reports whether a structure with the canonical name is
// already in the file.
func (f *CodeFile) HasCanonicalName(name string) bool {
	for i := range f.Arena {
		if f.Arena[i].CanonicalName == name {
			return true
		}
	}
	return false
}

func (f *CodeFile) has(id StructID) bool {
	return id >= 0 && int(id) < len(f.Arena)
}

// Walk visits every structure depth-first, parents before children, in
// declaration order. Returning false from fn stops the walk.
func (f *CodeFile) Walk(fn func(s *CodeStructure, depth int) bool) {
	type frame struct {
		id    StructID
		depth int
	}
	stack := make([]frame, 0, len(f.TopLevel))
	for i := len(f.TopLevel) - 1; i >= 0; i-- {
		stack = append(stack, frame{f.TopLevel[i], 0})
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s := &f.Arena[top.id]
		if !fn(s, top.depth) {
			return
		}
		for i := len(s.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{s.Children[i], top.depth + 1})
		}
	}
}

// Validate checks the file's structural invariants: valid kinds and spans,
// and canonical names unique within the file.
func (f *CodeFile) Validate() error {
	seen := make(map[string]bool, len(f.Arena))
	var err error
	f.Walk(func(s *CodeStructure, _ int) bool {
		if !s.Kind.Valid() {
			err = fmt.Errorf("structure %q: invalid kind %q", s.Name, s.Kind)
			return false
		}
		if !s.Span.Valid() {
			err = fmt.Errorf("structure %q: end before start", s.Name)
			return false
		}
		if s.CanonicalName != "" {
			if seen[s.CanonicalName] {
				err = fmt.Errorf("duplicate canonical name %q", s.CanonicalName)
				return false
			}
			seen[s.CanonicalName] = true
		}
		for _, m := range s.Methods {
			if !m.Span.Valid() {
				err = fmt.Errorf("method %s.%s: end before start", s.Name, m.Name)
				return false
			}
		}
		return true
	})
	if err != nil {
		return err
	}
	for _, fn := range f.Functions {
		if !fn.Span.Valid() {
			return fmt.Errorf("function %q: end before start", fn.Name)
		}
	}
	return nil
}
