package model

import "fmt"

// SymbolKind is a numeric symbol kind code. Values follow the LSP
// SymbolKind numbering so external symbol providers can pass codes through.
type SymbolKind int

const (
	SymbolFile          SymbolKind = 1
	SymbolModule        SymbolKind = 2
	SymbolNamespace     SymbolKind = 3
	SymbolPackage       SymbolKind = 4
	SymbolClass         SymbolKind = 5
	SymbolMethod        SymbolKind = 6
	SymbolProperty      SymbolKind = 7
	SymbolField         SymbolKind = 8
	SymbolConstructor   SymbolKind = 9
	SymbolEnum          SymbolKind = 10
	SymbolInterface     SymbolKind = 11
	SymbolFunction      SymbolKind = 12
	SymbolVariable      SymbolKind = 13
	SymbolConstant      SymbolKind = 14
	SymbolEnumMember    SymbolKind = 22
	SymbolStruct        SymbolKind = 23
	SymbolTypeParameter SymbolKind = 26
)

var symbolKindNames = map[SymbolKind]string{
	SymbolFile:          "File",
	SymbolModule:        "Module",
	SymbolNamespace:     "Namespace",
	SymbolPackage:       "Package",
	SymbolClass:         "Class",
	SymbolMethod:        "Method",
	SymbolProperty:      "Property",
	SymbolField:         "Field",
	SymbolConstructor:   "Constructor",
	SymbolEnum:          "Enum",
	SymbolInterface:     "Interface",
	SymbolFunction:      "Function",
	SymbolVariable:      "Variable",
	SymbolConstant:      "Constant",
	SymbolEnumMember:    "EnumMember",
	SymbolStruct:        "Struct",
	SymbolTypeParameter: "TypeParameter",
}

func (k SymbolKind) String() string {
	if name, ok := symbolKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Symbol is one entry of a symbol-analysis result.
type Symbol struct {
	Name          string       `json:"name"`
	QualifiedName string       `json:"qualified_name"`
	Kind          SymbolKind   `json:"kind"`
	Path          string       `json:"path"`
	Start         CodePosition `json:"start"`
	Comment       string       `json:"comment,omitempty"`
}

// SymbolAnalysis is the symbol-analysis result for one workspace.
type SymbolAnalysis struct {
	Symbols []Symbol `json:"symbols"`
}

// structureSymbolKind maps structure kinds onto symbol kind codes.
var structureSymbolKind = map[StructureKind]SymbolKind{
	KindClass:      SymbolClass,
	KindInterface:  SymbolInterface,
	KindEnum:       SymbolEnum,
	KindStruct:     SymbolStruct,
	KindAnnotation: SymbolInterface,
	KindTrait:      SymbolInterface,
}

// Symbols flattens the file into the symbol sequence consumed by the
// analysis strategies: top-level functions, then every structure with its
// methods and fields.
func (f *CodeFile) Symbols() []Symbol {
	var out []Symbol
	qualify := func(name string) string {
		if f.Package == "" {
			return name
		}
		return f.Package + "." + name
	}

	for _, fn := range f.Functions {
		out = append(out, Symbol{
			Name:          fn.Name,
			QualifiedName: qualify(fn.Name),
			Kind:          SymbolFunction,
			Path:          f.Path,
			Start:         fn.Span.Start,
			Comment:       fn.Comment,
		})
	}

	f.Walk(func(s *CodeStructure, _ int) bool {
		owner := s.CanonicalName
		if owner == "" {
			owner = qualify(s.Name)
		}
		out = append(out, Symbol{
			Name:          s.Name,
			QualifiedName: owner,
			Kind:          structureSymbolKind[s.Kind],
			Path:          f.Path,
			Start:         s.Span.Start,
			Comment:       s.Comment,
		})
		for _, m := range s.Methods {
			out = append(out, Symbol{
				Name:          m.Name,
				QualifiedName: owner + "." + m.Name,
				Kind:          SymbolMethod,
				Path:          f.Path,
				Start:         m.Span.Start,
				Comment:       m.Comment,
			})
		}
		for _, fld := range s.Fields {
			out = append(out, Symbol{
				Name:          fld.Name,
				QualifiedName: owner + "." + fld.Name,
				Kind:          SymbolField,
				Path:          f.Path,
				Start:         s.Span.Start,
			})
		}
		return true
	})
	return out
}
