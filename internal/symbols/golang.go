package symbols

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/ziadkadry99/codelocate/internal/model"
)

func goLanguage() *sitter.Language { return golang.GetLanguage() }

func trimGoComment(s string) string {
	s = strings.TrimPrefix(s, "//")
	s = strings.TrimPrefix(s, "/*")
	s = strings.TrimSuffix(s, "*/")
	return strings.TrimSpace(s)
}

// extractGo collects the package, imports, struct and interface types,
// functions, and methods. Methods attach to a type declared in the same
// file; methods on other types are kept as functions.
func extractGo(root *sitter.Node, src []byte, f *model.CodeFile) {
	types := make(map[string]model.StructID)
	var methods []*sitter.Node

	for _, n := range namedChildren(root) {
		switch n.Type() {
		case "package_clause":
			for _, c := range namedChildren(n) {
				if c.Type() == "package_identifier" {
					f.Package = nodeText(c, src)
				}
			}
		case "import_declaration":
			collectGoImports(n, src, f)
		case "function_declaration":
			f.Functions = append(f.Functions, goFunction(n, src))
		case "method_declaration":
			methods = append(methods, n)
		case "type_declaration":
			for _, spec := range namedChildren(n) {
				if spec.Type() != "type_spec" {
					continue
				}
				s, ok := goStructure(spec, src, f.Package)
				if !ok {
					continue
				}
				comment := leadingComment(n, src, trimGoComment)
				if s.Comment == "" {
					s.Comment = comment
				}
				if f.HasCanonicalName(s.CanonicalName) {
					continue
				}
				if id, err := f.AddStructure(model.NoParent, s); err == nil {
					types[s.Name] = id
				}
			}
		}
	}

	for _, m := range methods {
		fn := goFunction(m, src)
		recv := goReceiverType(m, src)
		if id, ok := types[recv]; ok {
			s, _ := f.Structure(id)
			s.Methods = append(s.Methods, fn)
			continue
		}
		if recv != "" {
			fn.Modifiers = "receiver " + recv
		}
		f.Functions = append(f.Functions, fn)
	}
}

func collectGoImports(n *sitter.Node, src []byte, f *model.CodeFile) {
	var visit func(*sitter.Node)
	visit = func(n *sitter.Node) {
		if n.Type() == "import_spec" {
			if p := n.ChildByFieldName("path"); p != nil {
				f.Imports = append(f.Imports, strings.Trim(nodeText(p, src), "\"`"))
			}
			return
		}
		for _, c := range namedChildren(n) {
			visit(c)
		}
	}
	visit(n)
}

func goFunction(n *sitter.Node, src []byte) model.CodeFunction {
	fn := model.CodeFunction{
		Name:       nodeText(n.ChildByFieldName("name"), src),
		ReturnType: strings.TrimSpace(nodeText(n.ChildByFieldName("result"), src)),
		Span:       span(n),
		Comment:    leadingComment(n, src, trimGoComment),
	}
	for _, p := range namedChildren(n.ChildByFieldName("parameters")) {
		if p.Type() != "parameter_declaration" && p.Type() != "variadic_parameter_declaration" {
			continue
		}
		typ := nodeText(p.ChildByFieldName("type"), src)
		names := 0
		for _, c := range namedChildren(p) {
			if c.Type() == "identifier" {
				fn.Parameters = append(fn.Parameters, model.Parameter{Name: nodeText(c, src), Type: typ})
				names++
			}
		}
		if names == 0 {
			fn.Parameters = append(fn.Parameters, model.Parameter{Type: typ})
		}
	}
	return fn
}

func goReceiverType(n *sitter.Node, src []byte) string {
	for _, p := range namedChildren(n.ChildByFieldName("receiver")) {
		t := p.ChildByFieldName("type")
		if t == nil {
			continue
		}
		name := strings.TrimLeft(nodeText(t, src), "*")
		if i := strings.Index(name, "["); i >= 0 {
			name = name[:i]
		}
		return name
	}
	return ""
}

func goStructure(spec *sitter.Node, src []byte, pkg string) (model.CodeStructure, bool) {
	name := nodeText(spec.ChildByFieldName("name"), src)
	t := spec.ChildByFieldName("type")
	if name == "" || t == nil {
		return model.CodeStructure{}, false
	}

	s := model.CodeStructure{
		Name:          name,
		CanonicalName: qualify(pkg, name),
		Package:       pkg,
		Span:          span(spec),
		Comment:       leadingComment(spec, src, trimGoComment),
	}
	switch t.Type() {
	case "struct_type":
		s.Kind = model.KindStruct
		for _, list := range namedChildren(t) {
			for _, fd := range namedChildren(list) {
				if fd.Type() != "field_declaration" {
					continue
				}
				typ := nodeText(fd.ChildByFieldName("type"), src)
				named := false
				for _, c := range namedChildren(fd) {
					if c.Type() == "field_identifier" {
						s.Fields = append(s.Fields, model.CodeVariable{Name: nodeText(c, src), Type: typ})
						named = true
					}
				}
				if !named {
					// Embedded field.
					s.Extends = append(s.Extends, strings.TrimLeft(typ, "*"))
				}
			}
		}
	case "interface_type":
		s.Kind = model.KindInterface
		for _, m := range namedChildren(t) {
			if m.Type() == "method_elem" || m.Type() == "method_spec" {
				s.Methods = append(s.Methods, model.CodeFunction{
					Name: nodeText(m.ChildByFieldName("name"), src),
					Span: span(m),
				})
			}
		}
	default:
		return model.CodeStructure{}, false
	}
	return s, true
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}
