package symbols

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/ziadkadry99/codelocate/internal/model"
)

func pythonLanguage() *sitter.Language { return python.GetLanguage() }

func trimPythonComment(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(s, "#"))
}

// extractPython collects imports, top-level functions and classes. Nested
// classes become child structures; class-level assignments become fields.
func extractPython(root *sitter.Node, src []byte, f *model.CodeFile) {
	f.Package = strings.TrimSuffix(f.Name, ".py")

	for _, n := range namedChildren(root) {
		def, decorators := unwrapDecorated(n, src)
		switch def.Type() {
		case "import_statement", "import_from_statement":
			f.Imports = append(f.Imports, pythonImports(def, src)...)
		case "function_definition":
			fn := pythonFunction(def, src)
			fn.Annotations = decorators
			f.Functions = append(f.Functions, fn)
		case "class_definition":
			addPythonClass(f, model.NoParent, f.Package, def, decorators, src)
		}
	}
}

// unwrapDecorated returns the definition inside a decorated_definition and
// its decorators.
func unwrapDecorated(n *sitter.Node, src []byte) (*sitter.Node, []model.Annotation) {
	if n.Type() != "decorated_definition" {
		return n, nil
	}
	var anns []model.Annotation
	for _, c := range namedChildren(n) {
		if c.Type() == "decorator" {
			anns = append(anns, model.Annotation{Name: strings.TrimPrefix(nodeText(c, src), "@")})
		}
	}
	if def := n.ChildByFieldName("definition"); def != nil {
		return def, anns
	}
	return n, anns
}

func pythonImports(n *sitter.Node, src []byte) []string {
	if n.Type() == "import_from_statement" {
		if m := n.ChildByFieldName("module_name"); m != nil {
			return []string{nodeText(m, src)}
		}
		return nil
	}
	var out []string
	for _, c := range namedChildren(n) {
		switch c.Type() {
		case "dotted_name":
			out = append(out, nodeText(c, src))
		case "aliased_import":
			out = append(out, nodeText(c.ChildByFieldName("name"), src))
		}
	}
	return out
}

func pythonFunction(n *sitter.Node, src []byte) model.CodeFunction {
	fn := model.CodeFunction{
		Name:       nodeText(n.ChildByFieldName("name"), src),
		ReturnType: nodeText(n.ChildByFieldName("return_type"), src),
		Span:       span(n),
		Comment:    docstring(n.ChildByFieldName("body"), src),
	}
	if fn.Comment == "" {
		fn.Comment = leadingComment(n, src, trimPythonComment)
	}
	for _, p := range namedChildren(n.ChildByFieldName("parameters")) {
		switch p.Type() {
		case "identifier":
			fn.Parameters = append(fn.Parameters, model.Parameter{Name: nodeText(p, src)})
		case "typed_parameter", "typed_default_parameter", "default_parameter":
			name := p.ChildByFieldName("name")
			if name == nil && p.NamedChildCount() > 0 {
				name = p.NamedChild(0)
			}
			fn.Parameters = append(fn.Parameters, model.Parameter{
				Name: nodeText(name, src),
				Type: nodeText(p.ChildByFieldName("type"), src),
			})
		}
	}
	return fn
}

func addPythonClass(f *model.CodeFile, parent model.StructID, owner string, n *sitter.Node, decorators []model.Annotation, src []byte) {
	name := nodeText(n.ChildByFieldName("name"), src)
	if name == "" {
		return
	}
	body := n.ChildByFieldName("body")
	s := model.CodeStructure{
		Name:          name,
		CanonicalName: owner + "." + name,
		Kind:          model.KindClass,
		Package:       f.Package,
		Annotations:   decorators,
		Span:          span(n),
		Comment:       docstring(body, src),
	}
	for _, sc := range namedChildren(n.ChildByFieldName("superclasses")) {
		if sc.Type() == "identifier" || sc.Type() == "attribute" {
			s.Extends = append(s.Extends, nodeText(sc, src))
		}
	}

	var nested []*sitter.Node
	var nestedDecorators [][]model.Annotation
	for _, c := range namedChildren(body) {
		def, decs := unwrapDecorated(c, src)
		switch def.Type() {
		case "function_definition":
			m := pythonFunction(def, src)
			m.Annotations = decs
			s.Methods = append(s.Methods, m)
		case "class_definition":
			nested = append(nested, def)
			nestedDecorators = append(nestedDecorators, decs)
		case "expression_statement":
			for _, a := range namedChildren(def) {
				if a.Type() != "assignment" {
					continue
				}
				left := a.ChildByFieldName("left")
				if left != nil && left.Type() == "identifier" {
					s.Fields = append(s.Fields, model.CodeVariable{
						Name: nodeText(left, src),
						Type: nodeText(a.ChildByFieldName("type"), src),
					})
				}
			}
		}
	}

	// A redefined class keeps its first definition.
	if f.HasCanonicalName(s.CanonicalName) {
		return
	}
	id, err := f.AddStructure(parent, s)
	if err != nil {
		return
	}
	for i, c := range nested {
		addPythonClass(f, id, s.CanonicalName, c, nestedDecorators[i], src)
	}
}

// docstring returns the first line of the string literal opening body.
func docstring(body *sitter.Node, src []byte) string {
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	str := first.NamedChild(0)
	if str.Type() != "string" {
		return ""
	}
	text := strings.Trim(nodeText(str, src), "\"'")
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}
	return text
}
