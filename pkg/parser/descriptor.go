package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/sweepr/sweepr/pkg/models"
)

// ExtractModule walks a parsed file and builds its module descriptor:
// every import site (static, dynamic, require) and every exported name,
// in source order.
func ExtractModule(result *ParseResult) *models.ModuleDescriptor {
	desc := models.NewModuleDescriptor(result.Path, string(result.Language))
	root := result.Tree.RootNode()

	Walk(root, result.Source, func(node *sitter.Node, source []byte) bool {
		switch node.Type() {
		case "import_statement":
			if rec, ok := extractImport(node, source); ok {
				desc.AddImport(rec)
			}
			return false
		case "export_statement":
			extractExport(node, source, desc)
			return false
		case "call_expression":
			if rec, ok := extractCallImport(node, source); ok {
				desc.AddImport(rec)
			}
			return true
		}
		return true
	})

	return desc
}

// extractImport handles static import statements: default, namespace,
// named, type-only, and bare side-effect imports.
func extractImport(node *sitter.Node, source []byte) (models.ImportRecord, bool) {
	spec := sourceSpecifier(node, source)
	if spec == "" {
		return models.ImportRecord{}, false
	}

	rec := models.ImportRecord{
		Specifier: spec,
		TypeOnly:  hasTypeKeyword(node),
		Line:      node.StartPoint().Row + 1,
	}

	for i := range int(node.ChildCount()) {
		child := node.Child(i)
		if child.Type() != "import_clause" {
			continue
		}
		for j := range int(child.ChildCount()) {
			collectImportBinding(child.Child(j), source, &rec)
		}
	}

	return rec, true
}

// collectImportBinding adds the symbols bound by one clause element.
func collectImportBinding(node *sitter.Node, source []byte, rec *models.ImportRecord) {
	switch node.Type() {
	case "identifier":
		rec.Symbols = append(rec.Symbols, models.ImportedSymbol{
			Name:     "default",
			Local:    GetNodeText(node, source),
			Kind:     models.ImportDefault,
			TypeOnly: rec.TypeOnly,
		})
	case "namespace_import":
		local := ""
		for i := range int(node.ChildCount()) {
			if c := node.Child(i); c.Type() == "identifier" {
				local = GetNodeText(c, source)
			}
		}
		rec.Symbols = append(rec.Symbols, models.ImportedSymbol{
			Name:     "*",
			Local:    local,
			Kind:     models.ImportNamespace,
			TypeOnly: rec.TypeOnly,
		})
	case "named_imports":
		for i := range int(node.ChildCount()) {
			c := node.Child(i)
			if c.Type() != "import_specifier" {
				continue
			}
			name := GetNodeText(c.ChildByFieldName("name"), source)
			if name == "" {
				continue
			}
			local := name
			if alias := c.ChildByFieldName("alias"); alias != nil {
				local = GetNodeText(alias, source)
			}
			rec.Symbols = append(rec.Symbols, models.ImportedSymbol{
				Name:     name,
				Local:    local,
				Kind:     models.ImportNamed,
				TypeOnly: rec.TypeOnly || hasTypeKeyword(c),
			})
		}
	}
}

// extractExport handles every export statement form and appends the
// resulting records to the descriptor.
func extractExport(node *sitter.Node, source []byte, desc *models.ModuleDescriptor) {
	spec := sourceSpecifier(node, source)
	typeOnly := hasTypeKeyword(node)
	line := node.StartPoint().Row + 1

	// export * from "./x" / export * as ns from "./x"
	if spec != "" {
		for i := range int(node.ChildCount()) {
			child := node.Child(i)
			switch child.Type() {
			case "*":
				desc.AddExport(models.ExportRecord{
					Kind:     models.ExportAll,
					Source:   spec,
					TypeOnly: typeOnly,
					Line:     line,
				})
				return
			case "namespace_export":
				name := ""
				for j := range int(child.ChildCount()) {
					if c := child.Child(j); c.Type() == "identifier" {
						name = GetNodeText(c, source)
					}
				}
				desc.AddExport(models.ExportRecord{
					Name:     name,
					Local:    "*",
					Kind:     models.ExportReexport,
					Source:   spec,
					TypeOnly: typeOnly,
					Line:     line,
				})
				return
			}
		}
	}

	// export { a, b as c } [from "./x"]
	for i := range int(node.ChildCount()) {
		child := node.Child(i)
		if child.Type() != "export_clause" {
			continue
		}
		for j := range int(child.ChildCount()) {
			c := child.Child(j)
			if c.Type() != "export_specifier" {
				continue
			}
			local := GetNodeText(c.ChildByFieldName("name"), source)
			if local == "" {
				continue
			}
			name := local
			if alias := c.ChildByFieldName("alias"); alias != nil {
				name = GetNodeText(alias, source)
			}
			rec := models.ExportRecord{
				Name:     name,
				Local:    local,
				Kind:     models.ExportNamed,
				TypeOnly: typeOnly || hasTypeKeyword(c),
				Line:     line,
			}
			if spec != "" {
				rec.Kind = models.ExportReexport
				rec.Source = spec
			}
			desc.AddExport(rec)
		}
		return
	}

	// export default <expr or declaration>
	if hasKeywordChild(node, "default") {
		local := ""
		if decl := node.ChildByFieldName("declaration"); decl != nil {
			local = GetNodeText(decl.ChildByFieldName("name"), source)
		}
		desc.AddExport(models.ExportRecord{
			Name:  "default",
			Local: local,
			Kind:  models.ExportDefault,
			Line:  line,
		})
		return
	}

	// export <declaration>
	if decl := node.ChildByFieldName("declaration"); decl != nil {
		for _, name := range declarationNames(decl, source) {
			desc.AddExport(models.ExportRecord{
				Name:     name,
				Local:    name,
				Kind:     models.ExportNamed,
				TypeOnly: typeOnly || isTypeDeclaration(decl.Type()),
				Line:     line,
			})
		}
	}
}

// extractCallImport handles dynamic import() and CommonJS require()
// call expressions with a literal specifier.
func extractCallImport(node *sitter.Node, source []byte) (models.ImportRecord, bool) {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return models.ImportRecord{}, false
	}

	var dynamic bool
	switch {
	case fn.Type() == "import":
		dynamic = true
	case fn.Type() == "identifier" && GetNodeText(fn, source) == "require":
		dynamic = false
	default:
		return models.ImportRecord{}, false
	}

	args := node.ChildByFieldName("arguments")
	if args == nil {
		return models.ImportRecord{}, false
	}
	spec := ""
	for i := range int(args.ChildCount()) {
		if c := args.Child(i); c.Type() == "string" {
			spec = stringLiteral(c, source)
			break
		}
	}
	if spec == "" {
		return models.ImportRecord{}, false
	}

	// Both forms bind the whole module namespace.
	return models.ImportRecord{
		Specifier: spec,
		Dynamic:   dynamic,
		Symbols: []models.ImportedSymbol{
			{Name: "*", Kind: models.ImportNamespace},
		},
		Line: node.StartPoint().Row + 1,
	}, true
}

// declarationNames returns the names introduced by an exported
// declaration. Destructuring patterns contribute every bound identifier.
func declarationNames(decl *sitter.Node, source []byte) []string {
	switch decl.Type() {
	case "lexical_declaration", "variable_declaration":
		var names []string
		for i := range int(decl.ChildCount()) {
			c := decl.Child(i)
			if c.Type() != "variable_declarator" {
				continue
			}
			name := c.ChildByFieldName("name")
			if name == nil {
				continue
			}
			if name.Type() == "identifier" {
				names = append(names, GetNodeText(name, source))
				continue
			}
			names = append(names, patternIdentifiers(name, source)...)
		}
		return names
	default:
		if name := decl.ChildByFieldName("name"); name != nil {
			return []string{GetNodeText(name, source)}
		}
		return nil
	}
}

// patternIdentifiers collects bound identifiers from a destructuring
// pattern (object or array).
func patternIdentifiers(pattern *sitter.Node, source []byte) []string {
	var names []string
	Walk(pattern, source, func(n *sitter.Node, src []byte) bool {
		switch n.Type() {
		case "shorthand_property_identifier_pattern", "shorthand_property_identifier":
			names = append(names, GetNodeText(n, src))
		case "pair_pattern":
			if v := n.ChildByFieldName("value"); v != nil && v.Type() == "identifier" {
				names = append(names, GetNodeText(v, src))
			}
			return true
		case "identifier":
			if p := n.Parent(); p != nil && (p.Type() == "array_pattern" || p.Type() == "rest_pattern") {
				names = append(names, GetNodeText(n, src))
			}
		}
		return true
	})
	return names
}

// isTypeDeclaration reports whether a declaration node only exists in
// the type domain.
func isTypeDeclaration(nodeType string) bool {
	return nodeType == "type_alias_declaration" || nodeType == "interface_declaration"
}

// hasTypeKeyword reports whether a statement or specifier carries a
// leading `type` keyword (import type / export type / { type X }).
func hasTypeKeyword(node *sitter.Node) bool {
	return hasKeywordChild(node, "type")
}

func hasKeywordChild(node *sitter.Node, keyword string) bool {
	for i := range int(node.ChildCount()) {
		if node.Child(i).Type() == keyword {
			return true
		}
	}
	return false
}

// sourceSpecifier returns the unquoted source of an import or export
// statement, or empty if it has none.
func sourceSpecifier(node *sitter.Node, source []byte) string {
	return stringLiteral(node.ChildByFieldName("source"), source)
}

// stringLiteral returns the content of a string node without quotes.
func stringLiteral(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	text := GetNodeText(node, source)
	return strings.Trim(text, "'\"`")
}
