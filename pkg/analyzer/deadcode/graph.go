package deadcode

import (
	"github.com/sweepr/sweepr/pkg/models"
)

// BuildGraphs constructs the file graph and the symbol graph from
// parsed descriptors in two phases: register every file as a node
// first, then add edges by resolving specifiers against the full node
// set. Descriptors must be sorted by path. When ignoreDynamic is set,
// dynamic import() sites contribute neither edges nor symbol usage.
func BuildGraphs(descriptors []*models.ModuleDescriptor, resolver *Resolver, ignoreDynamic bool) (*FileGraph, *SymbolGraph) {
	fg := &FileGraph{
		Files:     make([]string, len(descriptors)),
		Packages:  make(map[string][]PackageRef),
		index:     make(map[string]int, len(descriptors)),
		adjacency: make([][]int, len(descriptors)),
	}
	sg := &SymbolGraph{
		tables: make([]*symbolTable, len(descriptors)),
	}

	// Phase 1: nodes.
	for i, desc := range descriptors {
		fg.Files[i] = desc.Path
		fg.index[desc.Path] = i
		sg.tables[i] = &symbolTable{exports: make(map[string]exportNode)}
	}

	// Phase 2: edges.
	for i, desc := range descriptors {
		seen := make(map[int]bool)
		tab := sg.tables[i]

		for _, imp := range desc.Imports {
			if imp.Dynamic && ignoreDynamic {
				continue
			}
			target := resolver.Resolve(imp.Specifier, desc.Path)
			fg.addReference(i, target, imp.Specifier, imp.Dynamic, imp.Line, seen)
			if target.Kind == TargetFile {
				for _, sym := range imp.Symbols {
					tab.imports = append(tab.imports, importBinding{
						target:  target,
						symbol:  sym,
						dynamic: imp.Dynamic,
					})
				}
			}
		}

		for _, exp := range desc.Exports {
			if exp.Source == "" {
				tab.exports[exp.Name] = exportNode{rec: exp}
				continue
			}
			target := resolver.Resolve(exp.Source, desc.Path)
			fg.addReference(i, target, exp.Source, false, exp.Line, seen)
			if exp.Kind == models.ExportAll {
				tab.stars = append(tab.stars, target)
				continue
			}
			tab.exports[exp.Name] = exportNode{rec: exp, source: target}
		}
	}

	return fg, sg
}

// addReference records the resolved target of one specifier: a file
// edge, an external package reference, or an unresolved placeholder.
func (g *FileGraph) addReference(from int, target Target, specifier string, dynamic bool, line uint32, seen map[int]bool) {
	switch target.Kind {
	case TargetFile:
		to := g.index[target.Path]
		g.Edges = append(g.Edges, FileEdge{
			From:      from,
			To:        to,
			Dynamic:   dynamic,
			Specifier: specifier,
			Line:      line,
		})
		if !seen[to] && to != from {
			seen[to] = true
			g.adjacency[from] = append(g.adjacency[from], to)
		}
	case TargetPackage:
		g.Packages[target.Path] = append(g.Packages[target.Path], PackageRef{
			File:    g.Files[from],
			Package: target.Path,
			Line:    line,
		})
	case TargetUnresolved:
		g.Unresolved = append(g.Unresolved, UnresolvedRef{
			File:      g.Files[from],
			Specifier: specifier,
			Line:      line,
		})
	}
}
