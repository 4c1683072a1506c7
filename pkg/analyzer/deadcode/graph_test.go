package deadcode

import (
	"reflect"
	"testing"

	"github.com/sweepr/sweepr/pkg/models"
)

func fileDesc(path string) *models.ModuleDescriptor {
	return models.NewModuleDescriptor(path, "typescript")
}

func namedImport(specifier string, names ...string) models.ImportRecord {
	rec := models.ImportRecord{Specifier: specifier, Line: 1}
	for _, n := range names {
		rec.Symbols = append(rec.Symbols, models.ImportedSymbol{
			Name: n, Local: n, Kind: models.ImportNamed,
		})
	}
	return rec
}

func namedExport(name string) models.ExportRecord {
	return models.ExportRecord{Name: name, Local: name, Kind: models.ExportNamed, Line: 1}
}

func TestBuildGraphsEdges(t *testing.T) {
	a := fileDesc("src/a.ts")
	a.AddImport(namedImport("./b", "x"))
	a.AddImport(namedImport("lodash", "map"))
	a.AddImport(namedImport("./missing", "gone"))

	b := fileDesc("src/b.ts")
	b.AddExport(namedExport("x"))

	resolver := testResolver([]string{"src/a.ts", "src/b.ts"}, nil)
	fg, sg := BuildGraphs([]*models.ModuleDescriptor{a, b}, resolver, false)

	if len(fg.Files) != 2 {
		t.Fatalf("Files = %v", fg.Files)
	}
	if len(fg.Edges) != 1 {
		t.Fatalf("Edges = %+v, want 1", fg.Edges)
	}
	ai, _ := fg.Index("src/a.ts")
	bi, _ := fg.Index("src/b.ts")
	if fg.Edges[0].From != ai || fg.Edges[0].To != bi {
		t.Errorf("edge = %+v", fg.Edges[0])
	}
	if !reflect.DeepEqual(fg.Neighbors(ai), []int{bi}) {
		t.Errorf("Neighbors(a) = %v", fg.Neighbors(ai))
	}

	refs := fg.Packages["lodash"]
	if len(refs) != 1 || refs[0].File != "src/a.ts" {
		t.Errorf("Packages[lodash] = %+v", refs)
	}

	if len(fg.Unresolved) != 1 || fg.Unresolved[0].Specifier != "./missing" {
		t.Errorf("Unresolved = %+v", fg.Unresolved)
	}

	tab := sg.table(ai)
	if len(tab.imports) != 1 || tab.imports[0].symbol.Name != "x" {
		t.Errorf("imports of a = %+v", tab.imports)
	}
}

func TestBuildGraphsReexportEdges(t *testing.T) {
	barrel := fileDesc("src/index.ts")
	barrel.AddExport(models.ExportRecord{Kind: models.ExportAll, Source: "./all", Line: 1})
	barrel.AddExport(models.ExportRecord{
		Name: "thing", Local: "thing", Kind: models.ExportReexport, Source: "./thing", Line: 2,
	})

	all := fileDesc("src/all.ts")
	all.AddExport(namedExport("a"))
	thing := fileDesc("src/thing.ts")
	thing.AddExport(namedExport("thing"))

	resolver := testResolver([]string{"src/all.ts", "src/index.ts", "src/thing.ts"}, nil)
	fg, sg := BuildGraphs([]*models.ModuleDescriptor{all, barrel, thing}, resolver, false)

	// Re-exports make their sources part of the file graph.
	bi, _ := fg.Index("src/index.ts")
	if len(fg.Neighbors(bi)) != 2 {
		t.Errorf("Neighbors(index) = %v, want 2 targets", fg.Neighbors(bi))
	}

	tab := sg.table(bi)
	if len(tab.stars) != 1 || tab.stars[0].Path != "src/all.ts" {
		t.Errorf("stars = %+v", tab.stars)
	}
	node, ok := tab.exports["thing"]
	if !ok || node.source.Path != "src/thing.ts" {
		t.Errorf("exports[thing] = %+v", node)
	}
}

func TestBuildGraphsIgnoreDynamic(t *testing.T) {
	a := fileDesc("src/a.ts")
	a.AddImport(models.ImportRecord{
		Specifier: "./lazy",
		Dynamic:   true,
		Symbols:   []models.ImportedSymbol{{Name: "*", Kind: models.ImportNamespace}},
		Line:      3,
	})
	lazy := fileDesc("src/lazy.ts")
	lazy.AddExport(namedExport("load"))

	resolver := testResolver([]string{"src/a.ts", "src/lazy.ts"}, nil)

	fg, _ := BuildGraphs([]*models.ModuleDescriptor{a, lazy}, resolver, false)
	if len(fg.Edges) != 1 || !fg.Edges[0].Dynamic {
		t.Errorf("default policy edges = %+v, want one dynamic edge", fg.Edges)
	}

	fg, _ = BuildGraphs([]*models.ModuleDescriptor{a, lazy}, resolver, true)
	if len(fg.Edges) != 0 {
		t.Errorf("ignore policy edges = %+v, want none", fg.Edges)
	}
}

func TestBuildGraphsDeterministic(t *testing.T) {
	build := func() *FileGraph {
		a := fileDesc("src/a.ts")
		a.AddImport(namedImport("./b", "x"))
		a.AddImport(namedImport("./c", "y"))
		b := fileDesc("src/b.ts")
		b.AddExport(namedExport("x"))
		c := fileDesc("src/c.ts")
		c.AddExport(namedExport("y"))
		resolver := testResolver([]string{"src/a.ts", "src/b.ts", "src/c.ts"}, nil)
		fg, _ := BuildGraphs([]*models.ModuleDescriptor{a, b, c}, resolver, false)
		return fg
	}

	g1, g2 := build(), build()
	if !reflect.DeepEqual(g1.Files, g2.Files) || !reflect.DeepEqual(g1.Edges, g2.Edges) {
		t.Error("graph build is not deterministic")
	}
}
