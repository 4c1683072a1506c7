package deadcode

import (
	"github.com/sweepr/sweepr/pkg/models"
)

// TargetKind classifies what an import specifier resolves to.
type TargetKind string

const (
	// TargetFile is a file inside the analyzed project.
	TargetFile TargetKind = "file"
	// TargetPackage is an external package (bare specifier).
	TargetPackage TargetKind = "package"
	// TargetUnresolved is a specifier no project file satisfies. It is
	// kept as a placeholder so the broken reference stays visible;
	// traversal never continues through it.
	TargetUnresolved TargetKind = "unresolved"
)

// String returns the string representation.
func (k TargetKind) String() string {
	return string(k)
}

// Target is the resolution of one import or re-export specifier.
// Path holds the project-relative file path for TargetFile, the package
// name for TargetPackage, and the raw specifier for TargetUnresolved.
type Target struct {
	Kind TargetKind `json:"kind" toon:"kind"`
	Path string     `json:"path" toon:"path"`
}

// FileEdge is one import relation between two files. From and To index
// into FileGraph.Files.
type FileEdge struct {
	From      int    `json:"from" toon:"from"`
	To        int    `json:"to" toon:"to"`
	Dynamic   bool   `json:"dynamic,omitempty" toon:"dynamic,omitempty"`
	Specifier string `json:"specifier" toon:"specifier"`
	Line      uint32 `json:"line,omitempty" toon:"line,omitempty"`
}

// PackageRef records one import of an external package.
type PackageRef struct {
	File    string `json:"file" toon:"file"`
	Package string `json:"package" toon:"package"`
	Line    uint32 `json:"line,omitempty" toon:"line,omitempty"`
}

// UnresolvedRef records a specifier that resolved to nothing.
type UnresolvedRef struct {
	File      string `json:"file" toon:"file"`
	Specifier string `json:"specifier" toon:"specifier"`
	Line      uint32 `json:"line,omitempty" toon:"line,omitempty"`
}

// FileGraph is the file-level import graph of the project. Files is
// sorted; edges reference files by index.
type FileGraph struct {
	Files      []string        `json:"files" toon:"files"`
	Edges      []FileEdge      `json:"edges" toon:"edges"`
	Unresolved []UnresolvedRef `json:"unresolved,omitempty" toon:"unresolved,omitempty"`

	// Packages maps external package names to the references importing
	// them, collected across every file in the project.
	Packages map[string][]PackageRef `json:"packages,omitempty" toon:"packages,omitempty"`

	index     map[string]int
	adjacency [][]int
}

// Index returns the node index for a file path.
func (g *FileGraph) Index(path string) (int, bool) {
	i, ok := g.index[path]
	return i, ok
}

// Neighbors returns the file indexes directly imported by a file.
func (g *FileGraph) Neighbors(i int) []int {
	if i < 0 || i >= len(g.adjacency) {
		return nil
	}
	return g.adjacency[i]
}

// exportNode is one named export with its resolved re-export source.
// A local export has a zero-valued source.
type exportNode struct {
	rec    models.ExportRecord
	source Target
}

// importBinding is one symbol bound from a resolved import target.
type importBinding struct {
	target  Target
	symbol  models.ImportedSymbol
	dynamic bool
}

// symbolTable holds the export surface and import bindings of one file.
type symbolTable struct {
	exports map[string]exportNode
	stars   []Target // export * from targets, in source order
	imports []importBinding
}

// SymbolGraph holds per-file symbol tables, indexed like FileGraph.Files.
type SymbolGraph struct {
	tables []*symbolTable
}

// table returns the symbol table for a file index, or nil.
func (s *SymbolGraph) table(i int) *symbolTable {
	if i < 0 || i >= len(s.tables) {
		return nil
	}
	return s.tables[i]
}
