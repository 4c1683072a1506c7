// Package models defines the data types shared across sweepr's analysis
// pipeline: per-file module descriptors produced by the parser and the
// aggregate analysis result consumed by reporters.
package models

// ImportKind classifies how a symbol is bound by an import clause.
type ImportKind string

const (
	ImportNamed     ImportKind = "named"
	ImportDefault   ImportKind = "default"
	ImportNamespace ImportKind = "namespace"
)

// String returns the string representation.
func (k ImportKind) String() string {
	return string(k)
}

// ImportedSymbol is a single binding introduced by an import statement.
// Name is the export name on the target module ("default" for default
// imports, "*" for namespace imports); Local is the binding in the
// importing file.
type ImportedSymbol struct {
	Name     string     `json:"name" toon:"name"`
	Local    string     `json:"local" toon:"local"`
	Kind     ImportKind `json:"kind" toon:"kind"`
	TypeOnly bool       `json:"type_only,omitempty" toon:"type_only,omitempty"`
}

// ImportRecord captures one import site: a specifier plus the symbols it
// binds. A side-effect import (`import "./x"`) has no symbols. The
// specifier is recorded verbatim; resolution happens later.
type ImportRecord struct {
	Specifier string           `json:"specifier" toon:"specifier"`
	Symbols   []ImportedSymbol `json:"symbols,omitempty" toon:"symbols,omitempty"`
	Dynamic   bool             `json:"dynamic,omitempty" toon:"dynamic,omitempty"`
	TypeOnly  bool             `json:"type_only,omitempty" toon:"type_only,omitempty"`
	Line      uint32           `json:"line" toon:"line"`
}

// ExportKind classifies an export declaration.
type ExportKind string

const (
	ExportNamed    ExportKind = "named"
	ExportDefault  ExportKind = "default"
	ExportReexport ExportKind = "reexport"
	// ExportAll is a namespace re-export (`export * from "./x"`). Its
	// record has an empty Name; the exported names are only known once
	// the source module's exports are known.
	ExportAll ExportKind = "all"
)

// String returns the string representation.
func (k ExportKind) String() string {
	return string(k)
}

// ExportRecord captures one exported name. For re-exports, Source holds
// the verbatim specifier and Local the name on the source module (so
// `export { default as X } from "./x"` has Name "X", Local "default").
type ExportRecord struct {
	Name     string     `json:"name" toon:"name"`
	Local    string     `json:"local,omitempty" toon:"local,omitempty"`
	Kind     ExportKind `json:"kind" toon:"kind"`
	Source   string     `json:"source,omitempty" toon:"source,omitempty"`
	TypeOnly bool       `json:"type_only,omitempty" toon:"type_only,omitempty"`
	Line     uint32     `json:"line" toon:"line"`
}

// ModuleDescriptor is the per-file summary the analysis operates on:
// the file's imports and exports in source order. It is immutable once
// parsing completes. A file that failed to parse yields an empty
// descriptor with Failed set; the failure surfaces as a diagnostic, not
// an error.
type ModuleDescriptor struct {
	Path     string         `json:"path" toon:"path"`
	Language string         `json:"language" toon:"language"`
	Hash     string         `json:"hash,omitempty" toon:"hash,omitempty"`
	Imports  []ImportRecord `json:"imports,omitempty" toon:"imports,omitempty"`
	Exports  []ExportRecord `json:"exports,omitempty" toon:"exports,omitempty"`
	Failed   bool           `json:"failed,omitempty" toon:"failed,omitempty"`
}

// NewModuleDescriptor creates an empty descriptor for a file.
func NewModuleDescriptor(path, language string) *ModuleDescriptor {
	return &ModuleDescriptor{
		Path:     path,
		Language: language,
	}
}

// AddImport appends an import record.
func (m *ModuleDescriptor) AddImport(rec ImportRecord) {
	m.Imports = append(m.Imports, rec)
}

// AddExport appends an export record. Named export names are unique per
// file; a duplicate name is dropped (duplicate exports are a syntax
// error in the source language, so the first occurrence wins).
// Namespace re-exports have no name and are always appended.
func (m *ModuleDescriptor) AddExport(rec ExportRecord) {
	if rec.Kind != ExportAll {
		for _, e := range m.Exports {
			if e.Kind != ExportAll && e.Name == rec.Name {
				return
			}
		}
	}
	m.Exports = append(m.Exports, rec)
}

// FindExport returns the named export record, if present. Namespace
// re-exports are not named and never match.
func (m *ModuleDescriptor) FindExport(name string) (ExportRecord, bool) {
	for _, e := range m.Exports {
		if e.Kind != ExportAll && e.Name == name {
			return e, true
		}
	}
	return ExportRecord{}, false
}

// ReexportSources returns the specifiers of all namespace re-exports in
// source order.
func (m *ModuleDescriptor) ReexportSources() []string {
	var sources []string
	for _, e := range m.Exports {
		if e.Kind == ExportAll {
			sources = append(sources, e.Source)
		}
	}
	return sources
}

// NamedExports returns all named export records (everything except
// namespace re-exports) in source order.
func (m *ModuleDescriptor) NamedExports() []ExportRecord {
	var named []ExportRecord
	for _, e := range m.Exports {
		if e.Kind != ExportAll {
			named = append(named, e)
		}
	}
	return named
}
