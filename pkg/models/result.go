package models

// DiagnosticKind classifies a non-fatal finding about the analysis
// itself, as opposed to a finding about the analyzed code.
type DiagnosticKind string

const (
	DiagParseFailure     DiagnosticKind = "parse_failure"
	DiagUnresolvedImport DiagnosticKind = "unresolved_import"
	DiagMissingManifest  DiagnosticKind = "missing_manifest"
)

// Diagnostic is a non-fatal condition encountered during analysis.
type Diagnostic struct {
	Kind   DiagnosticKind `json:"kind" toon:"kind"`
	File   string         `json:"file,omitempty" toon:"file,omitempty"`
	Detail string         `json:"detail" toon:"detail"`
	Line   uint32         `json:"line,omitempty" toon:"line,omitempty"`
}

// UnusedExport identifies an exported symbol no reachable file consumes.
type UnusedExport struct {
	File string `json:"file" toon:"file"`
	Name string `json:"name" toon:"name"`
	Line uint32 `json:"line,omitempty" toon:"line,omitempty"`
}

// UnusedDependency is a declared package no processed file imports.
// Section is the manifest section it was declared in.
type UnusedDependency struct {
	Name    string `json:"name" toon:"name"`
	Section string `json:"section" toon:"section"`
}

// Summary aggregates counts for quick reporting.
type Summary struct {
	TotalFiles             int `json:"total_files" toon:"total_files"`
	ReachableFiles         int `json:"reachable_files" toon:"reachable_files"`
	UnusedFiles            int `json:"unused_files" toon:"unused_files"`
	TotalExports           int `json:"total_exports" toon:"total_exports"`
	UnusedExports          int `json:"unused_exports" toon:"unused_exports"`
	DeclaredDependencies   int `json:"declared_dependencies" toon:"declared_dependencies"`
	UnusedDependencies     int `json:"unused_dependencies" toon:"unused_dependencies"`
	UndeclaredDependencies int `json:"undeclared_dependencies" toon:"undeclared_dependencies"`
	Diagnostics            int `json:"diagnostics" toon:"diagnostics"`
}

// AnalysisResult is the complete outcome of one analysis run. All slices
// are sorted for deterministic output.
type AnalysisResult struct {
	EntryPoints            []string           `json:"entry_points" toon:"entry_points"`
	ReachableFiles         []string           `json:"reachable_files" toon:"reachable_files"`
	UnusedFiles            []string           `json:"unused_files" toon:"unused_files"`
	UnusedExports          []UnusedExport     `json:"unused_exports" toon:"unused_exports"`
	ReferencedPackages     []string           `json:"referenced_packages" toon:"referenced_packages"`
	UnusedDependencies     []UnusedDependency `json:"unused_dependencies" toon:"unused_dependencies"`
	UndeclaredDependencies []string           `json:"undeclared_dependencies" toon:"undeclared_dependencies"`
	Cycles                 [][]string         `json:"cycles,omitempty" toon:"cycles,omitempty"`
	Diagnostics            []Diagnostic       `json:"diagnostics,omitempty" toon:"diagnostics,omitempty"`
	Summary                Summary            `json:"summary" toon:"summary"`
}

// HasFindings reports whether any rule produced a finding.
func (r *AnalysisResult) HasFindings() bool {
	return len(r.UnusedFiles) > 0 || len(r.UnusedExports) > 0 || len(r.UnusedDependencies) > 0
}
