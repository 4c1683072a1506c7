// Package deadcode finds unreachable files, unused exports, and unused
// declared dependencies in JavaScript and TypeScript projects by
// building module graphs from parsed import and export records and
// traversing them from configured entry points.
package deadcode

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/sweepr/sweepr/internal/cache"
	"github.com/sweepr/sweepr/internal/fileproc"
	"github.com/sweepr/sweepr/internal/manifest"
	"github.com/sweepr/sweepr/pkg/models"
	"github.com/sweepr/sweepr/pkg/parser"
)

// ErrNoEntryPoints is returned when analysis starts with an empty entry
// point list.
var ErrNoEntryPoints = errors.New("no entry points configured")

// EntryPointError reports an entry pattern that matched no scanned file.
// Analysis from a missing root would silently report everything unused,
// so this is fatal.
type EntryPointError struct {
	Pattern string
}

func (e *EntryPointError) Error() string {
	return fmt.Sprintf("entry point %q did not match any file", e.Pattern)
}

// Analyzer runs the dead code analysis for one project root.
type Analyzer struct {
	root          string
	entries       []string
	aliases       map[string]string
	extensions    []string
	typeOnlyUsage bool
	ignoreDynamic bool
	cycles        bool
	workers       int
	cache         *cache.Cache
	onProgress    fileproc.ProgressFunc
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithEntries sets the entry point paths or glob patterns, relative to
// the project root.
func WithEntries(entries []string) Option {
	return func(a *Analyzer) {
		a.entries = entries
	}
}

// WithAliases sets specifier prefix rewrites (e.g. "@" -> "src").
func WithAliases(aliases map[string]string) Option {
	return func(a *Analyzer) {
		a.aliases = aliases
	}
}

// WithExtensions overrides the extension resolution order.
func WithExtensions(extensions []string) Option {
	return func(a *Analyzer) {
		a.extensions = extensions
	}
}

// WithTypeOnlyUsage controls whether type-only imports mark exports as
// used. Enabled by default; disabling it reports exports consumed only
// as types.
func WithTypeOnlyUsage(enabled bool) Option {
	return func(a *Analyzer) {
		a.typeOnlyUsage = enabled
	}
}

// WithIgnoreDynamic drops dynamic import() sites from the graph so
// their targets count as unreachable unless imported statically.
func WithIgnoreDynamic(ignore bool) Option {
	return func(a *Analyzer) {
		a.ignoreDynamic = ignore
	}
}

// WithCycleDetection toggles circular import reporting.
func WithCycleDetection(enabled bool) Option {
	return func(a *Analyzer) {
		a.cycles = enabled
	}
}

// WithWorkers sets the parse worker count (0 = default).
func WithWorkers(workers int) Option {
	return func(a *Analyzer) {
		a.workers = workers
	}
}

// WithCache sets the descriptor cache.
func WithCache(c *cache.Cache) Option {
	return func(a *Analyzer) {
		a.cache = c
	}
}

// WithProgress sets a callback invoked once per parsed file.
func WithProgress(fn fileproc.ProgressFunc) Option {
	return func(a *Analyzer) {
		a.onProgress = fn
	}
}

// New creates an analyzer for the project rooted at root.
func New(root string, opts ...Option) *Analyzer {
	a := &Analyzer{
		root:          root,
		typeOnlyUsage: true,
		cycles:        true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// parseOutcome carries a descriptor plus an optional diagnostic out of
// the parallel parse phase. Parse failures are findings, not errors.
type parseOutcome struct {
	desc *models.ModuleDescriptor
	diag *models.Diagnostic
}

// Analyze runs the full pipeline over the scanned files and returns the
// findings. File paths may be absolute or relative to the project root.
func (a *Analyzer) Analyze(ctx context.Context, files []string) (*models.AnalysisResult, error) {
	if len(a.entries) == 0 {
		return nil, ErrNoEntryPoints
	}

	paths, err := a.normalize(files)
	if err != nil {
		return nil, err
	}

	outcomes, procErrs := fileproc.MapFilesN(ctx, paths, a.workers, a.parseOne, a.onProgress)
	if procErrs != nil && procErrs.HasErrors() {
		// Only context cancellation surfaces here; per-file failures
		// become diagnostics.
		return nil, procErrs
	}

	descriptors := make([]*models.ModuleDescriptor, 0, len(outcomes))
	var diagnostics []models.Diagnostic
	for _, out := range outcomes {
		descriptors = append(descriptors, out.desc)
		if out.diag != nil {
			diagnostics = append(diagnostics, *out.diag)
		}
	}
	sort.Slice(descriptors, func(i, j int) bool { return descriptors[i].Path < descriptors[j].Path })

	scanned := make([]string, len(descriptors))
	for i, d := range descriptors {
		scanned[i] = d.Path
	}

	resolver := NewResolver(scanned, a.aliases, a.extensions)
	entryPaths, entryIdx, err := resolveEntries(a.entries, scanned, resolver)
	if err != nil {
		return nil, err
	}

	fg, sg := BuildGraphs(descriptors, resolver, a.ignoreDynamic)
	reach := Reachable(fg, entryIdx)
	used := ComputeUsage(fg, sg, reach, entryIdx, a.typeOnlyUsage)

	m, err := manifest.Load(a.root)
	if err != nil {
		return nil, err
	}
	if m == nil {
		diagnostics = append(diagnostics, models.Diagnostic{
			Kind:   models.DiagMissingManifest,
			Detail: "no package.json found; dependency checks skipped",
		})
	}
	referenced, unusedDeps, undeclared := CrossrefDependencies(fg, m)

	for _, ref := range fg.Unresolved {
		diagnostics = append(diagnostics, models.Diagnostic{
			Kind:   models.DiagUnresolvedImport,
			File:   ref.File,
			Detail: fmt.Sprintf("cannot resolve %q", ref.Specifier),
			Line:   ref.Line,
		})
	}

	result := &models.AnalysisResult{
		EntryPoints:            entryPaths,
		ReachableFiles:         reachablePaths(fg, reach),
		UnusedFiles:            unusedFiles(fg, reach),
		UnusedExports:          unusedExports(fg, sg, reach, used),
		ReferencedPackages:     referenced,
		UnusedDependencies:     unusedDeps,
		UndeclaredDependencies: undeclared,
		Diagnostics:            sortDiagnostics(diagnostics),
	}
	if a.cycles {
		result.Cycles = DetectCycles(fg)
	}

	result.Summary = models.Summary{
		TotalFiles:             len(fg.Files),
		ReachableFiles:         len(result.ReachableFiles),
		UnusedFiles:            len(result.UnusedFiles),
		TotalExports:           totalExports(sg),
		UnusedExports:          len(result.UnusedExports),
		DeclaredDependencies:   m.Count(),
		UnusedDependencies:     len(result.UnusedDependencies),
		UndeclaredDependencies: len(result.UndeclaredDependencies),
		Diagnostics:            len(result.Diagnostics),
	}

	return result, nil
}

// Close releases analyzer resources.
func (a *Analyzer) Close() {}

// parseOne reads, hashes, and parses a single file into a descriptor.
// Failures yield an empty descriptor flagged Failed plus a diagnostic.
func (a *Analyzer) parseOne(psr *parser.Parser, path string) (parseOutcome, error) {
	abs := filepath.Join(a.root, filepath.FromSlash(path))

	source, err := os.ReadFile(abs)
	if err != nil {
		return failedOutcome(path, "", err), nil
	}
	hash := cache.HashBytes(source)

	if a.cache != nil {
		if desc, ok := a.cache.GetDescriptor(path, hash); ok {
			return parseOutcome{desc: desc}, nil
		}
	}

	var desc *models.ModuleDescriptor
	if strings.EqualFold(filepath.Ext(path), ".json") {
		desc = jsonDescriptor(path)
	} else {
		lang := parser.DetectLanguage(path)
		result, err := psr.Parse(source, lang, path)
		if err != nil {
			return failedOutcome(path, hash, err), nil
		}
		desc = parser.ExtractModule(result)
	}
	desc.Hash = hash

	if a.cache != nil {
		_ = a.cache.SetDescriptor(path, hash, desc)
	}
	return parseOutcome{desc: desc}, nil
}

// jsonDescriptor models a JSON module: importable, exporting only its
// default value.
func jsonDescriptor(path string) *models.ModuleDescriptor {
	desc := models.NewModuleDescriptor(path, "json")
	desc.AddExport(models.ExportRecord{Name: "default", Kind: models.ExportDefault})
	return desc
}

func failedOutcome(path, hash string, err error) parseOutcome {
	desc := models.NewModuleDescriptor(path, string(parser.DetectLanguage(path)))
	desc.Hash = hash
	desc.Failed = true
	return parseOutcome{
		desc: desc,
		diag: &models.Diagnostic{
			Kind:   models.DiagParseFailure,
			File:   path,
			Detail: err.Error(),
		},
	}
}

// normalize rewrites scanned paths to sorted, slash-separated paths
// relative to the project root, dropping duplicates.
func (a *Analyzer) normalize(files []string) ([]string, error) {
	seen := make(map[string]bool, len(files))
	out := make([]string, 0, len(files))
	for _, f := range files {
		p := f
		if filepath.IsAbs(p) {
			rel, err := filepath.Rel(a.root, p)
			if err != nil {
				return nil, fmt.Errorf("file %s outside project root: %w", p, err)
			}
			p = rel
		}
		p = filepath.ToSlash(filepath.Clean(p))
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out, nil
}

// resolveEntries expands entry patterns against the scanned file set.
// Literal entries go through extension and index probing; patterns with
// glob metacharacters match the file list directly. A pattern matching
// nothing is a configuration error.
func resolveEntries(entries, files []string, resolver *Resolver) ([]string, []int, error) {
	index := make(map[string]int, len(files))
	for i, f := range files {
		index[f] = i
	}

	seen := make(map[string]bool)
	var paths []string
	var idx []int
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
			idx = append(idx, index[path])
		}
	}

	for _, entry := range entries {
		if strings.ContainsAny(entry, "*?[{") {
			g, err := glob.Compile(entry, '/')
			if err != nil {
				return nil, nil, fmt.Errorf("invalid entry pattern %q: %w", entry, err)
			}
			matched := false
			for _, f := range files {
				if g.Match(f) {
					matched = true
					add(f)
				}
			}
			if !matched {
				return nil, nil, &EntryPointError{Pattern: entry}
			}
			continue
		}

		path, ok := resolver.ResolveEntry(entry)
		if !ok {
			return nil, nil, &EntryPointError{Pattern: entry}
		}
		add(path)
	}

	sort.Strings(paths)
	sort.Ints(idx)
	return paths, idx, nil
}

func reachablePaths(g *FileGraph, reach *ReachabilitySet) []string {
	out := make([]string, 0, reach.Count())
	for _, i := range reach.Indexes() {
		out = append(out, g.Files[i])
	}
	sort.Strings(out)
	return out
}

func unusedFiles(g *FileGraph, reach *ReachabilitySet) []string {
	var out []string
	for i, f := range g.Files {
		if !reach.IsSet(i) {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

// unusedExports lists named exports of reachable files that no usage
// chain touched. Unreachable files are reported whole, so their exports
// are not listed individually.
func unusedExports(g *FileGraph, s *SymbolGraph, reach *ReachabilitySet, used map[symbolKey]bool) []models.UnusedExport {
	var out []models.UnusedExport
	for _, i := range reach.Indexes() {
		tab := s.table(i)
		if tab == nil {
			continue
		}
		for name, node := range tab.exports {
			if !used[symbolKey{file: i, name: name}] {
				out = append(out, models.UnusedExport{
					File: g.Files[i],
					Name: name,
					Line: node.rec.Line,
				})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func totalExports(s *SymbolGraph) int {
	total := 0
	for _, tab := range s.tables {
		total += len(tab.exports)
	}
	return total
}

func sortDiagnostics(diags []models.Diagnostic) []models.Diagnostic {
	sort.Slice(diags, func(i, j int) bool {
		if diags[i].File != diags[j].File {
			return diags[i].File < diags[j].File
		}
		if diags[i].Line != diags[j].Line {
			return diags[i].Line < diags[j].Line
		}
		return diags[i].Detail < diags[j].Detail
	})
	return diags
}
