package deadcode

import (
	"path"
	"sort"
	"strings"

	"github.com/sweepr/sweepr/pkg/parser"
)

// Resolver maps import specifiers to targets. Resolution is a pure
// function of the discovered file set, the alias table, and the
// extension priority order; it never touches the filesystem, so results
// are deterministic for a given scan.
type Resolver struct {
	files      map[string]bool
	aliases    []aliasRule
	extensions []string
}

// aliasRule rewrites a specifier prefix to a project-relative path
// prefix. Longer prefixes win.
type aliasRule struct {
	prefix string
	target string
}

// NewResolver creates a resolver over the discovered files. Paths are
// project-relative with forward slashes. Extensions are probed in the
// given order; nil means the default source extension order.
func NewResolver(files []string, aliases map[string]string, extensions []string) *Resolver {
	set := make(map[string]bool, len(files))
	for _, f := range files {
		set[f] = true
	}

	rules := make([]aliasRule, 0, len(aliases))
	for prefix, target := range aliases {
		rules = append(rules, aliasRule{prefix: prefix, target: target})
	}
	sort.Slice(rules, func(i, j int) bool {
		if len(rules[i].prefix) != len(rules[j].prefix) {
			return len(rules[i].prefix) > len(rules[j].prefix)
		}
		return rules[i].prefix < rules[j].prefix
	})

	return &Resolver{
		files:      set,
		aliases:    rules,
		extensions: extensions,
	}
}

// Resolve maps a specifier appearing in fromFile to its target.
func (r *Resolver) Resolve(specifier, fromFile string) Target {
	if specifier == "" {
		return Target{Kind: TargetUnresolved, Path: specifier}
	}

	if rebased, ok := r.applyAlias(specifier); ok {
		return r.probe(rebased, specifier)
	}

	if strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") {
		candidate := path.Join(path.Dir(fromFile), specifier)
		if candidate == ".." || strings.HasPrefix(candidate, "../") {
			return Target{Kind: TargetUnresolved, Path: specifier}
		}
		return r.probe(candidate, specifier)
	}

	if strings.HasPrefix(specifier, "/") {
		return r.probe(strings.TrimPrefix(path.Clean(specifier), "/"), specifier)
	}

	return Target{Kind: TargetPackage, Path: PackageName(specifier)}
}

// ResolveEntry resolves an entry point path given relative to the
// project root, using the same literal, extension, and index probing as
// imports.
func (r *Resolver) ResolveEntry(entry string) (string, bool) {
	candidate := path.Clean(strings.TrimPrefix(entry, "./"))
	target := r.probe(candidate, entry)
	if target.Kind != TargetFile {
		return "", false
	}
	return target.Path, true
}

// applyAlias rewrites the specifier when a configured alias prefix
// matches. A prefix matches exactly or at a path boundary.
func (r *Resolver) applyAlias(specifier string) (string, bool) {
	for _, rule := range r.aliases {
		if specifier == rule.prefix {
			return path.Clean(rule.target), true
		}
		prefix := rule.prefix
		if !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		if strings.HasPrefix(specifier, prefix) {
			rest := specifier[len(prefix):]
			return path.Join(rule.target, rest), true
		}
	}
	return "", false
}

// probe tries the candidate as written, then with each extension
// appended, then as a directory with an index file.
func (r *Resolver) probe(candidate, raw string) Target {
	if r.files[candidate] {
		return Target{Kind: TargetFile, Path: candidate}
	}
	for _, ext := range r.exts() {
		if p := candidate + ext; r.files[p] {
			return Target{Kind: TargetFile, Path: p}
		}
	}
	for _, ext := range r.exts() {
		if p := candidate + "/index" + ext; r.files[p] {
			return Target{Kind: TargetFile, Path: p}
		}
	}
	return Target{Kind: TargetUnresolved, Path: raw}
}

func (r *Resolver) exts() []string {
	if len(r.extensions) > 0 {
		return r.extensions
	}
	return defaultExtensions
}

var defaultExtensions = parser.SourceExtensions()

// PackageName extracts the package name from a bare specifier. Scoped
// packages keep their first two path segments, everything else keeps
// the first.
func PackageName(specifier string) string {
	parts := strings.Split(specifier, "/")
	if strings.HasPrefix(specifier, "@") && len(parts) >= 2 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}
