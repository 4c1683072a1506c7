package deadcode

import (
	"sort"
	"strings"

	"github.com/sweepr/sweepr/internal/manifest"
	"github.com/sweepr/sweepr/pkg/models"
)

// nodeBuiltins are modules provided by the runtime. They are reported
// as referenced but never as undeclared.
var nodeBuiltins = map[string]bool{
	"assert": true, "async_hooks": true, "buffer": true, "child_process": true,
	"cluster": true, "console": true, "constants": true, "crypto": true,
	"dgram": true, "diagnostics_channel": true, "dns": true, "domain": true,
	"events": true, "fs": true, "http": true, "http2": true, "https": true,
	"inspector": true, "module": true, "net": true, "os": true, "path": true,
	"perf_hooks": true, "process": true, "punycode": true, "querystring": true,
	"readline": true, "repl": true, "stream": true, "string_decoder": true,
	"timers": true, "tls": true, "trace_events": true, "tty": true, "url": true,
	"util": true, "v8": true, "vm": true, "wasi": true, "worker_threads": true,
	"zlib": true,
}

// IsBuiltin reports whether a package name is a runtime builtin.
func IsBuiltin(name string) bool {
	if strings.HasPrefix(name, "node:") {
		return true
	}
	return nodeBuiltins[name]
}

// CrossrefDependencies compares the packages referenced anywhere in the
// project against the manifest. References are collected over every
// scanned file, not just reachable ones: an import in a dead file still
// ties the dependency to the codebase until the file is removed.
func CrossrefDependencies(g *FileGraph, m *manifest.Manifest) (referenced []string, unused []models.UnusedDependency, undeclared []string) {
	for name := range g.Packages {
		referenced = append(referenced, name)
	}
	sort.Strings(referenced)

	// Without a manifest there is nothing to compare against.
	if m == nil {
		return referenced, nil, nil
	}

	for _, name := range m.Declared() {
		if _, ok := g.Packages[name]; !ok {
			unused = append(unused, models.UnusedDependency{
				Name:    name,
				Section: m.Section(name),
			})
		}
	}
	sort.Slice(unused, func(i, j int) bool { return unused[i].Name < unused[j].Name })

	for _, name := range referenced {
		if IsBuiltin(name) {
			continue
		}
		if !m.Has(name) {
			undeclared = append(undeclared, name)
		}
	}

	return referenced, unused, undeclared
}
