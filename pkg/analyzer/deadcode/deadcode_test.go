package deadcode

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sweepr/sweepr/internal/cache"
	"github.com/sweepr/sweepr/pkg/models"
)

// writeProject materializes a file tree under a temp root and returns
// the root plus the relative paths of the source files.
func writeProject(t *testing.T, files map[string]string) (string, []string) {
	t.Helper()
	root := t.TempDir()
	var paths []string
	for rel, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		if rel != "package.json" {
			paths = append(paths, rel)
		}
	}
	return root, paths
}

func TestAnalyzeProject(t *testing.T) {
	root, files := writeProject(t, map[string]string{
		"package.json": `{
			"name": "demo",
			"dependencies": {"react": "^18.0.0", "lodash": "^4.17.21"}
		}`,
		"src/index.ts": `import { greet } from "./greet";
import React from "react";
export function main() { return greet("world"); }`,
		"src/greet.ts": `export function greet(name: string): string { return "hi " + name; }
export function unusedHelper() {}`,
		"src/orphan.ts": `export const lonely = true;`,
	})

	a := New(root, WithEntries([]string{"src/index.ts"}))
	defer a.Close()

	result, err := a.Analyze(context.Background(), files)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if !reflect.DeepEqual(result.EntryPoints, []string{"src/index.ts"}) {
		t.Errorf("EntryPoints = %v", result.EntryPoints)
	}
	if !reflect.DeepEqual(result.UnusedFiles, []string{"src/orphan.ts"}) {
		t.Errorf("UnusedFiles = %v", result.UnusedFiles)
	}
	if !reflect.DeepEqual(result.ReachableFiles, []string{"src/greet.ts", "src/index.ts"}) {
		t.Errorf("ReachableFiles = %v", result.ReachableFiles)
	}

	wantExports := []models.UnusedExport{{File: "src/greet.ts", Name: "unusedHelper", Line: 2}}
	if !reflect.DeepEqual(result.UnusedExports, wantExports) {
		t.Errorf("UnusedExports = %+v, want %+v", result.UnusedExports, wantExports)
	}

	wantDeps := []models.UnusedDependency{{Name: "lodash", Section: "dependencies"}}
	if !reflect.DeepEqual(result.UnusedDependencies, wantDeps) {
		t.Errorf("UnusedDependencies = %+v", result.UnusedDependencies)
	}
	if len(result.UndeclaredDependencies) != 0 {
		t.Errorf("UndeclaredDependencies = %v", result.UndeclaredDependencies)
	}

	if !result.HasFindings() {
		t.Error("HasFindings() = false")
	}
	if result.Summary.TotalFiles != 3 || result.Summary.UnusedFiles != 1 {
		t.Errorf("Summary = %+v", result.Summary)
	}
}

func TestAnalyzeUnresolvedImport(t *testing.T) {
	root, files := writeProject(t, map[string]string{
		"package.json": `{"name": "demo"}`,
		"src/index.ts": `import { x } from "./b";
export const ok = 1;`,
	})

	a := New(root, WithEntries([]string{"src/index.ts"}))
	result, err := a.Analyze(context.Background(), files)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	var found bool
	for _, d := range result.Diagnostics {
		if d.Kind == models.DiagUnresolvedImport && d.File == "src/index.ts" {
			found = true
		}
	}
	if !found {
		t.Errorf("Diagnostics = %+v, want unresolved_import for src/index.ts", result.Diagnostics)
	}
	// The unresolved target stays a placeholder; analysis still succeeds.
	if len(result.UnusedFiles) != 0 {
		t.Errorf("UnusedFiles = %v", result.UnusedFiles)
	}
}

func TestAnalyzeParseFailure(t *testing.T) {
	root, files := writeProject(t, map[string]string{
		"package.json":  `{"name": "demo"}`,
		"src/index.ts":  `export const ok = 1;`,
		"src/weird.xyz": `not a module`,
	})

	a := New(root, WithEntries([]string{"src/index.ts"}))
	result, err := a.Analyze(context.Background(), files)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	var found bool
	for _, d := range result.Diagnostics {
		if d.Kind == models.DiagParseFailure && d.File == "src/weird.xyz" {
			found = true
		}
	}
	if !found {
		t.Errorf("Diagnostics = %+v, want parse_failure", result.Diagnostics)
	}
	// Failed files stay in the graph as nodes.
	if result.Summary.TotalFiles != 2 {
		t.Errorf("TotalFiles = %d, want 2", result.Summary.TotalFiles)
	}
}

func TestAnalyzeMissingEntry(t *testing.T) {
	root, files := writeProject(t, map[string]string{
		"src/index.ts": `export const ok = 1;`,
	})

	a := New(root, WithEntries([]string{"src/absent.ts"}))
	_, err := a.Analyze(context.Background(), files)

	var entryErr *EntryPointError
	if !errors.As(err, &entryErr) {
		t.Fatalf("Analyze() error = %v, want EntryPointError", err)
	}
	if entryErr.Pattern != "src/absent.ts" {
		t.Errorf("Pattern = %q", entryErr.Pattern)
	}
}

func TestAnalyzeNoEntries(t *testing.T) {
	a := New(t.TempDir())
	if _, err := a.Analyze(context.Background(), nil); !errors.Is(err, ErrNoEntryPoints) {
		t.Errorf("Analyze() error = %v, want ErrNoEntryPoints", err)
	}
}

func TestAnalyzeGlobEntries(t *testing.T) {
	root, files := writeProject(t, map[string]string{
		"package.json":    `{"name": "demo"}`,
		"src/pages/a.ts":  `export const a = 1;`,
		"src/pages/b.ts":  `export const b = 2;`,
		"src/internal.ts": `export const hidden = 3;`,
	})

	a := New(root, WithEntries([]string{"src/pages/*.ts"}))
	result, err := a.Analyze(context.Background(), files)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	want := []string{"src/pages/a.ts", "src/pages/b.ts"}
	if !reflect.DeepEqual(result.EntryPoints, want) {
		t.Errorf("EntryPoints = %v, want %v", result.EntryPoints, want)
	}
	if !reflect.DeepEqual(result.UnusedFiles, []string{"src/internal.ts"}) {
		t.Errorf("UnusedFiles = %v", result.UnusedFiles)
	}
}

func TestAnalyzeMissingManifestDiagnostic(t *testing.T) {
	root, files := writeProject(t, map[string]string{
		"src/index.ts": `import _ from "lodash";
export const ok = 1;`,
	})

	a := New(root, WithEntries([]string{"src/index.ts"}))
	result, err := a.Analyze(context.Background(), files)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	var found bool
	for _, d := range result.Diagnostics {
		if d.Kind == models.DiagMissingManifest {
			found = true
		}
	}
	if !found {
		t.Errorf("Diagnostics = %+v, want missing_manifest", result.Diagnostics)
	}
	// No manifest means no dependency findings, but references are kept.
	if len(result.UnusedDependencies) != 0 || len(result.UndeclaredDependencies) != 0 {
		t.Errorf("dependency findings without manifest: %+v", result)
	}
	if !reflect.DeepEqual(result.ReferencedPackages, []string{"lodash"}) {
		t.Errorf("ReferencedPackages = %v", result.ReferencedPackages)
	}
}

func TestAnalyzeAliasAndJSON(t *testing.T) {
	root, files := writeProject(t, map[string]string{
		"package.json": `{"name": "demo"}`,
		"src/index.ts": `import { helper } from "@/util";
import config from "./config.json";
export function main() { return helper(config); }`,
		"src/util.ts":     `export function helper(c: unknown) { return c; }`,
		"src/config.json": `{"debug": false}`,
	})

	a := New(root,
		WithEntries([]string{"src/index.ts"}),
		WithAliases(map[string]string{"@": "src"}),
	)
	result, err := a.Analyze(context.Background(), files)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if len(result.UnusedFiles) != 0 {
		t.Errorf("UnusedFiles = %v, want none", result.UnusedFiles)
	}
	if len(result.Diagnostics) != 0 {
		t.Errorf("Diagnostics = %+v, want none", result.Diagnostics)
	}
}

func TestAnalyzeWithCache(t *testing.T) {
	root, files := writeProject(t, map[string]string{
		"package.json": `{"name": "demo"}`,
		"src/index.ts": `export const ok = 1;`,
	})

	c, err := cache.New(filepath.Join(root, ".cache"), 24, true)
	if err != nil {
		t.Fatal(err)
	}

	a := New(root, WithEntries([]string{"src/index.ts"}), WithCache(c))

	first, err := a.Analyze(context.Background(), files)
	if err != nil {
		t.Fatalf("first Analyze() error = %v", err)
	}
	second, err := a.Analyze(context.Background(), files)
	if err != nil {
		t.Fatalf("second Analyze() error = %v", err)
	}

	if !reflect.DeepEqual(first.Summary, second.Summary) {
		t.Errorf("cached run diverged: %+v vs %+v", first.Summary, second.Summary)
	}

	stats, err := c.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Entries == 0 {
		t.Error("cache not populated")
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	root, files := writeProject(t, map[string]string{
		"package.json": `{"name": "demo", "dependencies": {"left": "1", "right": "1"}}`,
		"src/index.ts": `import { a } from "./a";
import { b } from "./b";
export const all = [a, b];`,
		"src/a.ts": `export const a = 1;
export const unusedA = 2;`,
		"src/b.ts": `export const b = 1;
export const unusedB = 2;`,
	})

	a := New(root, WithEntries([]string{"src/index.ts"}))

	first, err := a.Analyze(context.Background(), files)
	if err != nil {
		t.Fatal(err)
	}
	for range 3 {
		again, err := a.Analyze(context.Background(), files)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatal("repeated analysis produced different results")
		}
	}
}
