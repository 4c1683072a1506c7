package deadcode

import (
	"testing"
)

func testResolver(files []string, aliases map[string]string) *Resolver {
	return NewResolver(files, aliases, nil)
}

func TestResolveRelative(t *testing.T) {
	r := testResolver([]string{
		"src/index.ts",
		"src/util.ts",
		"src/util.js",
		"src/components/button.tsx",
		"src/lib/index.ts",
		"src/data.json",
	}, nil)

	tests := []struct {
		name      string
		specifier string
		from      string
		want      Target
	}{
		{
			name:      "exact path with extension",
			specifier: "./util.ts",
			from:      "src/index.ts",
			want:      Target{Kind: TargetFile, Path: "src/util.ts"},
		},
		{
			name:      "extension priority prefers ts",
			specifier: "./util",
			from:      "src/index.ts",
			want:      Target{Kind: TargetFile, Path: "src/util.ts"},
		},
		{
			name:      "tsx resolution",
			specifier: "./components/button",
			from:      "src/index.ts",
			want:      Target{Kind: TargetFile, Path: "src/components/button.tsx"},
		},
		{
			name:      "directory index fallback",
			specifier: "./lib",
			from:      "src/index.ts",
			want:      Target{Kind: TargetFile, Path: "src/lib/index.ts"},
		},
		{
			name:      "parent traversal",
			specifier: "../util",
			from:      "src/components/button.tsx",
			want:      Target{Kind: TargetFile, Path: "src/util.ts"},
		},
		{
			name:      "json import",
			specifier: "./data.json",
			from:      "src/index.ts",
			want:      Target{Kind: TargetFile, Path: "src/data.json"},
		},
		{
			name:      "missing file is unresolved",
			specifier: "./missing",
			from:      "src/index.ts",
			want:      Target{Kind: TargetUnresolved, Path: "./missing"},
		},
		{
			name:      "escape above root is unresolved",
			specifier: "../../outside",
			from:      "src/index.ts",
			want:      Target{Kind: TargetUnresolved, Path: "../../outside"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Resolve(tt.specifier, tt.from); got != tt.want {
				t.Errorf("Resolve(%q, %q) = %+v, want %+v", tt.specifier, tt.from, got, tt.want)
			}
		})
	}
}

func TestResolveBareSpecifiers(t *testing.T) {
	r := testResolver([]string{"src/index.ts"}, nil)

	tests := []struct {
		specifier string
		want      string
	}{
		{"lodash", "lodash"},
		{"lodash/fp", "lodash"},
		{"@scope/pkg", "@scope/pkg"},
		{"@scope/pkg/deep/path", "@scope/pkg"},
		{"node:fs", "node:fs"},
	}

	for _, tt := range tests {
		t.Run(tt.specifier, func(t *testing.T) {
			got := r.Resolve(tt.specifier, "src/index.ts")
			if got.Kind != TargetPackage {
				t.Fatalf("Resolve(%q).Kind = %v, want package", tt.specifier, got.Kind)
			}
			if got.Path != tt.want {
				t.Errorf("Resolve(%q).Path = %q, want %q", tt.specifier, got.Path, tt.want)
			}
		})
	}
}

func TestResolveAliases(t *testing.T) {
	r := testResolver([]string{
		"src/util.ts",
		"src/components/button.tsx",
		"lib/core/index.ts",
	}, map[string]string{
		"@":     "src",
		"@core": "lib/core",
	})

	tests := []struct {
		specifier string
		want      Target
	}{
		{"@/util", Target{Kind: TargetFile, Path: "src/util.ts"}},
		{"@/components/button", Target{Kind: TargetFile, Path: "src/components/button.tsx"}},
		{"@core", Target{Kind: TargetFile, Path: "lib/core/index.ts"}},
		{"@core/missing", Target{Kind: TargetUnresolved, Path: "@core/missing"}},
		// No alias match falls through to bare classification.
		{"@scope/pkg", Target{Kind: TargetPackage, Path: "@scope/pkg"}},
	}

	for _, tt := range tests {
		t.Run(tt.specifier, func(t *testing.T) {
			if got := r.Resolve(tt.specifier, "src/util.ts"); got != tt.want {
				t.Errorf("Resolve(%q) = %+v, want %+v", tt.specifier, got, tt.want)
			}
		})
	}
}

func TestResolveAliasLongestPrefixWins(t *testing.T) {
	r := testResolver([]string{
		"src/util.ts",
		"special/util.ts",
	}, map[string]string{
		"@":       "src",
		"@/extra": "special",
	})

	got := r.Resolve("@/extra/util", "src/util.ts")
	want := Target{Kind: TargetFile, Path: "special/util.ts"}
	if got != want {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}
}

func TestResolveAbsolute(t *testing.T) {
	r := testResolver([]string{"src/util.ts"}, nil)

	got := r.Resolve("/src/util", "src/index.ts")
	want := Target{Kind: TargetFile, Path: "src/util.ts"}
	if got != want {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}
}

func TestResolveEntry(t *testing.T) {
	r := testResolver([]string{
		"src/index.ts",
		"src/main.ts",
	}, nil)

	tests := []struct {
		entry string
		want  string
		ok    bool
	}{
		{"src/index.ts", "src/index.ts", true},
		{"src/main", "src/main.ts", true},
		{"src", "src/index.ts", true},
		{"./src/index.ts", "src/index.ts", true},
		{"src/absent.ts", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			got, ok := r.ResolveEntry(tt.entry)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ResolveEntry(%q) = (%q, %v), want (%q, %v)", tt.entry, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestPackageName(t *testing.T) {
	tests := []struct {
		specifier string
		want      string
	}{
		{"react", "react"},
		{"react-dom/client", "react-dom"},
		{"@types/node", "@types/node"},
		{"@babel/core/lib", "@babel/core"},
	}
	for _, tt := range tests {
		if got := PackageName(tt.specifier); got != tt.want {
			t.Errorf("PackageName(%q) = %q, want %q", tt.specifier, got, tt.want)
		}
	}
}
