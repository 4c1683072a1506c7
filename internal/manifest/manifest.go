// Package manifest reads the package.json of the analyzed project and
// exposes its declared dependencies by section.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Section names match the package.json keys they come from.
const (
	SectionDependencies     = "dependencies"
	SectionDevDependencies  = "devDependencies"
	SectionPeerDependencies = "peerDependencies"
)

// Manifest holds the declared dependencies of a project.
type Manifest struct {
	Path             string            `json:"path"`
	Name             string            `json:"name,omitempty"`
	Dependencies     map[string]string `json:"dependencies,omitempty"`
	DevDependencies  map[string]string `json:"dev_dependencies,omitempty"`
	PeerDependencies map[string]string `json:"peer_dependencies,omitempty"`
}

// packageJSON mirrors the fields we read from package.json.
type packageJSON struct {
	Name             string            `json:"name"`
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`
}

// Load reads the package.json under root. A missing file returns
// (nil, nil); the caller decides whether that is worth a diagnostic.
func Load(root string) (*Manifest, error) {
	path := filepath.Join(root, "package.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &Manifest{
		Path:             path,
		Name:             pkg.Name,
		Dependencies:     pkg.Dependencies,
		DevDependencies:  pkg.DevDependencies,
		PeerDependencies: pkg.PeerDependencies,
	}, nil
}

// Has reports whether the package is declared in any section.
func (m *Manifest) Has(name string) bool {
	if m == nil {
		return false
	}
	if _, ok := m.Dependencies[name]; ok {
		return true
	}
	if _, ok := m.DevDependencies[name]; ok {
		return true
	}
	if _, ok := m.PeerDependencies[name]; ok {
		return true
	}
	return false
}

// Section returns the section a package is declared in, or empty.
// Production dependencies win over dev and peer when duplicated.
func (m *Manifest) Section(name string) string {
	if m == nil {
		return ""
	}
	if _, ok := m.Dependencies[name]; ok {
		return SectionDependencies
	}
	if _, ok := m.DevDependencies[name]; ok {
		return SectionDevDependencies
	}
	if _, ok := m.PeerDependencies[name]; ok {
		return SectionPeerDependencies
	}
	return ""
}

// Declared returns all declared package names sorted, with each name
// listed once even if it appears in multiple sections.
func (m *Manifest) Declared() []string {
	if m == nil {
		return nil
	}
	seen := make(map[string]bool)
	var names []string
	for _, section := range []map[string]string{m.Dependencies, m.DevDependencies, m.PeerDependencies} {
		for name := range section {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// Count returns the number of distinct declared packages.
func (m *Manifest) Count() int {
	return len(m.Declared())
}
