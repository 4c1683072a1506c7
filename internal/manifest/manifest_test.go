package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(content), 0o644)
	require.NoError(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `{
		"name": "demo",
		"dependencies": {"lodash": "^4.17.21", "react": "^18.0.0"},
		"devDependencies": {"vitest": "^1.0.0"},
		"peerDependencies": {"react-dom": "^18.0.0"}
	}`)

	m, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "demo", m.Name)
	assert.Len(t, m.Dependencies, 2)
	assert.Len(t, m.DevDependencies, 1)
	assert.Len(t, m.PeerDependencies, 1)
}

func TestLoadMissing(t *testing.T) {
	m, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `{not json`)

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestSectionPrecedence(t *testing.T) {
	m := &Manifest{
		Dependencies:     map[string]string{"both": "1", "prod": "1"},
		DevDependencies:  map[string]string{"both": "1", "dev": "1"},
		PeerDependencies: map[string]string{"peer": "1"},
	}

	tests := []struct {
		name string
		want string
	}{
		{"prod", SectionDependencies},
		{"dev", SectionDevDependencies},
		{"peer", SectionPeerDependencies},
		{"both", SectionDependencies},
		{"absent", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m.Section(tt.name), "Section(%q)", tt.name)
	}

	assert.True(t, m.Has("dev"))
	assert.False(t, m.Has("absent"))
}

func TestDeclared(t *testing.T) {
	m := &Manifest{
		Dependencies:    map[string]string{"b": "1", "a": "1"},
		DevDependencies: map[string]string{"a": "1", "c": "1"},
	}

	assert.Equal(t, []string{"a", "b", "c"}, m.Declared())
	assert.Equal(t, 3, m.Count())
}

func TestNilManifest(t *testing.T) {
	var m *Manifest
	assert.False(t, m.Has("x"))
	assert.Empty(t, m.Section("x"))
	assert.Nil(t, m.Declared())
	assert.Zero(t, m.Count())
}
