package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "packaging.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeManifest(t, `
package:
  name: pscreen
`)

	m, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "pscreen", m.Package.Name)
	assert.Equal(t, "README.md", m.Package.Readme)
	assert.Equal(t, "profiles", m.Data.Dir)
	assert.Equal(t, filepath.Join("share", "pscreen", "profiles"), m.Data.Dest)
	assert.Equal(t, []string{"screen"}, m.Requires.Tools)
	assert.Equal(t, "git", m.Version.Provider)
	assert.Equal(t, 5, m.Version.TimeoutSeconds)
	assert.Equal(t, "PKG-METADATA.json", m.Output.Metadata)
	assert.Equal(t, "dist", m.Output.DistDir)
	assert.Equal(t, filepath.Dir(path), m.BaseDir)
}

func TestLoadFullManifest(t *testing.T) {
	path := writeManifest(t, `
package:
  name: pscreen
  description: GNU screen session profile manager
  author: Justin Findlay
  author_email: jfindlay@gmail.com
  url: http://github.com/jfindlay/pscreen/
scripts:
  - utils/pscreen
data:
  dir: profiles
  dest: share/pscreen/profiles
requires:
  tools: [screen, tmux]
version:
  provider: static
  static: "1.0"
`)

	m, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Justin Findlay", m.Package.Author)
	assert.Equal(t, []string{"utils/pscreen"}, m.Scripts)
	assert.Equal(t, []string{"screen", "tmux"}, m.Requires.Tools)
	assert.Equal(t, "static", m.Version.Provider)
	assert.Equal(t, "1.0", m.Version.Static)
	assert.Equal(t, filepath.Join(m.BaseDir, "profiles"), m.DataDirPath())
	assert.Equal(t, filepath.Join(m.BaseDir, "README.md"), m.ReadmePath())
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("PSCREEN_AUTHOR", "Justin Findlay")
	path := writeManifest(t, `
package:
  name: pscreen
  author: ${PSCREEN_AUTHOR}
`)

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Justin Findlay", m.Package.Author)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "manifest file not found")
}

func TestLoadMissingName(t *testing.T) {
	path := writeManifest(t, "package: {}\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "package.name")
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeManifest(t, "package: [broken\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packaging.yaml")

	require.NoError(t, Init(path, false))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pscreen", m.Package.Name)
	assert.Equal(t, []string{"utils/pscreen"}, m.Scripts)

	// Refuses to clobber without force.
	assert.Error(t, Init(path, false))
	assert.NoError(t, Init(path, true))
}
