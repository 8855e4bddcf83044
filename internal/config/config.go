package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Manifest represents the packaging manifest for a pscreen checkout
type Manifest struct {
	Package  PackageConfig  `yaml:"package"`
	Scripts  []string       `yaml:"scripts,omitempty"`
	Data     DataConfig     `yaml:"data"`
	Requires RequiresConfig `yaml:"requires"`
	Version  VersionConfig  `yaml:"version"`
	Output   OutputConfig   `yaml:"output"`

	// BaseDir is the absolute directory containing the manifest file. Data
	// discovery and archive paths resolve against it, never against the
	// invocation's working directory.
	BaseDir string `yaml:"-"`
}

// PackageConfig holds the package identity fields emitted into metadata
type PackageConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"` // empty: derived from readme
	Readme      string `yaml:"readme,omitempty"`
	Author      string `yaml:"author,omitempty"`
	AuthorEmail string `yaml:"author_email,omitempty"`
	URL         string `yaml:"url,omitempty"`
}

// DataConfig describes the data directory to bundle and its install destination
type DataConfig struct {
	Dir  string `yaml:"dir"`
	Dest string `yaml:"dest"`
}

// RequiresConfig lists external runtime requirements checked pre-flight
type RequiresConfig struct {
	Tools []string `yaml:"tools,omitempty"`
}

// VersionConfig controls how the package version is resolved
type VersionConfig struct {
	Provider       string `yaml:"provider,omitempty"` // "git" (subprocess), "gogit" (in-process), "static"
	Static         string `yaml:"static,omitempty"`
	Fallback       string `yaml:"fallback,omitempty"` // sentinel used instead of aborting when resolution fails
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Metadata string `yaml:"metadata,omitempty"`
	DistDir  string `yaml:"dist_dir,omitempty"`
}

// Load loads a packaging manifest from the specified file
func Load(manifestPath string) (*Manifest, error) {
	// Load .env file if it exists; existing process env wins
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Note: .env file couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(manifestPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("manifest file not found: %s", manifestPath)
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var m Manifest
	if err := yaml.Unmarshal([]byte(expandedData), &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}

	absPath, err := filepath.Abs(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest path: %w", err)
	}
	m.BaseDir = filepath.Dir(absPath)

	m.applyDefaults()

	if m.Package.Name == "" {
		return nil, fmt.Errorf("manifest is missing package.name")
	}

	return &m, nil
}

// applyDefaults fills unset manifest fields with their conventional values.
func (m *Manifest) applyDefaults() {
	if m.Package.Readme == "" {
		m.Package.Readme = "README.md"
	}
	if m.Data.Dir == "" {
		m.Data.Dir = "profiles"
	}
	if m.Data.Dest == "" {
		m.Data.Dest = filepath.Join("share", m.Package.Name, m.Data.Dir)
	}
	if len(m.Requires.Tools) == 0 {
		m.Requires.Tools = []string{"screen"}
	}
	if m.Version.Provider == "" {
		m.Version.Provider = "git"
	}
	if m.Version.TimeoutSeconds <= 0 {
		m.Version.TimeoutSeconds = 5
	}
	if m.Output.Metadata == "" {
		m.Output.Metadata = "PKG-METADATA.json"
	}
	if m.Output.DistDir == "" {
		m.Output.DistDir = "dist"
	}
}

// DataDirPath returns the absolute path of the data directory.
func (m *Manifest) DataDirPath() string {
	return filepath.Join(m.BaseDir, m.Data.Dir)
}

// ReadmePath returns the absolute path of the readme file.
func (m *Manifest) ReadmePath() string {
	return filepath.Join(m.BaseDir, m.Package.Readme)
}

// Init creates a new manifest file with example content
func Init(manifestPath string, force bool) error {
	if _, err := os.Stat(manifestPath); err == nil && !force {
		return fmt.Errorf("manifest file already exists: %s (use --force to overwrite)", manifestPath)
	}

	example := Manifest{
		Package: PackageConfig{
			Name:        "pscreen",
			Description: "GNU screen session profile manager",
			Author:      "Justin Findlay",
			AuthorEmail: "jfindlay@gmail.com",
			URL:         "http://github.com/jfindlay/pscreen/",
		},
		Scripts: []string{"utils/pscreen"},
		Data: DataConfig{
			Dir:  "profiles",
			Dest: "share/pscreen/profiles",
		},
		Requires: RequiresConfig{
			Tools: []string{"screen"},
		},
		Version: VersionConfig{
			Provider:       "git",
			TimeoutSeconds: 5,
		},
		Output: OutputConfig{
			Metadata: "PKG-METADATA.json",
			DistDir:  "dist",
		},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal example manifest: %w", err)
	}

	header := "# pscreen packaging manifest\n# Pre-flight checks, version resolution and data bundling are driven by this file.\n"
	if err := os.WriteFile(manifestPath, append([]byte(header), data...), 0o644); err != nil {
		return fmt.Errorf("failed to write manifest file: %w", err)
	}
	return nil
}
