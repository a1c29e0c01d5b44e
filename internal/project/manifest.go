// Package project locates and loads the sable.toml manifest that describes
// a project: its name and how its unit payloads should be bound.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultMaxDiagnostics bounds how many diagnostics a run accumulates
// before further reports are dropped.
const DefaultMaxDiagnostics = 256

// Manifest is a located and parsed sable.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config is the manifest content.
type Config struct {
	Package PackageConfig `toml:"package"`
	Bind    BindConfig    `toml:"bind"`
}

// PackageConfig names the project.
type PackageConfig struct {
	Name string `toml:"name"`
}

// BindConfig controls the binding pass.
type BindConfig struct {
	// Units are unit payload paths, relative to the project root.
	Units []string `toml:"units"`
	// MaxDiagnostics caps accumulated diagnostics; 0 means the default.
	MaxDiagnostics int `toml:"max-diagnostics"`
	// Jobs bounds parallel unit binding; 0 means one worker per CPU.
	Jobs int `toml:"jobs"`
	// ResolveBodies gates statement-body resolution. Defaults to true;
	// signatures-only runs set it to false explicitly.
	ResolveBodies *bool `toml:"resolve-bodies"`
}

// WantBodies resolves the ResolveBodies tri-state.
func (c BindConfig) WantBodies() bool {
	return c.ResolveBodies == nil || *c.ResolveBodies
}

// DiagnosticLimit resolves the MaxDiagnostics default.
func (c BindConfig) DiagnosticLimit() int {
	if c.MaxDiagnostics > 0 {
		return c.MaxDiagnostics
	}
	return DefaultMaxDiagnostics
}

// FindManifest walks up from startDir to locate sable.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "sable.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadManifest locates and parses the manifest governing startDir.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

// LoadConfig parses one manifest file and validates the required fields.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if cfg.Bind.MaxDiagnostics < 0 {
		return Config{}, fmt.Errorf("%s: [bind].max-diagnostics must not be negative", path)
	}
	if cfg.Bind.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [bind].jobs must not be negative", path)
	}
	return cfg, nil
}

// UnitPaths returns the configured unit payload paths resolved against the
// project root.
func (m *Manifest) UnitPaths() []string {
	out := make([]string, 0, len(m.Config.Bind.Units))
	for _, rel := range m.Config.Bind.Units {
		out = append(out, filepath.Join(m.Root, filepath.FromSlash(rel)))
	}
	return out
}
