// Package project reads the sysyc.toml manifest.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
)

// ManifestName is the file looked up by Find.
const ManifestName = "sysyc.toml"

var (
	// ErrNoSources is returned when the source globs match nothing.
	ErrNoSources = errors.New("no source files matched")
	// ErrCompilerVersion is returned when sysyc does not satisfy [compiler].version.
	ErrCompilerVersion = errors.New("compiler version mismatch")
)

// Manifest is a decoded sysyc.toml together with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Package  PackageConfig  `toml:"package"`
	Build    BuildConfig    `toml:"build"`
	Compiler CompilerConfig `toml:"compiler"`
	Trace    TraceConfig    `toml:"trace"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type BuildConfig struct {
	Sources []string `toml:"sources"` // globs relative to the manifest
	OutDir  string   `toml:"out_dir"`
	Jobs    int      `toml:"jobs"`
	Cache   *bool    `toml:"cache"`
}

type CompilerConfig struct {
	Version string `toml:"version"` // semver constraint, e.g. ">= 0.1, < 1"
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
}

// ManifestError points at the manifest a problem was found in.
type ManifestError struct {
	Path string
	Msg  string
	Err  error
}

func (e *ManifestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Msg, e.Err)
	}
	return e.Path + ": " + e.Msg
}

func (e *ManifestError) Unwrap() error { return e.Err }

// Find walks up from startDir to locate sysyc.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
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

// Load finds and decodes the manifest governing startDir.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := LoadFile(path)
	return m, true, err
}

// LoadFile decodes the manifest at path. Unknown keys are rejected.
func LoadFile(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, &ManifestError{Path: path, Msg: "failed to parse TOML", Err: err}
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return nil, &ManifestError{Path: path, Msg: "missing [package].name"}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, &ManifestError{Path: path, Msg: "unknown keys: " + strings.Join(keys, ", ")}
	}
	if cfg.Build.Jobs < 0 {
		return nil, &ManifestError{Path: path, Msg: "[build].jobs must not be negative"}
	}
	if v := cfg.Compiler.Version; v != "" {
		if _, err := semver.NewConstraint(v); err != nil {
			return nil, &ManifestError{Path: path, Msg: "invalid [compiler].version", Err: err}
		}
	}
	if len(cfg.Build.Sources) == 0 {
		cfg.Build.Sources = []string{"*.sy"}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return &Manifest{Path: abs, Root: filepath.Dir(abs), Config: cfg}, nil
}

// CheckCompiler verifies that version satisfies [compiler].version.
func (m *Manifest) CheckCompiler(version string) error {
	want := m.Config.Compiler.Version
	if want == "" {
		return nil
	}
	c, err := semver.NewConstraint(want)
	if err != nil {
		return &ManifestError{Path: m.Path, Msg: "invalid [compiler].version", Err: err}
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("compiler version %q: %w", version, err)
	}
	if ok, errs := c.Validate(v); !ok {
		return &ManifestError{Path: m.Path, Msg: fmt.Sprintf("sysyc %s does not satisfy %q", v, want), Err: errors.Join(append([]error{ErrCompilerVersion}, errs...)...)}
	}
	return nil
}

// Sources expands the source globs, sorted and without duplicates.
func (m *Manifest) Sources() ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, pattern := range m.Config.Build.Sources {
		matches, err := filepath.Glob(filepath.Join(m.Root, filepath.FromSlash(pattern)))
		if err != nil {
			return nil, &ManifestError{Path: m.Path, Msg: fmt.Sprintf("bad source pattern %q", pattern), Err: err}
		}
		for _, p := range matches {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	if len(out) == 0 {
		return nil, &ManifestError{Path: m.Path, Msg: "[build].sources", Err: ErrNoSources}
	}
	sort.Strings(out)
	return out, nil
}

// OutDir is the output directory, "build" under the project root by default.
func (m *Manifest) OutDir() string {
	dir := m.Config.Build.OutDir
	if dir == "" {
		dir = "build"
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(m.Root, filepath.FromSlash(dir))
}

// CacheEnabled reports whether the disk cache is on; it defaults to true.
func (m *Manifest) CacheEnabled() bool {
	return m.Config.Build.Cache == nil || *m.Config.Build.Cache
}
