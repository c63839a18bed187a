package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is a loaded architect.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
	// Undecoded lists keys present in the file that no field consumed.
	Undecoded []string
	meta      toml.MetaData
}

// Config mirrors the manifest layout.
type Config struct {
	Package  PackageConfig `toml:"package"`
	Emit     EmitConfig    `toml:"emit"`
	Entities []EntityDecl  `toml:"entity"`
}

// PackageConfig is the [package] section.
type PackageConfig struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	// Architect is a semver constraint on the tool version, e.g. ">=0.1.0".
	Architect string `toml:"architect"`
}

// EmitConfig is the [emit] section.
type EmitConfig struct {
	// OutDir is relative to the manifest root; "-" means stdout.
	OutDir       string `toml:"out_dir"`
	UseClause    *bool  `toml:"use_clause"`
	Architecture string `toml:"architecture"`
}

// EntityDecl is one [[entity]] table.
type EntityDecl struct {
	Name    string       `toml:"name"`
	Inputs  []PortDecl   `toml:"inputs"`
	Outputs []PortDecl   `toml:"outputs"`
	Assign  []AssignDecl `toml:"assign"`
}

// PortDecl declares one port. Range, when present, is [high, low].
type PortDecl struct {
	Name  string  `toml:"name"`
	Type  string  `toml:"type"`
	Range []int64 `toml:"range"`
}

// AssignDecl is a literal assignment `target <= value`.
type AssignDecl struct {
	Target string `toml:"target"`
	Value  bool   `toml:"value"`
}

// DefaultOutDir is used when [emit].out_dir is not set.
const DefaultOutDir = "build"

// StdoutDir is the out_dir value that selects standard output.
const StdoutDir = "-"

// Load parses the manifest at path. Only TOML syntax and type errors fail
// here; structural problems are reported by Check.
func Load(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	undecoded := make([]string, 0, len(meta.Undecoded()))
	for _, key := range meta.Undecoded() {
		undecoded = append(undecoded, key.String())
	}
	return &Manifest{
		Path:      abs,
		Root:      filepath.Dir(abs),
		Config:    cfg,
		Undecoded: undecoded,
		meta:      meta,
	}, nil
}

// Decode parses manifest text; used by tests and the init template check.
func Decode(name, text string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.Decode(text, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", name, err)
	}
	undecoded := make([]string, 0, len(meta.Undecoded()))
	for _, key := range meta.Undecoded() {
		undecoded = append(undecoded, key.String())
	}
	return &Manifest{
		Path:      name,
		Root:      filepath.Dir(name),
		Config:    cfg,
		Undecoded: undecoded,
		meta:      meta,
	}, nil
}

// Discover finds and loads the manifest governing start.
func Discover(start string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(start)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := Load(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// IsDefined reports whether the dotted key exists in the file.
func (m *Manifest) IsDefined(key ...string) bool {
	if m == nil {
		return false
	}
	return m.meta.IsDefined(key...)
}

// Name returns the package name, or the root directory name.
func (m *Manifest) Name() string {
	if name := strings.TrimSpace(m.Config.Package.Name); name != "" {
		return name
	}
	return filepath.Base(m.Root)
}

// OutDir resolves [emit].out_dir against the manifest root. The second
// result is true when output goes to stdout.
func (m *Manifest) OutDir() (string, bool) {
	dir := strings.TrimSpace(m.Config.Emit.OutDir)
	switch dir {
	case "":
		dir = DefaultOutDir
	case StdoutDir:
		return "", true
	}
	if filepath.IsAbs(dir) {
		return dir, false
	}
	return filepath.Join(m.Root, filepath.FromSlash(dir)), false
}

// UseClause reports [emit].use_clause; defaults to true for manifests.
func (m *Manifest) UseClause() bool {
	if m.Config.Emit.UseClause == nil {
		return true
	}
	return *m.Config.Emit.UseClause
}

// CacheDir is where translated units are cached.
func (m *Manifest) CacheDir() string {
	return filepath.Join(m.Root, ".architect", "cache")
}

// Entity returns the declaration named name.
func (m *Manifest) Entity(name string) (EntityDecl, bool) {
	for _, e := range m.Config.Entities {
		if e.Name == name {
			return e, true
		}
	}
	return EntityDecl{}, false
}
