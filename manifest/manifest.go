// Package manifest handles simian.toml configuration.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up by Load and FindAndLoad.
const FileName = "simian.toml"

// Engine names.
const (
	EngineEval = "eval"
	EngineVM   = "vm"
)

// Defaults.
const (
	DefaultEngine    = EngineVM
	DefaultStackSize = 2048
	DefaultAddr      = ":4567"
	DefaultCachePath = ".simian/cache.db"
)

// Manifest represents a simian.toml configuration.
type Manifest struct {
	Runtime Runtime `toml:"runtime"`
	Cache   Cache   `toml:"cache"`
	Server  Server  `toml:"server"`
	Log     Log     `toml:"log"`

	// Dir is the directory containing the simian.toml file (set at load
	// time). Empty for a default manifest.
	Dir string `toml:"-"`
}

// Runtime selects and tunes the execution engine.
type Runtime struct {
	Engine    string `toml:"engine"`
	StackSize int    `toml:"stack-size"`
	Trace     bool   `toml:"trace"`
}

// Cache configures the bytecode cache. An empty Path disables it.
type Cache struct {
	Path string `toml:"path"`
}

// Server configures the evaluation server.
type Server struct {
	Addr string `toml:"addr"`
}

// Log configures commonlog.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Default returns the configuration used when no simian.toml exists.
func Default() *Manifest {
	return &Manifest{
		Runtime: Runtime{Engine: DefaultEngine, StackSize: DefaultStackSize},
		Cache:   Cache{Path: DefaultCachePath},
		Server:  Server{Addr: DefaultAddr},
	}
}

// Load parses a simian.toml file from the given directory. Keys the file
// omits keep their defaults.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	m := Default()
	md, err := toml.Decode(string(data), m)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// FindAndLoad walks up from startDir to find a simian.toml file, then
// loads and returns it. Returns nil if no file is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Validate reports the first invalid setting.
func (m *Manifest) Validate() error {
	switch m.Runtime.Engine {
	case EngineEval, EngineVM:
	default:
		return fmt.Errorf("runtime.engine must be %q or %q, got %q", EngineEval, EngineVM, m.Runtime.Engine)
	}
	if m.Runtime.StackSize <= 0 {
		return fmt.Errorf("runtime.stack-size must be positive, got %d", m.Runtime.StackSize)
	}
	if m.Log.Verbosity < 0 {
		return errors.New("log.verbosity must not be negative")
	}
	return nil
}

// CachePath returns the absolute cache database path, resolved against
// Dir. Empty when the cache is disabled.
func (m *Manifest) CachePath() string {
	if m.Cache.Path == "" {
		return ""
	}
	if filepath.IsAbs(m.Cache.Path) || m.Dir == "" {
		return m.Cache.Path
	}
	return filepath.Join(m.Dir, m.Cache.Path)
}

// Write encodes m as simian.toml into dir, replacing any existing file.
func (m *Manifest) Write(dir string) error {
	path := filepath.Join(dir, FileName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}
	if err := toml.NewEncoder(f).Encode(m); err != nil {
		f.Close()
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return f.Close()
}
