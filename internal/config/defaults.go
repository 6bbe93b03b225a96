package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Defaults represents the ~/.warmer/config.toml file: persisted option
// defaults that CLI flags override. Adapted from the teacher's
// internal/config/config.go Load/Save/Get/Set pair.
type Defaults struct {
	ReadSizeKB    uint64 `toml:"read_size_kb,omitempty" json:"read_size_kb"`
	StrideKB      uint64 `toml:"stride_kb,omitempty" json:"stride_kb"`
	QueueDepth    int    `toml:"queue_depth,omitempty" json:"queue_depth"`
	Threads       int    `toml:"threads,omitempty" json:"threads"`
	Throttle      int    `toml:"throttle,omitempty" json:"throttle"`
	IOBackend     string `toml:"io_backend,omitempty" json:"io_backend"`
	IgnoreFile    string `toml:"ignore_file,omitempty" json:"ignore_file"`
}

// dirOverride is set by --config-dir / WARMER_HOME.
var dirOverride string

// SetDir allows the CLI to override the config directory.
func SetDir(dir string) {
	dirOverride = dir
}

// Dir returns the config directory. Precedence: SetDir > WARMER_HOME env >
// ~/.warmer — the same chain the teacher uses for DHHome().
func Dir() string {
	if dirOverride != "" {
		return dirOverride
	}
	if v := os.Getenv("WARMER_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".warmer")
	}
	return filepath.Join(home, ".warmer")
}

// Path returns the full path to config.toml.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	return os.MkdirAll(Dir(), 0o755)
}

// LoadDefaults reads config.toml. A missing file is not an error — it
// yields a zero-value Defaults, meaning "use warmer's built-in defaults".
func LoadDefaults() (*Defaults, error) {
	d := &Defaults{}
	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}
	return d, nil
}

// SaveDefaults writes Defaults back to config.toml.
func SaveDefaults(d *Defaults) error {
	if err := EnsureDir(); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := toml.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(Path(), data, 0o644)
}

// validKeys lists the dot-free keys usable with Get/Set.
var validKeys = map[string]bool{
	"read_size_kb": true,
	"stride_kb":    true,
	"queue_depth":  true,
	"threads":      true,
	"throttle":     true,
	"io_backend":   true,
	"ignore_file":  true,
}

// Get retrieves a single default by key.
func Get(key string) (string, error) {
	if !validKeys[key] {
		return "", fmt.Errorf("unknown config key: %s", key)
	}
	d, err := LoadDefaults()
	if err != nil {
		return "", err
	}
	switch key {
	case "read_size_kb":
		return fmt.Sprintf("%d", d.ReadSizeKB), nil
	case "stride_kb":
		return fmt.Sprintf("%d", d.StrideKB), nil
	case "queue_depth":
		return fmt.Sprintf("%d", d.QueueDepth), nil
	case "threads":
		return fmt.Sprintf("%d", d.Threads), nil
	case "throttle":
		return fmt.Sprintf("%d", d.Throttle), nil
	case "io_backend":
		return d.IOBackend, nil
	case "ignore_file":
		return d.IgnoreFile, nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}

// Set sets a single default by key and persists it.
func Set(key, value string) error {
	if !validKeys[key] {
		return fmt.Errorf("unknown config key: %s", key)
	}
	d, err := LoadDefaults()
	if err != nil {
		return err
	}
	var n uint64
	switch key {
	case "read_size_kb":
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
			return fmt.Errorf("invalid integer %q for %s", value, key)
		}
		d.ReadSizeKB = n
	case "stride_kb":
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
			return fmt.Errorf("invalid integer %q for %s", value, key)
		}
		d.StrideKB = n
	case "queue_depth":
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
			return fmt.Errorf("invalid integer %q for %s", value, key)
		}
		d.QueueDepth = int(n)
	case "threads":
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
			return fmt.Errorf("invalid integer %q for %s", value, key)
		}
		d.Threads = int(n)
	case "throttle":
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
			return fmt.Errorf("invalid integer %q for %s", value, key)
		}
		d.Throttle = int(n)
	case "io_backend":
		d.IOBackend = value
	case "ignore_file":
		d.IgnoreFile = value
	}
	return SaveDefaults(d)
}

// IgnoreFileName returns the configured ignore-file name, defaulting to
// .warmerignore when unset.
func (d *Defaults) IgnoreFileName() string {
	if d.IgnoreFile != "" {
		return d.IgnoreFile
	}
	return ".warmerignore"
}
