// Package config loads pool and timer sizing from YAML or TOML files, so an
// operator can tune worker counts and check intervals without recompiling.
// Construction by argument (threadkit.NewSharedQueuePool(n, logger), etc.)
// remains the primary path; this package is an optional convenience layered
// on top of it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/golobby/cast"
	"gopkg.in/yaml.v3"
)

// PoolConfig sizes a SharedQueuePool or ShardedQueuePool.
type PoolConfig struct {
	Name    string `yaml:"name" toml:"name"`
	Workers int    `yaml:"workers" toml:"workers"`
	Sharded bool   `yaml:"sharded" toml:"sharded"`
}

// TimerConfig describes one named, optionally periodic timer to be armed
// at process startup.
type TimerConfig struct {
	Name     string `yaml:"name" toml:"name"`
	Interval string `yaml:"interval" toml:"interval"`
	Periodic bool   `yaml:"periodic" toml:"periodic"`
	Cron     string `yaml:"cron" toml:"cron"`
}

// Duration parses Interval as a Go duration string, accepting loosely typed
// values (plain numbers are treated as milliseconds) via golobby/cast.
func (t TimerConfig) Duration() (time.Duration, error) {
	if d, err := time.ParseDuration(t.Interval); err == nil {
		return d, nil
	}
	ms, err := cast.ToInt(t.Interval)
	if err != nil {
		return 0, fmt.Errorf("config: timer %q: invalid interval %q: %w", t.Name, t.Interval, err)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// File is the top-level document loaded from disk.
type File struct {
	Pools  []PoolConfig  `yaml:"pools" toml:"pools"`
	Timers []TimerConfig `yaml:"timers" toml:"timers"`
}

// Load reads path, dispatching on its extension (.yaml/.yml or .toml).
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var f File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("config: parsing yaml %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("config: parsing toml %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config: unsupported extension %q for %s", ext, path)
	}

	for i := range f.Pools {
		if f.Pools[i].Workers <= 0 {
			f.Pools[i].Workers = 1
		}
	}
	return &f, nil
}
