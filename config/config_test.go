package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pools.yaml")
	content := `
pools:
  - name: ingest
    workers: 4
    sharded: true
timers:
  - name: heartbeat
    interval: 500ms
    periodic: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	require.Len(t, f.Pools, 1)
	require.Equal(t, "ingest", f.Pools[0].Name)
	require.Equal(t, 4, f.Pools[0].Workers)
	require.True(t, f.Pools[0].Sharded)

	require.Len(t, f.Timers, 1)
	d, err := f.Timers[0].Duration()
	require.NoError(t, err)
	require.Equal(t, 500*time.Millisecond, d)
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pools.toml")
	content := `
[[pools]]
name = "ingest"
workers = 2

[[timers]]
name = "heartbeat"
interval = "250"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, f.Pools[0].Workers)

	d, err := f.Timers[0].Duration()
	require.NoError(t, err)
	require.Equal(t, 250*time.Millisecond, d)
}

func TestLoadDefaultsWorkersToOne(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pools.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pools:\n  - name: solo\n"), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, f.Pools[0].Workers)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pools.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
