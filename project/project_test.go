package project

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	writeFile(t, path, `name: policy
sources: [src, vendor]
extensions: [.cas, .cil]
workers: 3
log:
  verbosity: 2
  file: casc.log
watch:
  debounce: 250ms
metrics:
  address: ":9100"
`)

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "policy", p.Name)
	assert.Equal(t, path, p.ConfigFile)
	assert.Equal(t, []string{"src", "vendor"}, p.Sources)
	assert.Equal(t, []string{".cas", ".cil"}, p.Extensions)
	assert.Equal(t, 3, p.Workers)
	assert.Equal(t, 2, p.Log.Verbosity)
	assert.Equal(t, "casc.log", p.Log.File)
	assert.Equal(t, 250*time.Millisecond, p.Watch.Debounce)
	assert.Equal(t, ":9100", p.Metrics.Address)
	assert.Equal(t, []string{filepath.Join(p.RootDir, "src"), filepath.Join(p.RootDir, "vendor")}, p.SourceDirs())
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	writeFile(t, path, "{}\n")

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(p.RootDir), p.Name)
	assert.Equal(t, []string{"."}, p.Sources)
	assert.Equal(t, []string{DefaultExtension}, p.Extensions)
	assert.Equal(t, runtime.NumCPU(), p.Workers)
	assert.Equal(t, defaultDebounce, p.Watch.Debounce)
	assert.Empty(t, p.Metrics.Address)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "sources: [unclosed\n")
	_, err = Load(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	writeFile(t, invalid, "workers: -1\nextensions: [cas]\n")
	_, err = Load(invalid)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Errors, 2)
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	writeFile(t, path, "sources: [src]\nworkers: 2\n")

	t.Setenv("CASCADE_SOURCES", "a, b,")
	t.Setenv("CASCADE_WORKERS", "7")
	t.Setenv("CASCADE_LOG_VERBOSITY", "-1")
	t.Setenv("CASCADE_METRICS_ADDRESS", "localhost:9000")

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, p.Sources)
	assert.Equal(t, 7, p.Workers)
	assert.Equal(t, -1, p.Log.Verbosity)
	assert.Equal(t, "localhost:9000", p.Metrics.Address)
}

func TestEnvOverrideInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	writeFile(t, path, "{}\n")

	t.Setenv("CASCADE_WORKERS", "many")
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), "name: found\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	p, err := Discover(nested)
	require.NoError(t, err)
	assert.Equal(t, "found", p.Name)
	assert.Equal(t, filepath.Join(root, FileName), p.ConfigFile)
}

func TestDiscoverWithoutFile(t *testing.T) {
	dir := t.TempDir()
	p, err := Discover(dir)
	require.NoError(t, err)
	assert.Empty(t, p.ConfigFile)
	assert.Equal(t, []string{"."}, p.Sources)

	abs, err := filepath.Abs(dir)
	require.NoError(t, err)
	assert.Equal(t, abs, p.RootDir)
}

func TestSourceFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), "sources: [src, src/nested]\n")
	writeFile(t, filepath.Join(root, "src", "b.cas"), "")
	writeFile(t, filepath.Join(root, "src", "a.cas"), "")
	writeFile(t, filepath.Join(root, "src", "nested", "c.cas"), "")
	writeFile(t, filepath.Join(root, "src", "notes.txt"), "")
	writeFile(t, filepath.Join(root, "src", ".git", "d.cas"), "")

	p, err := Load(filepath.Join(root, FileName))
	require.NoError(t, err)

	files, err := p.SourceFiles()
	require.NoError(t, err)
	src := filepath.Join(p.RootDir, "src")
	assert.Equal(t, []string{
		filepath.Join(src, "a.cas"),
		filepath.Join(src, "b.cas"),
		filepath.Join(src, "nested", "c.cas"),
	}, files)

	assert.True(t, p.IsSource("x.cas"))
	assert.False(t, p.IsSource("x.txt"))
}

func TestSourceFilesMissingDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), "sources: [nowhere]\n")
	p, err := Load(filepath.Join(root, FileName))
	require.NoError(t, err)

	_, err = p.SourceFiles()
	assert.Error(t, err)
}
