package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReturnsDefaultWhenFileMissing(t *testing.T) {
	svc := NewConfigService(t.TempDir())

	cfg, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Version)
	assert.NotEmpty(t, cfg.Entries)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	svc := NewConfigService(dir)

	cfg := &Config{
		Version: 1,
		Entries: []Entry{
			{
				Name:        "test",
				Command:     "go test ./...",
				Dir:         "src",
				Tags:        []string{"go", "ci"},
				Description: "Run the test suite",
			},
		},
		UISettings: UISettings{CaseSensitiveFilter: true, ShowTimings: true},
	}

	require.NoError(t, svc.Save(cfg))

	loaded, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFromPathRejectsInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("entries = not toml"), 0644))

	svc := NewConfigService(dir)
	_, err := svc.LoadFromPath(path)
	assert.Error(t, err)
}

func TestDomainEntries(t *testing.T) {
	cfg := &Config{
		Entries: []Entry{{Name: "lint", Command: "golangci-lint run", Tags: []string{"go"}}},
	}

	entries := cfg.DomainEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "lint", entries[0].Name)
	assert.Equal(t, "golangci-lint run", entries[0].Command)
	assert.Equal(t, []string{"go"}, entries[0].Tags)
}
