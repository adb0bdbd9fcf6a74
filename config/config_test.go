package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefault(t *testing.T) {
	cfg, err := Load("")
	assert.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfigFile(t, "config.yaml", `
workers: 4
format: table
header: false
comment: "#"
log:
  level: debug
  format: json
rejections:
  limit: -1
`)

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, Config{
		Workers: 4,
		Format:  "table",
		Header:  false,
		Comment: "#",
		Log:     LogConfig{Level: "debug", Format: "json"},
		Rejections: RejectionsConfig{
			Limit: -1,
		},
	}, cfg)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := writeConfigFile(t, "config.yaml", "workers: 2\n")

	cfg, err := Load(path)
	assert.NoError(t, err)

	want := Default()
	want.Workers = 2
	assert.Equal(t, want, cfg)
}

func TestLoadTOML(t *testing.T) {
	path := writeConfigFile(t, "config.toml", "format = \"table\"\n\n[log]\nlevel = \"info\"\n")

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "table", cfg.Format)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"zero workers", "c.yaml", "workers: 0\n", "workers must be at least 1"},
		{"unknown format", "c.yaml", "format: xml\n", "unknown output format"},
		{"unknown log format", "c.yaml", "log:\n  format: logfmt\n", "unknown log format"},
		{"comment too long", "c.yaml", "comment: \"//\"\n", "comment must be a single character"},
		{"comma comment", "c.yaml", "comment: \",\"\n", "comment must be a single character"},
		{"limit too small", "c.yaml", "rejections:\n  limit: -5\n", "rejections.limit"},
		{"malformed yaml", "c.yaml", "workers: [\n", "failed to read config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfigFile(t, tt.file, tt.content))
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNewViperDefaults(t *testing.T) {
	v, err := NewViper("")
	assert.NoError(t, err)
	assert.Equal(t, 1, v.GetInt(KeyWorkers))
	assert.Equal(t, "csv", v.GetString(KeyFormat))
	assert.Equal(t, "error", v.GetString(KeyLogLevel))
}

func TestCommentRune(t *testing.T) {
	_, ok := Default().CommentRune()
	assert.False(t, ok)

	cfg := Default()
	cfg.Comment = "§"
	r, ok := cfg.CommentRune()
	assert.True(t, ok)
	assert.Equal(t, '§', r)
}
