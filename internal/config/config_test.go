package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ftwiki.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.True(t, cfg.TagsEnabled())
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.InformationSign)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `tags: false
information_sign: "(i)"
log_level: debug
output_dir: wiki
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.TagsEnabled())
	assert.Equal(t, "(i)", cfg.InformationSign)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "wiki", cfg.OutputDir)

	opts := cfg.FormatterOptions()
	assert.False(t, opts.TagRendering)
	assert.Equal(t, "(i)", opts.InformationSign)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "output_dir: out\n"))
	require.NoError(t, err)

	assert.True(t, cfg.TagsEnabled())
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("FTWIKI_TAGS", "true")
	t.Setenv("FTWIKI_INFORMATION_SIGN", "!")
	t.Setenv("FTWIKI_OUTPUT_DIR", "env-out")

	cfg, err := Load(writeConfig(t, "tags: false\noutput_dir: file-out\n"))
	require.NoError(t, err)

	assert.True(t, cfg.TagsEnabled())
	assert.Equal(t, "!", cfg.InformationSign)
	assert.Equal(t, "env-out", cfg.OutputDir)
}

func TestLoad_InvalidEnvBool(t *testing.T) {
	t.Setenv("FTWIKI_TAGS", "maybe")

	_, err := Load(writeConfig(t, ""))
	assert.ErrorContains(t, err, "FTWIKI_TAGS")
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "tags: [unclosed\n"))
	assert.ErrorContains(t, err, "parse yaml")
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	_, err := Load(writeConfig(t, "log_level: loud\n"))
	assert.ErrorContains(t, err, "invalid log_level")
}

func TestToYAML_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.InformationSign = "(i)"

	data, err := cfg.ToYAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "tags: true")

	back, err := FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}
