package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOverridesDefaultsFromYaml(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "webthing.yaml")
	require.NoError(t, os.WriteFile(file, []byte("port: 8888\nhostname: lamp.example\n"), 0o644))

	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Load(file))

	assert.Equal(t, 8888, cfg.Port)
	assert.Equal(t, "lamp.example", cfg.Hostname)
	assert.Equal(t, "warning", cfg.LogLevel, "unset fields keep their default")
}

func TestValidateRejectsMismatchedTLSFiles(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.TLSCertFile = "cert.pem"
	assert.Error(t, cfg.Validate())
}

func TestEffectivePortFallsBackToDefault(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, DefaultPort, cfg.EffectivePort())
}

func TestLoadRecordsSourcePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "webthing.yaml")
	require.NoError(t, os.WriteFile(file, []byte("port: 8888\n"), 0o644))

	cfg := NewDefaultConfig()
	assert.Empty(t, cfg.SourcePath(), "unloaded config has no source path")
	require.NoError(t, cfg.Load(file))
	assert.Equal(t, file, cfg.SourcePath())
}
