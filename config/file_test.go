package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFile_NoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfigFile()
	require.NoError(t, err)
	assert.Nil(t, cfg, "Should return nil when config file doesn't exist")
}

func TestLoadConfigFile_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	scoutDir := filepath.Join(tmpDir, ".forumscout")
	require.NoError(t, os.MkdirAll(scoutDir, 0o700))

	configContent := `scrape:
  base_url: "https://forum.example.test/board"
  max_pages: 5
slack:
  token: "xoxb-test"
  default_channel: "#general"
smtp:
  server: "smtp.example.test"
  port: 465
  use_ssl: true
classifier:
  model: "gpt-4o-mini"
`
	require.NoError(t, os.WriteFile(filepath.Join(scoutDir, "config.yaml"), []byte(configContent), 0o600))

	t.Setenv("HOME", tmpDir)

	cfg, err := LoadConfigFile()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://forum.example.test/board", cfg.Scrape.BaseURL)
	assert.Equal(t, 5, cfg.Scrape.MaxPages)
	assert.Equal(t, "xoxb-test", cfg.Slack.Token)
	assert.Equal(t, "#general", cfg.Slack.DefaultChannel)
	assert.Equal(t, "smtp.example.test", cfg.SMTP.Server)
	assert.Equal(t, 465, cfg.SMTP.Port)
	assert.True(t, cfg.SMTP.UseSSL)
	assert.Equal(t, "gpt-4o-mini", cfg.Classifier.Model)
}

func TestLoadConfigFile_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	scoutDir := filepath.Join(tmpDir, ".forumscout")
	require.NoError(t, os.MkdirAll(scoutDir, 0o700))

	invalidContent := `scrape:
  - this is invalid because scrape should be an object not a list
`
	require.NoError(t, os.WriteFile(filepath.Join(scoutDir, "config.yaml"), []byte(invalidContent), 0o600))

	t.Setenv("HOME", tmpDir)

	cfg, err := LoadConfigFile()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfigFile_PartialConfig(t *testing.T) {
	tmpDir := t.TempDir()
	scoutDir := filepath.Join(tmpDir, ".forumscout")
	require.NoError(t, os.MkdirAll(scoutDir, 0o700))

	configContent := `slack:
  token: "xoxb-partial"
`
	require.NoError(t, os.WriteFile(filepath.Join(scoutDir, "config.yaml"), []byte(configContent), 0o600))

	t.Setenv("HOME", tmpDir)

	cfg, err := LoadConfigFile()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "xoxb-partial", cfg.Slack.Token)
	assert.Equal(t, "", cfg.Scrape.BaseURL, "Unspecified sections should stay zero-valued")
	assert.Equal(t, 0, cfg.SMTP.Port)
}
