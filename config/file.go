package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ScrapeConfig holds scraper settings from the config file.
type ScrapeConfig struct {
	BaseURL  string `yaml:"base_url"`
	FeedURL  string `yaml:"feed_url"`
	MaxPages int    `yaml:"max_pages"`
}

// SlackConfig holds chat-notification settings from the config file. The
// token may also come from the SLACK_TOKEN setting.
type SlackConfig struct {
	Token          string `yaml:"token"`
	DefaultChannel string `yaml:"default_channel"`
}

// SMTPConfig holds email transport settings from the config file.
type SMTPConfig struct {
	Server      string `yaml:"server"`
	Port        int    `yaml:"port"`
	Sender      string `yaml:"sender"`
	SenderName  string `yaml:"sender_name"`
	DisplayFrom string `yaml:"display_from"`
	UseSSL      bool   `yaml:"use_ssl"`
}

// ClassifierConfig holds LLM classifier settings from the config file.
type ClassifierConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// FileConfig represents the structure of ~/.forumscout/config.yaml.
type FileConfig struct {
	Scrape     ScrapeConfig     `yaml:"scrape"`
	Slack      SlackConfig      `yaml:"slack"`
	SMTP       SMTPConfig       `yaml:"smtp"`
	Classifier ClassifierConfig `yaml:"classifier"`
}

// LoadConfigFile loads configuration from ~/.forumscout/config.yaml. Returns
// nil if the file doesn't exist (not an error). Returns error if the file
// exists but cannot be parsed.
func LoadConfigFile() (*FileConfig, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, ".forumscout", "config.yaml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, nil // File doesn't exist -- not an error
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}
