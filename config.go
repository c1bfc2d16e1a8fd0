package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultConfigDir = ".blog2md"

// DownloadSettings configures the asset downloader.
type DownloadSettings struct {
	MaxAttempts  int `yaml:"max_attempts"`
	RetryDelayMs int `yaml:"retry_delay_ms"`
	TimeoutMs    int `yaml:"timeout_ms"`
	ThrottleMs   int `yaml:"throttle_ms"`
}

// Settings represents the YAML configuration structure
type Settings struct {
	OutputDirectory string           `yaml:"output_directory"`
	Layout          string           `yaml:"layout"`
	ImagesDirectory string           `yaml:"images_directory"`
	ImagePathPrefix string           `yaml:"image_path_prefix"`
	CDNHost         string           `yaml:"cdn_host"`
	SkipExisting    bool             `yaml:"skip_existing"`
	Download        DownloadSettings `yaml:"download"`
}

func defaultSettings() *Settings {
	return &Settings{
		OutputDirectory: "posts",
		Layout:          string(LayoutNested),
		ImagesDirectory: "_images",
		ImagePathPrefix: "/images",
		CDNHost:         "substackcdn.com",
		SkipExisting:    true,
		Download: DownloadSettings{
			MaxAttempts:  3,
			RetryDelayMs: 1000,
			TimeoutMs:    30000,
			ThrottleMs:   200,
		},
	}
}

// DownloaderOptions converts the millisecond settings into options.
func (s *Settings) DownloaderOptions() DownloaderOptions {
	return DownloaderOptions{
		MaxAttempts: s.Download.MaxAttempts,
		RetryDelay:  time.Duration(s.Download.RetryDelayMs) * time.Millisecond,
		Timeout:     time.Duration(s.Download.TimeoutMs) * time.Millisecond,
		Throttle:    time.Duration(s.Download.ThrottleMs) * time.Millisecond,
	}
}

// getConfigPath returns the path to a config file in the .blog2md directory
func getConfigPath(filename string) string {
	return filepath.Join(defaultConfigDir, filename)
}

// loadSettings loads settings from the default location, falling back to
// defaults when no settings file exists yet.
func loadSettings() (*Settings, error) {
	return loadSettingsFrom(getConfigPath("settings.yaml"), false)
}

// loadSettingsRequired loads settings from an explicit path, failing if the
// file doesn't exist.
func loadSettingsRequired(path string) (*Settings, error) {
	return loadSettingsFrom(path, true)
}

func loadSettingsFrom(path string, required bool) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && os.IsNotExist(err) {
			return defaultSettings(), nil
		}
		return nil, fmt.Errorf("reading settings file %s: %w", path, err)
	}

	settings := defaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing settings YAML: %w", err)
	}

	return settings, nil
}

// ensureConfigExists creates the config directory and a default settings
// file on first run so users have something to edit.
func ensureConfigExists() error {
	if err := os.MkdirAll(defaultConfigDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	settingsPath := getConfigPath("settings.yaml")
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		data, err := yaml.Marshal(defaultSettings())
		if err != nil {
			return fmt.Errorf("marshaling default settings: %w", err)
		}
		if err := os.WriteFile(settingsPath, data, 0644); err != nil {
			return fmt.Errorf("writing default settings: %w", err)
		}
	}

	return nil
}
