// Package config provides configuration management for commitassist.
package config

import "time"

// Config represents the complete commitassist configuration.
type Config struct {
	Inference InferenceConfig `mapstructure:"inference"`
	Git       GitConfig       `mapstructure:"git"`
	UI        UIConfig        `mapstructure:"ui"`
	History   HistoryConfig   `mapstructure:"history"`
}

// InferenceConfig contains settings for the local inference server.
type InferenceConfig struct {
	// API selects the wire protocol: "generate" (Ollama /api/generate) or
	// "openai" (OpenAI-compatible /v1/chat/completions).
	API      string        `mapstructure:"api"`
	Endpoint string        `mapstructure:"endpoint"`
	Model    string        `mapstructure:"model"`
	Timeout  time.Duration `mapstructure:"timeout"` // 0 disables the timeout
}

// GitConfig contains git-related settings.
type GitConfig struct {
	Binary  string `mapstructure:"binary"`
	WorkDir string `mapstructure:"work_dir"`
}

// UIConfig contains UI-related settings.
type UIConfig struct {
	ColorEnabled bool `mapstructure:"color_enabled"`
	Spinner      bool `mapstructure:"spinner"`
}

// HistoryConfig contains history-related settings.
type HistoryConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	MaxEntries int    `mapstructure:"max_entries"`
	FilePath   string `mapstructure:"file_path"`
}

// Manager defines the interface for configuration management.
type Manager interface {
	Load() (*Config, error)
	Set(key string, value string) error
	Get(key string) (string, error)
	Init() error
	List() map[string]interface{}
	GetConfigPath() string
}
