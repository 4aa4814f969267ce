package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultConfigDir is the directory under the user's home holding commitassist files.
	DefaultConfigDir = ".commitassist"
	// DefaultConfigFileExt is the default config file extension.
	DefaultConfigFileExt = "yaml"
	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "COMMITASSIST"
)

// Default values. They reproduce the behaviour of running without any configuration.
const (
	DefaultAPI      = "generate"
	DefaultEndpoint = "http://localhost:11434"
	DefaultModel    = "mistral"
	DefaultGit      = "git"
)

// ViperManager implements the Manager interface using Viper.
type ViperManager struct {
	v          *viper.Viper
	configPath string
}

// NewManager creates a new configuration manager.
// If configPath is empty, it uses the default path (~/.commitassist/config.yaml).
func NewManager(configPath string) (*ViperManager, error) {
	v := viper.New()

	v.SetConfigType(DefaultConfigFileExt)

	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(homeDir, DefaultConfigDir, "config.yaml")
	}

	v.SetConfigFile(configPath)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults must be registered before env binding for nested keys to resolve.
	setDefaults(v)
	bindEnvVars(v)

	return &ViperManager{
		v:          v,
		configPath: configPath,
	}, nil
}

// bindEnvVars explicitly binds environment variables for all config keys.
// Viper's AutomaticEnv alone does not see nested keys during Unmarshal.
func bindEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		env := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, env)
	}
}

// setDefaults sets the default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("inference.api", DefaultAPI)
	v.SetDefault("inference.endpoint", DefaultEndpoint)
	v.SetDefault("inference.model", DefaultModel)
	v.SetDefault("inference.timeout", "0s")

	v.SetDefault("git.binary", DefaultGit)
	v.SetDefault("git.work_dir", "")

	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.spinner", true)

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.max_entries", 1000)
	homeDir, _ := os.UserHomeDir()
	v.SetDefault("history.file_path", filepath.Join(homeDir, DefaultConfigDir, "history.json"))
}

// GetConfigPath returns the path to the configuration file.
func (m *ViperManager) GetConfigPath() string {
	return m.configPath
}

// Load loads the configuration from file, environment, and defaults.
// Priority: flags > env > file > defaults. A missing file is not an error.
func (m *ViperManager) Load() (*Config, error) {
	if err := m.readConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := m.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// readConfig reads the config file, tolerating its absence.
func (m *ViperManager) readConfig() error {
	if err := m.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// Validate checks the semantic constraints viper cannot express.
func Validate(cfg *Config) error {
	switch cfg.Inference.API {
	case "generate", "openai":
	default:
		return fmt.Errorf("invalid inference.api %q: must be \"generate\" or \"openai\"", cfg.Inference.API)
	}
	if !strings.HasPrefix(cfg.Inference.Endpoint, "http://") && !strings.HasPrefix(cfg.Inference.Endpoint, "https://") {
		return fmt.Errorf("invalid inference.endpoint %q: must start with http:// or https://", cfg.Inference.Endpoint)
	}
	if strings.TrimSpace(cfg.Inference.Model) == "" {
		return fmt.Errorf("inference.model cannot be empty")
	}
	if cfg.Inference.Timeout < 0 {
		return fmt.Errorf("inference.timeout cannot be negative")
	}
	if strings.TrimSpace(cfg.Git.Binary) == "" {
		return fmt.Errorf("git.binary cannot be empty")
	}
	return nil
}

// Init creates a new configuration file with default values.
// Sets file permissions to 0600.
func (m *ViperManager) Init() error {
	if _, err := os.Stat(m.configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", m.configPath)
	}

	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := m.v.WriteConfigAs(m.configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := os.Chmod(m.configPath, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	return nil
}

// Set sets a configuration value by key and persists it.
// Supports nested keys using dot notation (e.g., "inference.model").
func (m *ViperManager) Set(key string, value string) error {
	if err := m.readConfig(); err != nil {
		return err
	}

	existingValue := m.v.Get(key)
	convertedValue, err := convertValue(value, existingValue)
	if err != nil {
		return fmt.Errorf("failed to convert value for key %s: %w", key, err)
	}

	m.v.Set(key, convertedValue)

	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := m.v.WriteConfigAs(m.configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// convertValue converts a string value to the type of the existing value.
func convertValue(value string, existingValue interface{}) (interface{}, error) {
	if existingValue == nil {
		return value, nil
	}

	switch existing := existingValue.(type) {
	case bool:
		return strconv.ParseBool(value)
	case int, int64:
		return strconv.ParseInt(value, 10, 64)
	case float32, float64:
		return strconv.ParseFloat(value, 64)
	case time.Duration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, err
		}
		return d.String(), nil
	case string:
		// Duration-valued keys are stored as strings; keep them parseable.
		if _, err := time.ParseDuration(existing); err == nil {
			d, err := time.ParseDuration(value)
			if err != nil {
				return nil, err
			}
			return d.String(), nil
		}
		return value, nil
	case []interface{}, []string:
		return strings.Split(value, ","), nil
	default:
		return value, nil
	}
}

// Get retrieves a configuration value by key.
func (m *ViperManager) Get(key string) (string, error) {
	if err := m.readConfig(); err != nil {
		return "", err
	}

	if !m.v.IsSet(key) {
		return "", fmt.Errorf("key not found: %s", key)
	}

	return fmt.Sprintf("%v", m.v.Get(key)), nil
}

// List returns all configuration values as a map.
func (m *ViperManager) List() map[string]interface{} {
	_ = m.readConfig()
	return m.v.AllSettings()
}

// SetOverride sets a temporary override for a configuration key.
// Used for command-line flags; overrides are never written to disk by Load.
func (m *ViperManager) SetOverride(key string, value interface{}) {
	m.v.Set(key, value)
}

// ConfigExists checks if the configuration file exists.
func (m *ViperManager) ConfigExists() bool {
	_, err := os.Stat(m.configPath)
	return err == nil
}
