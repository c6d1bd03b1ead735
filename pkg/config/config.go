/*
Package config manages TOML config for PlaceServe services.
*/
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/iguilhermeluis/placeserve/internal/utils"
)

// Config holds the entire config structure
type Config struct {
	Service      ServiceConfig      `toml:"service"`
	Autocomplete AutocompleteConfig `toml:"autocomplete"`
	CLI          CliConfig          `toml:"cli"`
}

// ServiceConfig has places web service related options.
// The API key is deliberately absent: it comes from the environment or a
// .env file, never from a config file that might get committed.
type ServiceConfig struct {
	Language     string   `toml:"language"`
	Libraries    []string `toml:"libraries"`
	Endpoint     string   `toml:"endpoint"`
	BootstrapURL string   `toml:"bootstrap_url"`
}

// AutocompleteConfig holds session options.
type AutocompleteConfig struct {
	DebounceMs     int `toml:"debounce_ms"`
	MinInput       int `toml:"min_input"`
	MaxInput       int `toml:"max_input"`
	MaxPredictions int `toml:"max_predictions"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit    int  `toml:"default_limit"`
	DefaultMinLen   int  `toml:"default_min_len"`
	DefaultMaxLen   int  `toml:"default_max_len"`
	DefaultNoFilter bool `toml:"default_no_filter"`
}

// Wait returns the debounce quiet period as a duration.
func (a AutocompleteConfig) Wait() time.Duration {
	return time.Duration(a.DebounceMs) * time.Millisecond
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
// 4. builtin defaults
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", "placeserve")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	// Not conventional, fallback from ~/.config if not writable
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "placeserve")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/placeserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	var config *Config
	var err error

	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err = LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err = InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Language:  "en",
			Libraries: []string{"places"},
		},
		Autocomplete: AutocompleteConfig{
			DebounceMs:     300,
			MinInput:       1,
			MaxInput:       120,
			MaxPredictions: 5,
		},
		CLI: CliConfig{
			DefaultLimit:    5,
			DefaultMinLen:   1,
			DefaultMaxLen:   120,
			DefaultNoFilter: false,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse attempts to parse a TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if serviceSection, ok := utils.ExtractSection(tempConfig, "service"); ok {
		extractServiceConfig(serviceSection, &config.Service)
	}
	if acSection, ok := utils.ExtractSection(tempConfig, "autocomplete"); ok {
		extractAutocompleteConfig(acSection, &config.Autocomplete)
	}
	if cliSection, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(cliSection, &config.CLI)
	}
	return config, nil
}

// extractServiceConfig extracts service configuration from a map
func extractServiceConfig(data map[string]any, service *ServiceConfig) {
	if val, ok := utils.ExtractString(data, "language"); ok {
		service.Language = val
	}
	if val, ok := utils.ExtractStringSlice(data, "libraries"); ok {
		service.Libraries = val
	}
	if val, ok := utils.ExtractString(data, "endpoint"); ok {
		service.Endpoint = val
	}
	if val, ok := utils.ExtractString(data, "bootstrap_url"); ok {
		service.BootstrapURL = val
	}
}

// extractAutocompleteConfig extracts session configuration from a map
func extractAutocompleteConfig(data map[string]any, ac *AutocompleteConfig) {
	if val, ok := utils.ExtractInt64(data, "debounce_ms"); ok {
		ac.DebounceMs = val
	}
	if val, ok := utils.ExtractInt64(data, "min_input"); ok {
		ac.MinInput = val
	}
	if val, ok := utils.ExtractInt64(data, "max_input"); ok {
		ac.MaxInput = val
	}
	if val, ok := utils.ExtractInt64(data, "max_predictions"); ok {
		ac.MaxPredictions = val
	}
}

// extractCliConfig extracts CLI config from a map
func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "default_min_len"); ok {
		cli.DefaultMinLen = val
	}
	if val, ok := utils.ExtractInt64(data, "default_max_len"); ok {
		cli.DefaultMaxLen = val
	}
	if val, ok := utils.ExtractBool(data, "default_no_filter"); ok {
		cli.DefaultNoFilter = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(defaultPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return err
	}
	config := DefaultConfig()
	return utils.SaveTOMLFile(config, defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the session config values and saves to file
func (c *Config) Update(configPath string, debounceMs, minInput, maxInput, maxPredictions *int) error {
	ac := &c.Autocomplete
	if debounceMs != nil {
		ac.DebounceMs = *debounceMs
	}
	if minInput != nil {
		ac.MinInput = *minInput
	}
	if maxInput != nil {
		ac.MaxInput = *maxInput
	}
	if maxPredictions != nil {
		ac.MaxPredictions = *maxPredictions
	}
	return SaveConfig(c, configPath)
}
