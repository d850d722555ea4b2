package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds tool-wide configuration for tsneat
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Report ReportConfig `mapstructure:"report"`
}

// LogConfig holds logging defaults applied when flags are left unset
type LogConfig struct {
	Level   string `mapstructure:"level"`
	JSON    bool   `mapstructure:"json"`
	NoColor bool   `mapstructure:"no_color"`
}

// ReportConfig holds run-report defaults for the fix command
type ReportConfig struct {
	Format string `mapstructure:"format"` // markdown, json, html, checkstyle
	File   string `mapstructure:"file"`
}

var defaultConfig = Config{
	Log: LogConfig{
		Level:   "info",
		JSON:    false,
		NoColor: false,
	},
	Report: ReportConfig{
		Format: "markdown",
		File:   "",
	},
}

// LoadConfig loads configuration from various sources
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("log.level", defaultConfig.Log.Level)
	v.SetDefault("log.json", defaultConfig.Log.JSON)
	v.SetDefault("log.no_color", defaultConfig.Log.NoColor)
	v.SetDefault("report.format", defaultConfig.Report.Format)
	v.SetDefault("report.file", defaultConfig.Report.File)

	// Configuration file search paths
	v.SetConfigName("tsneat")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")     // Current directory
	v.AddConfigPath("$HOME") // Home directory

	// Add tsneat home directory if available
	if configDir, err := GetConfigDir(); err == nil {
		v.AddConfigPath(configDir)
	}

	// Environment variables
	v.SetEnvPrefix("TSNEAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Try to read config file (optional); ignore error to use defaults
	_ = v.ReadInConfig()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %v", err)
	}

	return &config, nil
}

// GetTsneatHome returns the tsneat home directory
func GetTsneatHome() (string, error) {
	// Check environment variable first
	if home := os.Getenv("TSNEAT_HOME"); home != "" {
		return home, nil
	}

	// Use standard dev tool convention: ~/.tsneat
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %v", err)
	}

	return filepath.Join(homeDir, ".tsneat"), nil
}

// EnsureTsneatHome creates the tsneat home directory if it doesn't exist
func EnsureTsneatHome() (string, error) {
	homeDir, err := GetTsneatHome()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(homeDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create tsneat home directory: %v", err)
	}

	return homeDir, nil
}

// GetConfigDir returns the config directory
func GetConfigDir() (string, error) {
	homeDir, err := EnsureTsneatHome()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(homeDir, "config")
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create config directory: %v", err)
	}
	return configDir, nil
}
