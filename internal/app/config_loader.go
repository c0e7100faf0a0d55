package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/yourusername/video-downloader-go/internal/domain"
)

// EnvPrefix is the prefix of environment overrides (VDL_BACKEND_ORIGIN, ...)
const EnvPrefix = "VDL"

// LoadEnvFile loads VDL_* overrides from a dotenv file. A missing file is
// not an error and variables already set in the environment win.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// LoadConfig loads configuration from file and environment
func LoadConfig(configPath string) (*domain.Config, error) {
	// Start with default config
	config := domain.DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, config)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.video-downloader")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config = expandPaths(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults registers every key so AutomaticEnv can override keys that
// are absent from the config file
func setDefaults(v *viper.Viper, config *domain.Config) {
	v.SetDefault("backend.origin", config.Backend.Origin)
	v.SetDefault("backend.submit_path", config.Backend.SubmitPath)
	v.SetDefault("backend.request_timeout", config.Backend.RequestTimeout)
	v.SetDefault("download.output_dir", config.Download.OutputDir)
	v.SetDefault("download.file_name", config.Download.FileName)
	v.SetDefault("download.chunk_size", config.Download.ChunkSize)
	v.SetDefault("download.clear_delay", config.Download.ClearDelay)
	v.SetDefault("server.host", config.Server.Host)
	v.SetDefault("server.port", config.Server.Port)
	v.SetDefault("notification.enabled", config.Notification.Enabled)
	v.SetDefault("notification.sound", config.Notification.Sound)
	v.SetDefault("notification.method", config.Notification.Method)
	v.SetDefault("logging.level", config.Logging.Level)
	v.SetDefault("logging.format", config.Logging.Format)
	v.SetDefault("logging.output_path", config.Logging.OutputPath)
}

// expandPaths expands environment variables in path configurations
func expandPaths(config *domain.Config) *domain.Config {
	config.Download.OutputDir = expandPath(config.Download.OutputDir)

	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = expandPath(config.Logging.OutputPath)
	}

	return config
}

// expandPath expands environment variables and ~ in paths
func expandPath(path string) string {
	path = os.ExpandEnv(path)

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return path
}

// validateConfig validates the configuration
func validateConfig(config *domain.Config) error {
	if !strings.HasPrefix(config.Backend.Origin, "http://") && !strings.HasPrefix(config.Backend.Origin, "https://") {
		return fmt.Errorf("backend origin must be an http(s) URL: %q", config.Backend.Origin)
	}

	if !strings.HasPrefix(config.Backend.SubmitPath, "/") {
		return fmt.Errorf("backend submit path must start with '/': %q", config.Backend.SubmitPath)
	}

	if config.Backend.RequestTimeout < 0 {
		return fmt.Errorf("request timeout cannot be negative")
	}

	if config.Download.OutputDir == "" {
		return fmt.Errorf("download output directory not configured")
	}

	if config.Download.FileName == "" || strings.ContainsAny(config.Download.FileName, `/\`) {
		return fmt.Errorf("invalid download file name: %q", config.Download.FileName)
	}

	if config.Download.ChunkSize < 1 {
		return fmt.Errorf("chunk size must be at least 1")
	}

	if config.Download.ClearDelay < 0 {
		return fmt.Errorf("clear delay cannot be negative")
	}

	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}

	return nil
}

// SaveConfig saves configuration to file
func SaveConfig(config *domain.Config, path string) error {
	v := viper.New()
	v.SetConfigType("yaml")

	v.Set("backend.origin", config.Backend.Origin)
	v.Set("backend.submit_path", config.Backend.SubmitPath)
	v.Set("backend.request_timeout", config.Backend.RequestTimeout.String())
	v.Set("download.output_dir", config.Download.OutputDir)
	v.Set("download.file_name", config.Download.FileName)
	v.Set("download.chunk_size", config.Download.ChunkSize)
	v.Set("download.clear_delay", config.Download.ClearDelay.String())
	v.Set("server.host", config.Server.Host)
	v.Set("server.port", config.Server.Port)
	v.Set("notification.enabled", config.Notification.Enabled)
	v.Set("notification.sound", config.Notification.Sound)
	v.Set("notification.method", config.Notification.Method)
	v.Set("logging.level", config.Logging.Level)
	v.Set("logging.format", config.Logging.Format)
	v.Set("logging.output_path", config.Logging.OutputPath)

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
