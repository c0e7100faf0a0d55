package domain

import "time"

// Config represents the application configuration
type Config struct {
	Backend      BackendConfig      `mapstructure:"backend" yaml:"backend"`
	Download     DownloadConfig     `mapstructure:"download" yaml:"download"`
	Server       ServerConfig       `mapstructure:"server" yaml:"server"`
	Notification NotificationConfig `mapstructure:"notification" yaml:"notification"`
	Logging      LoggingConfig      `mapstructure:"logging" yaml:"logging"`
}

// BackendConfig describes the remote download-generation backend
type BackendConfig struct {
	Origin         string        `mapstructure:"origin" yaml:"origin"`                   // prefix for both the submit call and file references
	SubmitPath     string        `mapstructure:"submit_path" yaml:"submit_path"`         // path of the POST endpoint
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"` // 0 disables the client timeout
}

// SubmitURL returns the absolute URL of the submit endpoint
func (c BackendConfig) SubmitURL() string {
	return c.Origin + c.SubmitPath
}

// DownloadConfig contains streamed download configuration
type DownloadConfig struct {
	OutputDir  string        `mapstructure:"output_dir" yaml:"output_dir"`
	FileName   string        `mapstructure:"file_name" yaml:"file_name"`
	ChunkSize  int           `mapstructure:"chunk_size" yaml:"chunk_size"`
	ClearDelay time.Duration `mapstructure:"clear_delay" yaml:"clear_delay"` // how long the reference survives a finished download
}

// ServerConfig contains local web UI configuration
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// NotificationConfig contains notification-related configuration
type NotificationConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Sound   bool   `mapstructure:"sound" yaml:"sound"`
	Method  string `mapstructure:"method" yaml:"method"` // osascript, notify-send
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`             // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format"`           // json, console
	OutputPath string `mapstructure:"output_path" yaml:"output_path"` // stdout, stderr, or file path
}

const (
	DefaultBackendOrigin = "https://downlaoderbackend.onrender.com"
	DefaultSubmitPath    = "/api/download"
	DefaultFileName      = "video.mp4"
	DefaultChunkSize     = 64 * 1024
	DefaultClearDelay    = 2 * time.Second
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			Origin:     DefaultBackendOrigin,
			SubmitPath: DefaultSubmitPath,
		},
		Download: DownloadConfig{
			OutputDir:  "$HOME/Downloads",
			FileName:   DefaultFileName,
			ChunkSize:  DefaultChunkSize,
			ClearDelay: DefaultClearDelay,
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Notification: NotificationConfig{
			Enabled: false,
			Sound:   false,
			Method:  "notify-send",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stderr",
		},
	}
}
