package domain

import "time"

// Config represents the application configuration
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Download     DownloadConfig     `mapstructure:"download"`
	YTDLP        YTDLPConfig        `mapstructure:"ytdlp"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"`
	History      HistoryConfig      `mapstructure:"history"`
	Notification NotificationConfig `mapstructure:"notification"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Mode        Mode   `mapstructure:"mode"`        // static or download
	Environment string `mapstructure:"environment"` // development or production
	MaxBodySize int64  `mapstructure:"max_body_size"`
}

// IsProduction reports whether internal error detail should be hidden from clients
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// DownloadConfig contains download-related configuration
type DownloadConfig struct {
	Dir     string `mapstructure:"dir"`
	LogsDir string `mapstructure:"logs_dir"`
}

// YTDLPConfig controls how the external download tool is invoked
type YTDLPConfig struct {
	Binary         string        `mapstructure:"binary"`
	BaseArgs       []string      `mapstructure:"base_args"` // e.g. ["-m", "yt_dlp"] when Binary is python
	Timeout        time.Duration `mapstructure:"timeout"`
	SocketTimeout  int           `mapstructure:"socket_timeout"`
	ExtractAudio   bool          `mapstructure:"extract_audio"`
	AudioFormat    string        `mapstructure:"audio_format"`
	AudioQuality   string        `mapstructure:"audio_quality"`
	AcceptExitCode []int         `mapstructure:"accept_exit_codes"`
}

// RateLimitConfig contains per-client request limits
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	GlobalRequests  int           `mapstructure:"global_requests"`
	GlobalWindow    time.Duration `mapstructure:"global_window"`
	DownloadRequest int           `mapstructure:"download_requests"`
	DownloadWindow  time.Duration `mapstructure:"download_window"`
}

// HistoryConfig contains download history persistence configuration
type HistoryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	DatabasePath string `mapstructure:"database_path"`
}

// NotificationConfig contains notification-related configuration
type NotificationConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Sound   bool   `mapstructure:"sound"`
	Method  string `mapstructure:"method"` // osascript, notify-send, etc.
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "localhost",
			Port:        3000,
			Mode:        ModeDownload,
			Environment: "development",
			MaxBodySize: 10 << 20,
		},
		Download: DownloadConfig{
			Dir:     "$HOME/Downloads",
			LogsDir: "$HOME/.mediagrab/logs",
		},
		YTDLP: YTDLPConfig{
			Binary:         "yt-dlp",
			Timeout:        180 * time.Second,
			SocketTimeout:  30,
			ExtractAudio:   false,
			AudioFormat:    "m4a",
			AudioQuality:   "192",
			AcceptExitCode: []int{0, ExitCodeMaxDownloadsReached},
		},
		RateLimit: RateLimitConfig{
			Enabled:         true,
			GlobalRequests:  100,
			GlobalWindow:    15 * time.Minute,
			DownloadRequest: 5,
			DownloadWindow:  time.Minute,
		},
		History: HistoryConfig{
			Enabled:      true,
			DatabasePath: "$HOME/.mediagrab/history.db",
		},
		Notification: NotificationConfig{
			Enabled: false,
			Sound:   false,
			Method:  "notify-send",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stdout",
		},
	}
}
