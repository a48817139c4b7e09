package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/yourusername/mediagrab-go/internal/domain"
)

// LoadConfig loads configuration from file and environment.
// PORT and APP_ENV are honoured alongside the MEDIAGRAB_* variables.
func LoadConfig(configPath string) (*domain.Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, domain.DefaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.mediagrab")
		v.AddConfigPath("/etc/mediagrab")
	}

	v.SetEnvPrefix("MEDIAGRAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("server.port", "MEDIAGRAB_SERVER_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("failed to bind PORT: %w", err)
	}
	if err := v.BindEnv("server.environment", "MEDIAGRAB_SERVER_ENVIRONMENT", "APP_ENV"); err != nil {
		return nil, fmt.Errorf("failed to bind APP_ENV: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file, defaults and environment only
	}

	config := &domain.Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config = expandPaths(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults registers every key so AutomaticEnv can override it
func setDefaults(v *viper.Viper, c *domain.Config) {
	v.SetDefault("server.host", c.Server.Host)
	v.SetDefault("server.port", c.Server.Port)
	v.SetDefault("server.mode", string(c.Server.Mode))
	v.SetDefault("server.environment", c.Server.Environment)
	v.SetDefault("server.max_body_size", c.Server.MaxBodySize)

	v.SetDefault("download.dir", c.Download.Dir)
	v.SetDefault("download.logs_dir", c.Download.LogsDir)

	v.SetDefault("ytdlp.binary", c.YTDLP.Binary)
	v.SetDefault("ytdlp.base_args", c.YTDLP.BaseArgs)
	v.SetDefault("ytdlp.timeout", c.YTDLP.Timeout)
	v.SetDefault("ytdlp.socket_timeout", c.YTDLP.SocketTimeout)
	v.SetDefault("ytdlp.extract_audio", c.YTDLP.ExtractAudio)
	v.SetDefault("ytdlp.audio_format", c.YTDLP.AudioFormat)
	v.SetDefault("ytdlp.audio_quality", c.YTDLP.AudioQuality)
	v.SetDefault("ytdlp.accept_exit_codes", c.YTDLP.AcceptExitCode)

	v.SetDefault("rate_limit.enabled", c.RateLimit.Enabled)
	v.SetDefault("rate_limit.global_requests", c.RateLimit.GlobalRequests)
	v.SetDefault("rate_limit.global_window", c.RateLimit.GlobalWindow)
	v.SetDefault("rate_limit.download_requests", c.RateLimit.DownloadRequest)
	v.SetDefault("rate_limit.download_window", c.RateLimit.DownloadWindow)

	v.SetDefault("history.enabled", c.History.Enabled)
	v.SetDefault("history.database_path", c.History.DatabasePath)

	v.SetDefault("notification.enabled", c.Notification.Enabled)
	v.SetDefault("notification.sound", c.Notification.Sound)
	v.SetDefault("notification.method", c.Notification.Method)

	v.SetDefault("logging.level", c.Logging.Level)
	v.SetDefault("logging.format", c.Logging.Format)
	v.SetDefault("logging.output_path", c.Logging.OutputPath)
}

// expandPaths expands environment variables in path configurations
func expandPaths(config *domain.Config) *domain.Config {
	config.Download.Dir = expandPath(config.Download.Dir)
	config.Download.LogsDir = expandPath(config.Download.LogsDir)
	config.History.DatabasePath = expandPath(config.History.DatabasePath)

	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = expandPath(config.Logging.OutputPath)
	}

	return config
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	if strings.Contains(path, "$HOME") && os.Getenv("HOME") == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = strings.ReplaceAll(path, "$HOME", home)
		}
	}
	return os.ExpandEnv(path)
}

// validateConfig validates the configuration
func validateConfig(config *domain.Config) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if !domain.ValidateMode(config.Server.Mode) {
		return fmt.Errorf("invalid server mode: %q (want %q or %q)", config.Server.Mode, domain.ModeStatic, domain.ModeDownload)
	}

	if config.Server.Mode == domain.ModeDownload {
		if config.Download.Dir == "" {
			return fmt.Errorf("download directory not configured")
		}
		if config.YTDLP.Binary == "" {
			return fmt.Errorf("yt-dlp binary not configured")
		}
		if config.YTDLP.Timeout <= 0 {
			return fmt.Errorf("yt-dlp timeout must be positive")
		}
	}

	if config.History.Enabled && config.History.DatabasePath == "" {
		return fmt.Errorf("history database path not configured")
	}

	if config.RateLimit.Enabled {
		if config.RateLimit.DownloadRequest < 1 || config.RateLimit.DownloadWindow <= 0 {
			return fmt.Errorf("download rate limit must allow at least one request per positive window")
		}
		if config.RateLimit.GlobalRequests < 1 || config.RateLimit.GlobalWindow <= 0 {
			return fmt.Errorf("global rate limit must allow at least one request per positive window")
		}
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
	setDefaults(v, config)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
