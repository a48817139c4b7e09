package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogCategory represents different log categories
type LogCategory string

const (
	CategoryAccess   LogCategory = "access"   // HTTP requests (JSON)
	CategoryDownload LogCategory = "download" // Download lifecycle events (JSON)
	CategoryError    LogCategory = "error"    // Application errors (JSON)
	CategoryOutput   LogCategory = "output"   // Raw yt-dlp stdout/stderr (plain text)
)

// Categories lists every category that has a log file
var Categories = []LogCategory{CategoryAccess, CategoryDownload, CategoryError, CategoryOutput}

// ValidCategory reports whether c is a known category
func ValidCategory(c LogCategory) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// MultiLogger provides categorized logging with separate output files
// alongside a general console logger.
type MultiLogger struct {
	general *zap.Logger
	loggers map[LogCategory]*zap.Logger
	files   []*os.File
	config  MultiLoggerConfig

	outputMu sync.Mutex
	output   *os.File
	mu       sync.RWMutex
}

// MultiLoggerConfig contains configuration for multi-output logging
type MultiLoggerConfig struct {
	Level   string // debug, info, warn, error
	LogsDir string // Directory for log files
}

// NewMultiLogger creates a new multi-output logger. general receives every
// category event as well; pass zap.NewNop() to keep the files only.
func NewMultiLogger(config MultiLoggerConfig, general *zap.Logger) (*MultiLogger, error) {
	if config.LogsDir == "" {
		return nil, fmt.Errorf("logs_dir must be specified")
	}
	if err := os.MkdirAll(config.LogsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}
	if general == nil {
		general = zap.NewNop()
	}

	ml := &MultiLogger{
		general: general,
		loggers: make(map[LogCategory]*zap.Logger),
		config:  config,
	}

	level, err := zapcore.ParseLevel(config.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	levels := map[LogCategory]zapcore.Level{
		CategoryAccess:   level,
		CategoryDownload: level,
		CategoryError:    zapcore.ErrorLevel,
	}
	for category, lvl := range levels {
		l, err := ml.createStructuredLogger(category, lvl)
		if err != nil {
			ml.Close()
			return nil, fmt.Errorf("failed to create %s logger: %w", category, err)
		}
		ml.loggers[category] = l
	}

	output, err := os.OpenFile(LogPath(config.LogsDir, CategoryOutput, time.Now()), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		ml.Close()
		return nil, fmt.Errorf("failed to open output log: %w", err)
	}
	ml.output = output

	return ml, nil
}

// createStructuredLogger creates a JSON-formatted logger for a category
func (ml *MultiLogger) createStructuredLogger(category LogCategory, level zapcore.Level) (*zap.Logger, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"
	encoderConfig.LevelKey = "level"
	encoderConfig.CallerKey = ""

	file, err := os.OpenFile(LogPath(ml.config.LogsDir, category, time.Now()), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	ml.files = append(ml.files, file)

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(file), level)
	return zap.New(core).With(zap.String("category", string(category))), nil
}

// LogPath returns the file for a category on a given day
func LogPath(logsDir string, category LogCategory, date time.Time) string {
	return filepath.Join(logsDir, fmt.Sprintf("%s-%s.log", category, date.Format("20060102")))
}

// LogsDir returns the logs directory path
func (ml *MultiLogger) LogsDir() string {
	return ml.config.LogsDir
}

// General returns the console logger
func (ml *MultiLogger) General() *zap.Logger {
	return ml.general
}

// GetLogger returns the structured logger for a specific category
func (ml *MultiLogger) GetLogger(category LogCategory) *zap.Logger {
	ml.mu.RLock()
	defer ml.mu.RUnlock()

	if l, ok := ml.loggers[category]; ok {
		return l
	}
	return ml.loggers[CategoryError]
}

// Access returns the HTTP access logger
func (ml *MultiLogger) Access() *zap.Logger {
	return ml.GetLogger(CategoryAccess)
}

// Download returns the download event logger
func (ml *MultiLogger) Download() *zap.Logger {
	return ml.GetLogger(CategoryDownload)
}

// Error returns the error logger
func (ml *MultiLogger) Error() *zap.Logger {
	return ml.GetLogger(CategoryError)
}

// LogAccess logs one HTTP request
func (ml *MultiLogger) LogAccess(msg string, fields ...zap.Field) {
	ml.Access().Info(msg, fields...)
	ml.general.Info(msg, fields...)
}

// LogDownloadEvent logs a download lifecycle event
func (ml *MultiLogger) LogDownloadEvent(event string, fields ...zap.Field) {
	ml.Download().Info(event, fields...)
	ml.general.Info(event, fields...)
}

// LogAppError logs an application-level error
func (ml *MultiLogger) LogAppError(msg string, fields ...zap.Field) {
	ml.Error().Error(msg, fields...)
	ml.general.Error(msg, fields...)
}

// WriteDownloadCommand writes the start marker and command line to the output log
func (ml *MultiLogger) WriteDownloadCommand(id, cmdLine string) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	ml.writeOutput(fmt.Sprintf("\n=== [%s] Download: %s ===\n$ %s\n", timestamp, id, cmdLine))
}

// WriteDownloadOutput writes one raw line of subprocess output
func (ml *MultiLogger) WriteDownloadOutput(id, stream, line string) {
	if stream == "stderr" {
		ml.writeOutput(fmt.Sprintf("[%s] [STDERR] %s\n", id, line))
		return
	}
	ml.writeOutput(fmt.Sprintf("[%s] %s\n", id, line))
}

// WriteDownloadComplete writes the end marker to the output log
func (ml *MultiLogger) WriteDownloadComplete(id string, success bool, message string) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	status := "SUCCESS"
	if !success {
		status = "FAILED"
	}
	ml.writeOutput(fmt.Sprintf("[%s] %s %s: %s\n=== END ===\n", timestamp, id, status, message))
}

func (ml *MultiLogger) writeOutput(s string) {
	ml.outputMu.Lock()
	defer ml.outputMu.Unlock()
	if ml.output != nil {
		ml.output.WriteString(s)
	}
}

// Sync flushes all loggers
func (ml *MultiLogger) Sync() error {
	ml.mu.RLock()
	defer ml.mu.RUnlock()

	var lastErr error
	for _, l := range ml.loggers {
		if err := l.Sync(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Close flushes all loggers and closes their files
func (ml *MultiLogger) Close() error {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	var lastErr error
	for _, l := range ml.loggers {
		if err := l.Sync(); err != nil {
			lastErr = err
		}
	}
	for _, f := range ml.files {
		if err := f.Close(); err != nil {
			lastErr = err
		}
	}

	ml.outputMu.Lock()
	if ml.output != nil {
		if err := ml.output.Close(); err != nil {
			lastErr = err
		}
		ml.output = nil
	}
	ml.outputMu.Unlock()

	return lastErr
}
