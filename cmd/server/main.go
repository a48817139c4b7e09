package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/mediagrab-go/api"
	"github.com/yourusername/mediagrab-go/internal/app"
	"github.com/yourusername/mediagrab-go/internal/domain"
	"github.com/yourusername/mediagrab-go/internal/infrastructure"
	"github.com/yourusername/mediagrab-go/pkg/logger"
)

// Set with -ldflags "-X main.version=..."
var version = "1.0.0"

var (
	configPath = flag.String("config", "", "Path to config file (default: ./configs, ~/.mediagrab or /etc/mediagrab)")
	daemon     = flag.Bool("daemon", false, "Detach and run the server in the background")
)

func main() {
	flag.Parse()

	if *daemon {
		if err := startAsDaemon(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start daemon: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runServer(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func runServer() error {
	config, err := app.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if config.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	log, err := logger.New(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	})
	if err != nil {
		log = fallbackLogger(config.Server.IsProduction())
		log.Warn("Failed to initialize configured logger, using stdout",
			zap.String("output_path", config.Logging.OutputPath),
			zap.Error(err))
	}
	defer log.Sync()

	// Category logs: access, download, error, output
	multiLog, err := logger.NewMultiLogger(logger.MultiLoggerConfig{
		Level:   config.Logging.Level,
		LogsDir: config.Download.LogsDir,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to initialize category logs: %w", err)
	}
	defer multiLog.Close()

	log.Info("Starting mediagrab server",
		zap.String("version", version),
		zap.String("mode", string(config.Server.Mode)),
		zap.String("environment", config.Server.Environment),
		zap.String("host", config.Server.Host),
		zap.Int("port", config.Server.Port))

	var downloadMgr *app.DownloadManager
	if config.Server.Mode == domain.ModeDownload {
		mgr, closeRepo, err := buildDownloadManager(config, log, multiLog)
		if err != nil {
			return err
		}
		defer closeRepo()
		downloadMgr = mgr
	}

	router := api.SetupRouter(config, downloadMgr, multiLog, version)

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", addr))
		if config.Server.Mode == domain.ModeDownload {
			log.Info("Downloads will be saved to", zap.String("dir", config.Download.Dir))
		}
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info("Received shutdown signal")
	case err := <-serverErr:
		return fmt.Errorf("failed to start server: %w", err)
	}

	log.Info("Shutting down server...")

	// In-flight downloads get up to the yt-dlp timeout to finish
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.YTDLP.Timeout+5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
	return nil
}

// buildDownloadManager wires the yt-dlp downloader, history and notifications.
// The returned func closes the history database.
func buildDownloadManager(config *domain.Config, log *zap.Logger, multiLog *logger.MultiLogger) (*app.DownloadManager, func(), error) {
	if err := os.MkdirAll(config.Download.Dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create downloads directory: %w", err)
	}

	closeRepo := func() {}
	var repo domain.HistoryRepository
	if config.History.Enabled {
		if err := os.MkdirAll(filepath.Dir(config.History.DatabasePath), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create history directory: %w", err)
		}
		sqliteRepo, err := infrastructure.NewSQLiteHistoryRepository(config.History.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize history: %w", err)
		}
		repo = sqliteRepo
		closeRepo = func() {
			if err := sqliteRepo.Close(); err != nil {
				log.Warn("Failed to close history database", zap.Error(err))
			}
		}
	}

	notifier := infrastructure.NewNotificationService(&config.Notification, log)
	downloader := infrastructure.NewYTDLPDownloader(&config.YTDLP, log, multiLog)

	mgr := app.NewDownloadManager(downloader, repo, notifier, config.Download.Dir, log, multiLog)
	if _, err := mgr.RecoverInterrupted(); err != nil {
		log.Warn("Failed to recover interrupted downloads", zap.Error(err))
	}
	return mgr, closeRepo, nil
}

// fallbackLogger logs to stdout when the configured output cannot be opened
func fallbackLogger(production bool) *zap.Logger {
	if production {
		if log, err := logger.NewProduction(); err == nil {
			return log
		}
	}
	return logger.NewDefault()
}
