package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/mediagrab-go/internal/app"
	"github.com/yourusername/mediagrab-go/internal/domain"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// HistoryHandler serves the download history
type HistoryHandler struct {
	downloadMgr *app.DownloadManager
	logger      *zap.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(downloadMgr *app.DownloadManager, logger *zap.Logger) *HistoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryHandler{downloadMgr: downloadMgr, logger: logger}
}

// List handles GET /api/history
func (h *HistoryHandler) List(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultHistoryLimit)))
	if err != nil || limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	records, err := h.downloadMgr.History(c.Query("status"), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if records == nil {
		records = []*domain.DownloadRecord{}
	}

	c.JSON(http.StatusOK, gin.H{
		"downloads": records,
		"count":     len(records),
	})
}

// Stats handles GET /api/history/stats
func (h *HistoryHandler) Stats(c *gin.Context) {
	stats, err := h.downloadMgr.Stats()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *HistoryHandler) respondError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
	case errors.Is(err, app.ErrHistoryDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Failed to query history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query download history"})
	}
}
