package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/mediagrab-go/internal/app"
	"github.com/yourusername/mediagrab-go/internal/domain"
)

const genericDownloadError = "Failed to download. Please check the URL and try again."

var platformTitles = map[domain.Platform]string{
	domain.PlatformYouTube:   "YouTube",
	domain.PlatformInstagram: "Instagram",
}

// DownloadHandler handles download-related HTTP requests. In static mode
// downloadMgr is nil and requests only get the service list.
type DownloadHandler struct {
	mode        domain.Mode
	downloadMgr *app.DownloadManager
	production  bool
	logger      *zap.Logger
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(mode domain.Mode, downloadMgr *app.DownloadManager, production bool, logger *zap.Logger) *DownloadHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DownloadHandler{
		mode:        mode,
		downloadMgr: downloadMgr,
		production:  production,
		logger:      logger,
	}
}

// DownloadResponse is the active-mode success body
type DownloadResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	FileName     string `json:"fileName"`
	DownloadPath string `json:"downloadPath"`
}

// Download handles POST /api/download
func (h *DownloadHandler) Download(c *gin.Context) {
	raw, err := app.DecodeDownloadRequest(c.Request.Body)
	if err != nil {
		h.respondError(c, err)
		return
	}

	req, err := app.ValidateDownloadRequest(raw)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if h.mode == domain.ModeStatic || h.downloadMgr == nil {
		c.JSON(http.StatusOK, app.BuildAdvice(req))
		return
	}

	result, err := h.downloadMgr.ProcessDownload(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("Download failed",
			zap.String("url", req.URL),
			zap.String("platform", string(req.Platform)),
			zap.Error(err))
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, DownloadResponse{
		Success:      true,
		Message:      fmt.Sprintf("%s from %s downloaded successfully!", title(string(req.Format)), platformTitles[req.Platform]),
		FileName:     result.FileName,
		DownloadPath: h.downloadMgr.DownloadsDir(),
	})
}

// ListFiles handles GET /api/downloads
func (h *DownloadHandler) ListFiles(c *gin.Context) {
	files, exists, err := h.downloadMgr.ListFiles()
	if err != nil {
		h.logger.Error("Failed to list downloads", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read downloads directory"})
		return
	}
	if !exists {
		c.JSON(http.StatusOK, gin.H{"files": []string{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"files": files,
		"path":  h.downloadMgr.DownloadsDir(),
	})
}

// respondError maps err to a status code and a client-safe message
func (h *DownloadHandler) respondError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": title(ve.Err.Error())})
		return
	}

	c.Error(err)

	if errors.Is(err, domain.ErrDownloadTimeout) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": title(domain.ErrDownloadTimeout.Error())})
		return
	}

	message := err.Error()
	if h.production {
		message = genericDownloadError
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}

// title upper-cases the first letter of s
func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
