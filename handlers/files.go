package handlers

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"harmonic/config"
	"harmonic/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// FileHandler handles audio file browsing endpoints
type FileHandler struct {
	library services.LibraryService
}

// NewFileHandler creates a new file handler
func NewFileHandler(library services.LibraryService) *FileHandler {
	return &FileHandler{
		library: library,
	}
}

// ListFiles returns the audio files directly inside ?path=, or the library location
func (h *FileHandler) ListFiles(c *gin.Context) {
	dirPath := c.Query("path")
	if dirPath == "" {
		dirPath = config.GetLibraryLocation()
	}

	audioFiles, err := h.library.ListAudioFiles(dirPath)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"path":  dirPath,
		"files": audioFiles,
		"count": len(audioFiles),
	})
}

// GetMetadata returns the record for a single file
func (h *FileHandler) GetMetadata(c *gin.Context) {
	filePath, ok := requirePath(c)
	if !ok {
		return
	}

	audioFile, err := h.library.ReadFileMetadata(filePath)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, audioFile)
}

// GetBase64 returns the whole file encoded as base64
func (h *FileHandler) GetBase64(c *gin.Context) {
	filePath, ok := requirePath(c)
	if !ok {
		return
	}

	encoded, err := h.library.ReadFileAsBase64(filePath)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"path":        filePath,
		"contentType": services.GetContentType(filePath),
		"data":        encoded,
	})
}

// StreamFile serves an audio file from the library location with range support
func (h *FileHandler) StreamFile(c *gin.Context) {
	requestedPath := strings.TrimPrefix(c.Param("filepath"), "/")

	if err := services.ValidateFilePath(requestedPath); err != nil {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "path security violation",
			"details": err.Error(),
		})
		return
	}

	if !services.IsSupportedFormat(services.FileExtension(requestedPath)) {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "file extension not allowed",
			"details": "only audio files can be streamed",
		})
		return
	}

	fullPath, err := services.ResolveLibraryPath(config.GetLibraryLocation(), requestedPath)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOutsideLibrary):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "path traversal not allowed",
			})
		case services.IsNotFound(err):
			c.JSON(http.StatusNotFound, gin.H{
				"error": err.Error(),
				"path":  requestedPath,
			})
		default:
			respondError(c, err)
		}
		return
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		respondError(c, err)
		return
	}
	if info.IsDir() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "path is a directory, not a file",
		})
		return
	}

	c.Header("Content-Type", services.GetContentType(requestedPath))
	c.Header("Cache-Control", "public, max-age=3600")
	// http.ServeContent behind c.File handles Range and If-Range
	c.File(fullPath)
}

// requirePath reads the mandatory ?path= query parameter
func requirePath(c *gin.Context) (string, bool) {
	filePath := c.Query("path")
	if filePath == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "query parameter 'path' is required",
		})
		return "", false
	}
	return filePath, true
}

// respondError maps library errors to HTTP responses
func respondError(c *gin.Context, err error) {
	switch {
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotADirectory):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Errorf("Request %s failed: %v", c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to read files",
			"details": err.Error(),
		})
	}
}
