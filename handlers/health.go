package handlers

import (
	"net/http"
	"os"
	"time"

	"harmonic/config"
	"harmonic/types"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check endpoints
type HealthHandler struct{}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// HealthCheck returns the health status of the service
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "harmonic",
		"version":   "0.1.0",
		"timestamp": time.Now().Unix(),
	})
}

// APIStatus reports where the library is, whether it can be browsed and
// which formats the scanner lists
func (h *HealthHandler) APIStatus(c *gin.Context) {
	libraryLocation := config.GetLibraryLocation()

	libraryStatus := "available"
	if info, err := os.Stat(libraryLocation); err != nil {
		libraryStatus = "missing"
	} else if !info.IsDir() {
		libraryStatus = "not a directory"
	}

	c.JSON(http.StatusOK, gin.H{
		"message":           "Harmonic API is running",
		"library_location":  libraryLocation,
		"library_status":    libraryStatus,
		"supported_formats": types.SupportedExtensions,
		"settings_file":     config.SettingsFilePath(),
		"watching":          config.WatchEnabled(),
	})
}
