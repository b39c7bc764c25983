package handlers

import (
	"fmt"
	"net/http"
	"os"

	"harmonic/config"
	"harmonic/websocket"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// SettingsHandler handles settings-related endpoints
type SettingsHandler struct {
	hub websocket.Hub
}

// NewSettingsHandler creates a new settings handler. hub may be nil.
func NewSettingsHandler(hub websocket.Hub) *SettingsHandler {
	return &SettingsHandler{hub: hub}
}

// validateLibraryLocation checks that a non-empty location is an existing directory
func validateLibraryLocation(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

// GetSettings returns the current settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := config.LoadSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to load settings",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateSettings updates the user settings. Fields absent from the body keep their current value.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	newSettings, err := config.LoadSettings()
	if err != nil {
		log.Warnf("Replacing unreadable settings file: %v", err)
	}

	if err := c.ShouldBindJSON(&newSettings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid settings format",
			"details": err.Error(),
		})
		return
	}

	if err := validateLibraryLocation(newSettings.LibraryLocation); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid library location",
			"details": err.Error(),
		})
		return
	}

	if err := config.SaveSettings(newSettings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to save settings",
			"details": err.Error(),
		})
		return
	}

	if h.hub != nil {
		h.hub.NotifySettingsChanged(newSettings)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "settings updated successfully",
		"settings": newSettings,
	})
}
