package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// GetLibraryLocation returns the directory browsed when no path is given
func GetLibraryLocation() string {
	// User settings take precedence over the environment
	if location := getUserLibraryLocation(); location != "" {
		return location
	}

	if customPath := os.Getenv("HARMONIC_LIBRARY"); customPath != "" {
		return customPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, "Music")
}

// GetServerPort returns the API port, preferring SERVER_PORT over the flag value
func GetServerPort(defaultPort int) string {
	if serverPort := os.Getenv("SERVER_PORT"); serverPort != "" {
		return serverPort
	}
	return strconv.Itoa(defaultPort)
}

// GetCORSOrigins returns the origins allowed to call the API
func GetCORSOrigins() []string {
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		// Vite dev server and the desktop shell's webview
		corsOrigins = "http://localhost:1420,http://localhost:5173,http://tauri.localhost"
	}

	var origins []string
	for _, origin := range strings.Split(corsOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// GetLogLevel returns the configured log level name
func GetLogLevel() string {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		return level
	}
	return "info"
}

// WatchEnabled reports whether the library watcher should run
func WatchEnabled() bool {
	enabled, _ := strconv.ParseBool(os.Getenv("HARMONIC_WATCH"))
	return enabled
}
