package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// DesktopLyricsSettings controls the floating lyrics window
type DesktopLyricsSettings struct {
	FontSize     int     `json:"fontSize" binding:"min=8,max=96"`
	DisplayLines int     `json:"displayLines" binding:"min=1,max=10"`
	TextColor    string  `json:"textColor" binding:"required,hexcolor"`
	LineHeight   float64 `json:"lineHeight" binding:"gte=1,lte=3"`
	FontWeight   string  `json:"fontWeight" binding:"oneof=normal bold"`
}

// UserSettings represents the user's personal settings
type UserSettings struct {
	LibraryLocation string                `json:"libraryLocation"`
	DesktopLyrics   DesktopLyricsSettings `json:"desktopLyrics"`
}

// DefaultSettings returns the settings used before the user changes anything
func DefaultSettings() UserSettings {
	return UserSettings{
		DesktopLyrics: DesktopLyricsSettings{
			FontSize:     24,
			DisplayLines: 3,
			TextColor:    "#c084fc",
			LineHeight:   1.5,
			FontWeight:   "normal",
		},
	}
}

// SettingsFilePath returns the path to the settings file
func SettingsFilePath() string {
	if custom := os.Getenv("HARMONIC_SETTINGS"); custom != "" {
		return custom
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".harmonic-settings.json")
}

// LoadSettings reads the settings file, returning defaults when it does not exist.
// Fields missing from the file keep their default values.
func LoadSettings() (UserSettings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(SettingsFilePath())
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, err
	}

	if err := json.Unmarshal(data, &settings); err != nil {
		return DefaultSettings(), err
	}
	return settings, nil
}

// SaveSettings writes settings to the settings file
func SaveSettings(settings UserSettings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}

	path := SettingsFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// getUserLibraryLocation returns the library location from the settings file, if any
func getUserLibraryLocation() string {
	settings, err := LoadSettings()
	if err != nil {
		return ""
	}
	return settings.LibraryLocation
}
