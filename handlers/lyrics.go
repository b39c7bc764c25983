package handlers

import (
	"net/http"
	"strconv"

	"harmonic/lyrics"
	"harmonic/services"
	"harmonic/types"

	"github.com/gin-gonic/gin"
)

// LyricsHandler serves embedded lyrics parsed as LRC
type LyricsHandler struct {
	library services.LibraryService
}

// NewLyricsHandler creates a new lyrics handler
func NewLyricsHandler(library services.LibraryService) *LyricsHandler {
	return &LyricsHandler{library: library}
}

// GetLyrics returns the embedded lyrics of ?path= with timed lines when they
// are LRC. With ?position= (seconds) it also reports the active line.
func (h *LyricsHandler) GetLyrics(c *gin.Context) {
	filePath, ok := requirePath(c)
	if !ok {
		return
	}

	var position *float64
	if raw := c.Query("position"); raw != "" {
		seconds, err := strconv.ParseFloat(raw, 64)
		if err != nil || seconds < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "query parameter 'position' must be a non-negative number of seconds",
				"details": raw,
			})
			return
		}
		position = &seconds
	}

	audioFile, err := h.library.ReadFileMetadata(filePath)
	if err != nil {
		respondError(c, err)
		return
	}

	response := types.LyricsResponse{
		Path:  filePath,
		Lines: []types.LyricLine{},
	}
	if audioFile.Lyrics != nil {
		response.Raw = *audioFile.Lyrics
		response.Synced = lyrics.IsSynced(response.Raw)
		if response.Synced {
			response.Lines = lyrics.Parse(response.Raw)
		}
	}
	if position != nil && response.Synced {
		current := lyrics.CurrentLine(response.Lines, *position)
		response.Current = &current
	}

	c.JSON(http.StatusOK, response)
}
