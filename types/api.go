package types

// SupportedExtensions lists the audio formats the library browser shows
var SupportedExtensions = []string{"mp3", "wav", "flac", "m4a", "ogg", "aac"}

// AudioFile represents one audio file in a browsed directory
type AudioFile struct {
	Path      string  `json:"path"`
	Name      string  `json:"name"` // file stem, without extension
	Size      int64   `json:"size"`
	Extension string  `json:"extension"`       // lowercase, without the dot
	Cover     *string `json:"cover,omitempty"` // base64 of the first embedded picture
	Artist    *string `json:"artist,omitempty"`
	Album     *string `json:"album,omitempty"`
	Lyrics    *string `json:"lyrics,omitempty"`
}

// LyricLine is a single timed line of LRC lyrics
type LyricLine struct {
	Time float64 `json:"time"` // seconds
	Text string  `json:"text"`
}

// LyricsResponse is returned by the lyrics endpoint
type LyricsResponse struct {
	Path    string      `json:"path"`
	Synced  bool        `json:"synced"`
	Raw     string      `json:"raw,omitempty"`
	Lines   []LyricLine `json:"lines"`
	Current *int        `json:"current,omitempty"` // index of the line at ?position=, -1 before the first
}
