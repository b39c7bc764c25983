// Package metadata reads artist, album, cover art and lyrics from MP3 and FLAC tags.
package metadata

import "strings"

// Result holds the optional fields read from an audio file's tags.
// A nil field means the tag was absent, empty or unreadable.
type Result struct {
	Cover  *string
	Artist *string
	Album  *string
	Lyrics *string
}

// IsEmpty reports whether no field was found
func (r Result) IsEmpty() bool {
	return r.Cover == nil && r.Artist == nil && r.Album == nil && r.Lyrics == nil
}

// Extractor reads tag metadata for a file path and extension
type Extractor interface {
	Extract(filePath, extension string) Result
}

// ExtractorFunc adapts a plain function to the Extractor interface
type ExtractorFunc func(filePath, extension string) Result

// Extract calls f(filePath, extension)
func (f ExtractorFunc) Extract(filePath, extension string) Result {
	return f(filePath, extension)
}

// NewExtractor returns the default tag extractor
func NewExtractor() Extractor {
	return ExtractorFunc(Extract)
}

// Extract dispatches on the lowercase extension to a format-specific reader.
// It never fails: unreadable tags and unsupported formats yield an empty Result.
func Extract(filePath, extension string) Result {
	switch strings.ToLower(strings.TrimPrefix(extension, ".")) {
	case "mp3":
		return readMP3(filePath)
	case "flac":
		return readFLAC(filePath)
	default:
		return Result{}
	}
}

// optional returns a pointer to value, or nil when it is blank
func optional(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

// optionalCover encodes picture bytes, or returns nil when there are none
func optionalCover(data []byte) *string {
	if len(data) == 0 {
		return nil
	}
	encoded := EncodeBase64(data)
	return &encoded
}
