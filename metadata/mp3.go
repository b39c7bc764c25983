package metadata

import (
	"os"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
	log "github.com/sirupsen/logrus"
)

// TXXX descriptions that carry unsynchronised lyrics
var lyricsDescriptions = []string{"lyrics", "unsyncedlyrics"}

// readMP3 reads ID3v2 frames, falling back to the generic tag reader for
// versions and layouts id3v2 does not parse (ID3v2.2, ID3v1-only files).
func readMP3(filePath string) Result {
	result, err := readID3v2(filePath)
	if err == nil && !result.IsEmpty() {
		return result
	}
	if err != nil {
		log.Debugf("id3v2 could not read %s: %v", filePath, err)
	}

	fallback, err := readGenericTag(filePath)
	if err != nil {
		log.Debugf("Could not parse tags from %s: %v", filePath, err)
		return result
	}
	return fallback
}

// readID3v2 reads artist, album, the first attached picture and lyrics
func readID3v2(filePath string) (Result, error) {
	id3Tag, err := id3v2.Open(filePath, id3v2.Options{Parse: true})
	if err != nil {
		return Result{}, err
	}
	defer id3Tag.Close()

	if !id3Tag.HasFrames() {
		return Result{}, nil
	}

	result := Result{
		Artist: optional(id3Tag.Artist()),
		Album:  optional(id3Tag.Album()),
	}

	for _, frame := range id3Tag.GetFrames(id3Tag.CommonID("Attached picture")) {
		if pic, ok := frame.(id3v2.PictureFrame); ok && len(pic.Picture) > 0 {
			result.Cover = optionalCover(pic.Picture)
			break
		}
	}

	result.Lyrics = id3v2Lyrics(id3Tag)
	return result, nil
}

// id3v2Lyrics looks for a TXXX lyrics frame first, then the first USLT frame
func id3v2Lyrics(id3Tag *id3v2.Tag) *string {
	for _, frame := range id3Tag.GetFrames(id3Tag.CommonID("User defined text information frame")) {
		udtf, ok := frame.(id3v2.UserDefinedTextFrame)
		if !ok {
			continue
		}
		for _, desc := range lyricsDescriptions {
			if strings.EqualFold(udtf.Description, desc) {
				return optional(udtf.Value)
			}
		}
	}

	for _, frame := range id3Tag.GetFrames(id3Tag.CommonID("Unsynchronised lyrics/text transcription")) {
		if uslt, ok := frame.(id3v2.UnsynchronisedLyricsFrame); ok {
			if lyrics := optional(uslt.Lyrics); lyrics != nil {
				return lyrics
			}
		}
	}

	return nil
}

// readGenericTag reads the fields dhowden/tag exposes for any ID3 version
func readGenericTag(filePath string) (Result, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return Result{}, err
	}
	defer file.Close()

	meta, err := tag.ReadFrom(file)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Artist: optional(meta.Artist()),
		Album:  optional(meta.Album()),
		Lyrics: optional(meta.Lyrics()),
	}
	if pic := meta.Picture(); pic != nil {
		result.Cover = optionalCover(pic.Data)
	}
	return result, nil
}
