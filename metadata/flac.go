package metadata

import (
	"encoding/binary"
	"errors"
	"strings"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
	log "github.com/sirupsen/logrus"
)

// readFLAC reads the first Vorbis comment block and the first picture block
func readFLAC(filePath string) Result {
	file, err := flac.ParseFile(filePath)
	if err != nil {
		log.Debugf("Could not parse FLAC file %s: %v", filePath, err)
		return Result{}
	}

	var result Result
	commentsRead := false

	for _, block := range file.Meta {
		switch {
		case block.Type == flac.VorbisComment && !commentsRead:
			if err := checkVorbisLengths(block.Data); err != nil {
				log.Debugf("Skipping Vorbis comment block in %s: %v", filePath, err)
				continue
			}
			cmt, err := flacvorbis.ParseFromMetaDataBlock(*block)
			if err != nil {
				log.Debugf("Invalid Vorbis comment block in %s: %v", filePath, err)
				continue
			}
			commentsRead = true
			fields := vorbisFields(cmt.Comments)
			result.Artist = optional(fields.first(flacvorbis.FIELD_ARTIST))
			result.Album = optional(fields.first(flacvorbis.FIELD_ALBUM))
			result.Lyrics = optional(fields.first("LYRICS"))
			if result.Lyrics == nil {
				result.Lyrics = optional(fields.first("UNSYNCEDLYRICS"))
			}

		case block.Type == flac.Picture && result.Cover == nil:
			if err := checkPictureLengths(block.Data); err != nil {
				log.Debugf("Skipping picture block in %s: %v", filePath, err)
				continue
			}
			pic, err := flacpicture.ParseFromMetaDataBlock(*block)
			if err != nil {
				log.Debugf("Invalid picture block in %s: %v", filePath, err)
				continue
			}
			result.Cover = optionalCover(pic.ImageData)
		}
	}

	return result
}

var errBlockOverrun = errors.New("declared length exceeds block size")

// checkVorbisLengths verifies every length in a VORBIS_COMMENT body fits the
// block, since flacvorbis allocates whatever the block declares.
func checkVorbisLengths(data []byte) error {
	rest := data
	take := func(n uint64) bool {
		if n > uint64(len(rest)) {
			return false
		}
		rest = rest[n:]
		return true
	}
	readLen := func() (uint64, bool) {
		if len(rest) < 4 {
			return 0, false
		}
		n := binary.LittleEndian.Uint32(rest)
		rest = rest[4:]
		return uint64(n), true
	}

	vendorLen, ok := readLen()
	if !ok || !take(vendorLen) {
		return errBlockOverrun
	}
	count, ok := readLen()
	if !ok || count*4 > uint64(len(rest)) {
		return errBlockOverrun
	}
	for i := uint64(0); i < count; i++ {
		commentLen, ok := readLen()
		if !ok || !take(commentLen) {
			return errBlockOverrun
		}
	}
	return nil
}

// checkPictureLengths verifies the mime, description and image data lengths
// of a PICTURE body fit the block.
func checkPictureLengths(data []byte) error {
	rest := data
	skip := func(n uint64) bool {
		if n > uint64(len(rest)) {
			return false
		}
		rest = rest[n:]
		return true
	}
	readLen := func() (uint64, bool) {
		if len(rest) < 4 {
			return 0, false
		}
		n := binary.BigEndian.Uint32(rest)
		rest = rest[4:]
		return uint64(n), true
	}

	// picture type
	if !skip(4) {
		return errBlockOverrun
	}
	mimeLen, ok := readLen()
	if !ok || !skip(mimeLen) {
		return errBlockOverrun
	}
	descLen, ok := readLen()
	if !ok || !skip(descLen) {
		return errBlockOverrun
	}
	// width, height, depth, colors
	if !skip(16) {
		return errBlockOverrun
	}
	dataLen, ok := readLen()
	if !ok || dataLen > uint64(len(rest)) {
		return errBlockOverrun
	}
	return nil
}

// commentFields maps upper-cased Vorbis comment keys to their values in file order
type commentFields map[string][]string

func vorbisFields(comments []string) commentFields {
	fields := make(commentFields)
	for _, comment := range comments {
		parts := strings.SplitN(comment, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.ToUpper(parts[0])
		fields[key] = append(fields[key], parts[1])
	}
	return fields
}

// first returns the first non-blank value for key. Multi-valued fields
// such as several ARTIST entries keep only that first value.
func (f commentFields) first(key string) string {
	for _, value := range f[strings.ToUpper(key)] {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
