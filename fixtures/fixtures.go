// Package fixtures writes small tagged audio files for tests.
package fixtures

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/bogem/id3v2/v2"
	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
)

// MP3Tags describes the ID3v2 frames written by WriteMP3
type MP3Tags struct {
	Artist string
	Album  string
	Cover  []byte
	// Lyrics is stored in a TXXX frame described by LyricsKey
	Lyrics    string
	LyricsKey string
	// USLT is stored as an unsynchronised lyrics frame
	USLT string
}

// FLACTags describes the Vorbis comments and picture written by WriteFLAC
type FLACTags struct {
	Comments [][2]string // key, value pairs in order
	Cover    []byte      // PNG image data
}

// mpegFrame is a fake MPEG audio payload placed after the tag
var mpegFrame = append([]byte{0xFF, 0xFB, 0x90, 0x64}, make([]byte, 200)...)

// WriteMP3 creates an MP3 file at path carrying the given ID3v2 tags
func WriteMP3(path string, tags MP3Tags) error {
	if err := os.WriteFile(path, mpegFrame, 0644); err != nil {
		return err
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	if tags.Artist != "" {
		tag.SetArtist(tags.Artist)
	}
	if tags.Album != "" {
		tag.SetAlbum(tags.Album)
	}
	if len(tags.Cover) > 0 {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/png",
			PictureType: id3v2.PTFrontCover,
			Description: "Front cover",
			Picture:     tags.Cover,
		})
	}
	if tags.Lyrics != "" {
		key := tags.LyricsKey
		if key == "" {
			key = "LYRICS"
		}
		tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
			Encoding:    id3v2.EncodingUTF8,
			Description: key,
			Value:       tags.Lyrics,
		})
	}
	if tags.USLT != "" {
		tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
			Encoding:          id3v2.EncodingUTF8,
			Language:          "eng",
			ContentDescriptor: "",
			Lyrics:            tags.USLT,
		})
	}

	return tag.Save()
}

// WriteFLAC creates a minimal FLAC stream at path with the given metadata blocks
func WriteFLAC(path string, tags FLACTags) error {
	streamInfo := flac.MetaDataBlock{
		Type: flac.StreamInfo,
		Data: make([]byte, 34),
	}
	file := &flac.File{
		Meta:   []*flac.MetaDataBlock{&streamInfo},
		Frames: []byte{0xFF, 0xF8, 0x69, 0x08, 0x00, 0x00},
	}

	if len(tags.Comments) > 0 {
		cmt := flacvorbis.New()
		for _, kv := range tags.Comments {
			if err := cmt.Add(kv[0], kv[1]); err != nil {
				return err
			}
		}
		cmtBlock := cmt.Marshal()
		file.Meta = append(file.Meta, &cmtBlock)
	}

	if len(tags.Cover) > 0 {
		picture, err := flacpicture.NewFromImageData(
			flacpicture.PictureTypeFrontCover,
			"Front Cover",
			tags.Cover,
			"image/png",
		)
		if err != nil {
			return err
		}
		pictureBlock := picture.Marshal()
		file.Meta = append(file.Meta, &pictureBlock)
	}

	return file.Save(path)
}

// RawFLAC returns the bytes of a FLAC stream holding a zeroed STREAMINFO block
// followed by one last metadata block of blockType carrying body verbatim,
// then a single frame header
func RawFLAC(blockType flac.BlockType, body []byte) []byte {
	raw := []byte("fLaC")
	raw = append(raw, byte(flac.StreamInfo), 0x00, 0x00, 0x22)
	raw = append(raw, make([]byte, 34)...)
	raw = append(raw, 0x80|byte(blockType), byte(len(body)>>16), byte(len(body)>>8), byte(len(body)))
	raw = append(raw, body...)
	return append(raw, 0xFF, 0xF8, 0x69, 0x08, 0x00, 0x00)
}

// PNG returns a tiny encoded PNG image
func PNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 0xc0, G: 0x84, B: 0xfc, A: 0xff})
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
