package metadata

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"harmonic/fixtures"

	"github.com/go-flac/go-flac"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExtractMP3 tests ID3v2 artist, album, cover and lyrics extraction
func TestExtractMP3(t *testing.T) {
	dir := t.TempDir()
	cover := fixtures.PNG()

	tests := []struct {
		name           string
		tags           fixtures.MP3Tags
		expectedArtist string
		expectedAlbum  string
		expectedLyrics string
		expectCover    bool
	}{
		{
			name:           "artist album and picture",
			tags:           fixtures.MP3Tags{Artist: "A", Album: "B", Cover: cover},
			expectedArtist: "A",
			expectedAlbum:  "B",
			expectCover:    true,
		},
		{
			name:           "TXXX lyrics key is case-insensitive",
			tags:           fixtures.MP3Tags{Artist: "A", Lyrics: "[00:01.00]hello", LyricsKey: "Lyrics"},
			expectedArtist: "A",
			expectedLyrics: "[00:01.00]hello",
		},
		{
			name:           "unsyncedlyrics key",
			tags:           fixtures.MP3Tags{Album: "B", Lyrics: "la la", LyricsKey: "UNSYNCEDLYRICS"},
			expectedAlbum:  "B",
			expectedLyrics: "la la",
		},
		{
			name:           "USLT frame used when no TXXX lyrics",
			tags:           fixtures.MP3Tags{Artist: "A", USLT: "plain lyrics"},
			expectedArtist: "A",
			expectedLyrics: "plain lyrics",
		},
		{
			name:           "unrelated TXXX frame ignored",
			tags:           fixtures.MP3Tags{Artist: "A", Lyrics: "not lyrics", LyricsKey: "COMMENT"},
			expectedArtist: "A",
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "track"+string(rune('a'+i))+".mp3")
			require.NoError(t, fixtures.WriteMP3(path, tt.tags))

			result := Extract(path, "mp3")

			assertField(t, tt.expectedArtist, result.Artist)
			assertField(t, tt.expectedAlbum, result.Album)
			assertField(t, tt.expectedLyrics, result.Lyrics)
			if tt.expectCover {
				require.NotNil(t, result.Cover)
				decoded, err := DecodeBase64(*result.Cover)
				require.NoError(t, err)
				assert.Equal(t, cover, decoded)
			} else {
				assert.Nil(t, result.Cover)
			}
		})
	}
}

// TestExtractFLAC tests Vorbis comment and picture extraction
func TestExtractFLAC(t *testing.T) {
	dir := t.TempDir()
	cover := fixtures.PNG()

	tests := []struct {
		name           string
		tags           fixtures.FLACTags
		expectedArtist string
		expectedAlbum  string
		expectedLyrics string
		expectCover    bool
	}{
		{
			name:           "artist without picture",
			tags:           fixtures.FLACTags{Comments: [][2]string{{"ARTIST", "X"}}},
			expectedArtist: "X",
		},
		{
			name: "multi-valued artist keeps the first value",
			tags: fixtures.FLACTags{Comments: [][2]string{
				{"ARTIST", "First"},
				{"ARTIST", "Second"},
				{"ALBUM", "Record"},
			}},
			expectedArtist: "First",
			expectedAlbum:  "Record",
		},
		{
			name: "lowercase keys and lyrics",
			tags: fixtures.FLACTags{Comments: [][2]string{
				{"artist", "y"},
				{"lyrics", "[00:02]line"},
			}},
			expectedArtist: "y",
			expectedLyrics: "[00:02]line",
		},
		{
			name:           "unsyncedlyrics fallback",
			tags:           fixtures.FLACTags{Comments: [][2]string{{"UNSYNCEDLYRICS", "words"}}},
			expectedLyrics: "words",
		},
		{
			name: "picture block",
			tags: fixtures.FLACTags{
				Comments: [][2]string{{"ALBUM", "Z"}},
				Cover:    cover,
			},
			expectedAlbum: "Z",
			expectCover:   true,
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "track"+string(rune('a'+i))+".flac")
			require.NoError(t, fixtures.WriteFLAC(path, tt.tags))

			result := Extract(path, "flac")

			assertField(t, tt.expectedArtist, result.Artist)
			assertField(t, tt.expectedAlbum, result.Album)
			assertField(t, tt.expectedLyrics, result.Lyrics)
			if tt.expectCover {
				require.NotNil(t, result.Cover)
				decoded, err := DecodeBase64(*result.Cover)
				require.NoError(t, err)
				assert.Equal(t, cover, decoded)
			} else {
				assert.Nil(t, result.Cover)
			}
		})
	}
}

// TestExtractCorruptedFiles tests that unreadable tags degrade to empty results
func TestExtractCorruptedFiles(t *testing.T) {
	dir := t.TempDir()

	files := []struct {
		name      string
		extension string
		content   []byte
	}{
		{"garbage.mp3", "mp3", []byte("not a real mp3 file")},
		{"empty.mp3", "mp3", []byte("")},
		{"garbage.flac", "flac", []byte("not a real flac file")},
		{"truncated.flac", "flac", []byte("fLaC\x00\x00\x00\x22\x10")},
	}

	for _, f := range files {
		t.Run(f.name, func(t *testing.T) {
			path := filepath.Join(dir, f.name)
			require.NoError(t, os.WriteFile(path, f.content, 0644))

			result := Extract(path, f.extension)
			assert.True(t, result.IsEmpty(), "expected no metadata for %s", f.name)
		})
	}
}

// TestExtractFLACOversizedLengths tests that lengths declared past the end of a
// block are skipped without allocating them
func TestExtractFLACOversizedLengths(t *testing.T) {
	dir := t.TempDir()

	le := func(values ...uint32) []byte {
		var b []byte
		for _, v := range values {
			b = binary.LittleEndian.AppendUint32(b, v)
		}
		return b
	}
	be := func(values ...uint32) []byte {
		var b []byte
		for _, v := range values {
			b = binary.BigEndian.AppendUint32(b, v)
		}
		return b
	}

	files := []struct {
		name      string
		blockType flac.BlockType
		body      []byte
	}{
		{"vendor.flac", flac.VorbisComment, le(0xFFFFFFF0, 0)},
		{"count.flac", flac.VorbisComment, le(0, 0xFFFFFFF0)},
		{"comment.flac", flac.VorbisComment, le(0, 3, 0xFFFFFFF0)},
		{"mime.flac", flac.Picture, be(3, 0xFFFFFFF0)},
		{"description.flac", flac.Picture, append(be(3, 9), append([]byte("image/png"), be(0xFFFFFFF0)...)...)},
		{"image.flac", flac.Picture, append(be(3, 0, 0, 2, 2, 32, 0), be(0xFFFFFFF0)...)},
	}

	for _, f := range files {
		t.Run(f.name, func(t *testing.T) {
			path := filepath.Join(dir, f.name)
			require.NoError(t, os.WriteFile(path, fixtures.RawFLAC(f.blockType, f.body), 0644))

			var before, after runtime.MemStats
			runtime.ReadMemStats(&before)
			result := Extract(path, "flac")
			runtime.ReadMemStats(&after)

			assert.True(t, result.IsEmpty())
			assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(8<<20))
		})
	}
}

// TestExtractFLACValidBlocksAfterCheck tests that well-formed blocks still pass the length checks
func TestExtractFLACValidBlocksAfterCheck(t *testing.T) {
	body := binary.LittleEndian.AppendUint32(nil, 0)
	body = binary.LittleEndian.AppendUint32(body, 1)
	body = binary.LittleEndian.AppendUint32(body, uint32(len("ARTIST=X")))
	body = append(body, "ARTIST=X"...)

	path := filepath.Join(t.TempDir(), "raw.flac")
	require.NoError(t, os.WriteFile(path, fixtures.RawFLAC(flac.VorbisComment, body), 0644))

	assertField(t, "X", Extract(path, "flac").Artist)
}

// TestExtractID3v1Fallback tests that files without ID3v2 frames fall back to ID3v1
func TestExtractID3v1Fallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "old.mp3")
	require.NoError(t, os.WriteFile(path, append(make([]byte, 256), id3v1Tag("Title", "Old Artist", "Old Album")...), 0644))

	result := Extract(path, "mp3")

	assertField(t, "Old Artist", result.Artist)
	assertField(t, "Old Album", result.Album)
	assert.Nil(t, result.Cover)
}

// TestExtractUnsupportedExtension tests that other formats are never parsed
func TestExtractUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tagged.wav")
	require.NoError(t, fixtures.WriteMP3(path, fixtures.MP3Tags{Artist: "A"}))

	for _, ext := range []string{"wav", "m4a", "ogg", "aac", "txt", ""} {
		assert.True(t, Extract(path, ext).IsEmpty(), "extension %q", ext)
	}
}

// TestExtractExtensionCasing tests that dispatch ignores case and a leading dot
func TestExtractExtensionCasing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Song.MP3")
	require.NoError(t, fixtures.WriteMP3(path, fixtures.MP3Tags{Artist: "A"}))

	for _, ext := range []string{"MP3", "Mp3", ".mp3"} {
		assertField(t, "A", Extract(path, ext).Artist)
	}
}

// TestExtractMissingFile tests that a missing file yields an empty result
func TestExtractMissingFile(t *testing.T) {
	assert.True(t, Extract("/nonexistent/file.mp3", "mp3").IsEmpty())
	assert.True(t, Extract("/nonexistent/file.flac", "flac").IsEmpty())
}

// TestBase64RoundTrip tests that decoding an encoding returns the original bytes
func TestBase64RoundTrip(t *testing.T) {
	inputs := [][]byte{
		{},
		{0x00},
		{0xff, 0xfe, 0xfd},
		[]byte("hello, world"),
		bytes.Repeat([]byte{0x00, 0x80, 0xff}, 1000),
		fixtures.PNG(),
	}

	for _, input := range inputs {
		encoded := EncodeBase64(input)
		decoded, err := DecodeBase64(encoded)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(input, decoded), "round trip of %d bytes", len(input))
	}

	assert.Equal(t, "", EncodeBase64(nil))
	assert.Equal(t, "aGVsbG8=", EncodeBase64([]byte("hello")))
}

func assertField(t *testing.T, expected string, actual *string) {
	t.Helper()
	if expected == "" {
		assert.Nil(t, actual)
		return
	}
	if assert.NotNil(t, actual) {
		assert.Equal(t, expected, *actual)
	}
}

// id3v1Tag builds a 128-byte ID3v1 trailer
func id3v1Tag(title, artist, album string) []byte {
	field := func(value string, size int) []byte {
		b := make([]byte, size)
		copy(b, value)
		return b
	}

	tag := []byte("TAG")
	tag = append(tag, field(title, 30)...)
	tag = append(tag, field(artist, 30)...)
	tag = append(tag, field(album, 30)...)
	tag = append(tag, field("2024", 4)...)
	tag = append(tag, field("", 30)...)
	tag = append(tag, 0x00) // genre
	return tag
}
