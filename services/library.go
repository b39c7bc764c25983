package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"harmonic/metadata"
	"harmonic/types"

	log "github.com/sirupsen/logrus"
)

// Request-level errors returned by LibraryService
var (
	ErrDirectoryNotFound = errors.New("directory does not exist")
	ErrNotADirectory     = errors.New("path is not a directory")
	ErrFileNotFound      = errors.New("file does not exist")
	ErrOutsideLibrary    = errors.New("path resolves outside the library")
)

// IsNotFound reports whether err means a requested path does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDirectoryNotFound) || errors.Is(err, ErrFileNotFound)
}

// Progress receives scan progress. *progressbar.ProgressBar satisfies it.
type Progress interface {
	ChangeMax(newMax int)
	Add(num int) error
}

// LibraryService interface defines methods for browsing audio files
type LibraryService interface {
	ListAudioFiles(dirPath string) ([]types.AudioFile, error)
	ListAudioFilesWithProgress(dirPath string, progress Progress) ([]types.AudioFile, error)
	ReadFileMetadata(filePath string) (types.AudioFile, error)
	ReadFileAsBase64(filePath string) (string, error)
}

// libraryService implements the LibraryService interface
type libraryService struct {
	extractor metadata.Extractor
}

// NewLibraryService creates a new library service. A nil extractor uses the default tag reader.
func NewLibraryService(extractor metadata.Extractor) LibraryService {
	if extractor == nil {
		extractor = metadata.NewExtractor()
	}
	return &libraryService{extractor: extractor}
}

// ListAudioFiles lists the supported audio files directly inside dirPath
func (ls *libraryService) ListAudioFiles(dirPath string) ([]types.AudioFile, error) {
	return ls.ListAudioFilesWithProgress(dirPath, nil)
}

// ListAudioFilesWithProgress is ListAudioFiles reporting one step per directory entry
func (ls *libraryService) ListAudioFilesWithProgress(dirPath string, progress Progress) ([]types.AudioFile, error) {
	info, err := os.Stat(dirPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrDirectoryNotFound
		}
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, ErrNotADirectory
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	if progress != nil {
		progress.ChangeMax(len(entries))
	}

	audioFiles := []types.AudioFile{}
	for _, entry := range entries {
		if audioFile, ok := ls.processEntry(dirPath, entry); ok {
			audioFiles = append(audioFiles, audioFile)
		}
		if progress != nil {
			_ = progress.Add(1)
		}
	}

	return audioFiles, nil
}

// processEntry builds a record for one directory entry, or reports false for
// subdirectories, unsupported formats and entries that can no longer be read.
func (ls *libraryService) processEntry(dirPath string, entry os.DirEntry) (types.AudioFile, bool) {
	extension := FileExtension(entry.Name())
	if !IsSupportedFormat(extension) {
		return types.AudioFile{}, false
	}

	filePath := filepath.Join(dirPath, entry.Name())

	// Stat follows symlinks, DirEntry.Info does not
	info, err := os.Stat(filePath)
	if err != nil {
		log.Warnf("Skipping %s: %v", filePath, err)
		return types.AudioFile{}, false
	}
	if !info.Mode().IsRegular() {
		return types.AudioFile{}, false
	}

	return ls.buildRecord(filePath, info.Size(), extension), true
}

// ReadFileMetadata reads size, name, extension and tag metadata of one file
func (ls *libraryService) ReadFileMetadata(filePath string) (types.AudioFile, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return types.AudioFile{}, ErrFileNotFound
		}
		return types.AudioFile{}, fmt.Errorf("failed to access file: %w", err)
	}

	return ls.buildRecord(filePath, info.Size(), FileExtension(filePath)), nil
}

// ReadFileAsBase64 returns the whole file content as standard base64
func (ls *libraryService) ReadFileAsBase64(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrFileNotFound
		}
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	return metadata.EncodeBase64(data), nil
}

func (ls *libraryService) buildRecord(filePath string, size int64, extension string) types.AudioFile {
	tags := ls.extractor.Extract(filePath, extension)

	return types.AudioFile{
		Path:      filePath,
		Name:      FileStem(filePath),
		Size:      size,
		Extension: extension,
		Cover:     tags.Cover,
		Artist:    tags.Artist,
		Album:     tags.Album,
		Lyrics:    tags.Lyrics,
	}
}

// FileExtension returns the lowercase extension of path without the dot
func FileExtension(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// FileStem returns the base name of path without its last extension
func FileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsSupportedFormat checks whether a lowercase extension is a browsable audio format
func IsSupportedFormat(extension string) bool {
	return slices.Contains(types.SupportedExtensions, extension)
}

// GetContentType returns the appropriate MIME type for an audio file
func GetContentType(filePath string) string {
	switch FileExtension(filePath) {
	case "mp3":
		return "audio/mpeg"
	case "wav":
		return "audio/wav"
	case "flac":
		return "audio/flac"
	case "m4a":
		return "audio/mp4"
	case "ogg":
		return "audio/ogg"
	case "aac":
		return "audio/aac"
	default:
		return "application/octet-stream"
	}
}

// ValidateFilePath checks a library-relative path for traversal attempts
func ValidateFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty path not allowed")
	}

	if strings.HasPrefix(path, "/") || filepath.IsAbs(path) {
		return fmt.Errorf("absolute paths not allowed")
	}

	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return fmt.Errorf("path traversal not allowed")
		}
	}

	return nil
}

// ResolveLibraryPath resolves a library-relative path to a real file path,
// following symlinks, and rejects results that leave the library root.
func ResolveLibraryPath(root, relPath string) (string, error) {
	if err := ValidateFilePath(relPath); err != nil {
		return "", err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve library: %w", err)
	}
	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrDirectoryNotFound
		}
		return "", fmt.Errorf("failed to resolve library: %w", err)
	}

	realPath, err := filepath.EvalSymlinks(filepath.Join(realRoot, relPath))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrFileNotFound
		}
		return "", fmt.Errorf("failed to resolve file: %w", err)
	}

	inside, err := filepath.Rel(realRoot, realPath)
	if err != nil || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return "", ErrOutsideLibrary
	}
	return realPath, nil
}
