package filestorage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/researchdesk/internal/pkg/logger"
)

// ErrInvalidPath is returned for paths that would escape the storage root.
var ErrInvalidPath = errors.New("invalid storage path")

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates a new LocalStorage rooted at basePath. Files are
// served by the router under baseURL.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// BasePath is the storage root on disk.
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// SaveFileWithPath saves a file to a specified subdirectory
func (ls *LocalStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, dir string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	return ls.Save(dir, fileHeader.Filename, file)
}

// Save writes r to dir under a collision-free name that keeps a sanitised
// copy of the original file name.
func (ls *LocalStorage) Save(dir, originalName string, r io.Reader) (string, error) {
	fullDirPath, err := ls.resolve(dir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(fullDirPath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", fullDirPath).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	uniqueFilename := UniqueName(originalName)
	dstPath := filepath.Join(fullDirPath, uniqueFilename)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}

	if _, err = io.Copy(dst, r); err != nil {
		dst.Close()
		_ = os.Remove(dstPath)
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		return "", fmt.Errorf("failed to save file content: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to flush file content: %w", err)
	}

	relative := filepath.ToSlash(filepath.Join(dir, uniqueFilename))
	logger.Info().Str("filename", originalName).Str("path", relative).Msg("File saved successfully")
	return relative, nil
}

// DeleteFile removes a file from the storage filesystem.
// Returns nil if deletion is successful or if the file doesn't exist.
func (ls *LocalStorage) DeleteFile(path string) error {
	if path == "" {
		return nil
	}

	physicalPath, err := ls.resolve(path)
	if err != nil {
		return err
	}
	if physicalPath == filepath.Clean(ls.basePath) {
		return fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}

	if err := os.Remove(physicalPath); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// Exists reports whether path names a regular stored file.
func (ls *LocalStorage) Exists(path string) bool {
	physicalPath, err := ls.resolve(path)
	if err != nil || path == "" {
		return false
	}
	info, err := os.Stat(physicalPath)
	return err == nil && info.Mode().IsRegular()
}

// URL returns the public URL of a stored path.
func (ls *LocalStorage) URL(path string) string {
	if path == "" {
		return ""
	}
	return ls.baseURL + "/" + strings.TrimLeft(filepath.ToSlash(path), "/")
}

// resolve maps a relative storage path to disk, refusing anything that
// would land outside the storage root.
func (ls *LocalStorage) resolve(path string) (string, error) {
	root := filepath.Clean(ls.basePath)
	full := filepath.Join(root, filepath.FromSlash(path))
	if full != root && !strings.HasPrefix(full, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}
	return full, nil
}

// UniqueName prefixes a sanitised original name with a UUID.
func UniqueName(originalName string) string {
	base := filepath.Base(filepath.FromSlash(originalName))
	ext := strings.ToLower(filepath.Ext(base))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.Trim(unsafeNameChars.ReplaceAllString(stem, "_"), "._")
	if len(stem) > 80 {
		stem = stem[:80]
	}
	if stem == "" {
		return uuid.NewString() + ext
	}
	return uuid.NewString() + "-" + stem + ext
}
