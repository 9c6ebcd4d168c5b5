package filestorage

import (
	"io"
	"mime/multipart"
)

// FileStorage stores uploaded attachments under relative paths such as
// "research/documents/<uuid>-report.pdf". The relative path is what records
// keep; URL turns it into something a client can fetch.
type FileStorage interface {
	// Save writes r under dir and returns the relative path.
	Save(dir, originalName string, r io.Reader) (string, error)

	// SaveFileWithPath saves an uploaded multipart file under dir.
	SaveFileWithPath(fileHeader *multipart.FileHeader, dir string) (string, error)

	// DeleteFile removes a stored file. Missing files are not an error.
	DeleteFile(path string) error

	// Exists reports whether path refers to a stored file.
	Exists(path string) bool

	// URL returns the public URL of path.
	URL(path string) string
}
