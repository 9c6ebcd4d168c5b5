package validation

import (
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/yigit/researchdesk/internal/pkg/apperrors"
)

// FileRule constrains one upload field. Types are checked against the
// sniffed content, not the client supplied name or header.
type FileRule struct {
	MaxBytes int64
	// MIMEs are the accepted content types; empty accepts any type.
	MIMEs []string
	// Extensions are shown in the error message.
	Extensions []string
	Image      bool
}

var (
	// DocumentRule covers special orders, terminal reports and publication files.
	DocumentRule = FileRule{
		MaxBytes: 10 << 20,
		MIMEs: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
		Extensions: []string{"pdf", "doc", "docx"},
	}

	// PhotoRule covers member profile photos. Only formats the photo
	// normaliser can decode are accepted.
	PhotoRule = FileRule{
		MaxBytes:   2 << 20,
		MIMEs:      []string{"image/jpeg", "image/png", "image/gif", "image/bmp"},
		Extensions: []string{"jpg", "jpeg", "png", "gif", "bmp"},
		Image:      true,
	}

	// CertificateRule covers utilization certificates: any type up to 50000 KB.
	CertificateRule = FileRule{MaxBytes: 50000 << 10}
)

// Check validates fh against the rule. A nil header passes: uploads are
// always optional.
func (r FileRule) Check(field string, fh *multipart.FileHeader) *apperrors.ValidationError {
	if fh == nil {
		return nil
	}
	name := Label(field)

	if r.MaxBytes > 0 && fh.Size > r.MaxBytes {
		return apperrors.FieldError(field, fmt.Sprintf("The %s may not be greater than %d kilobytes.", name, r.MaxBytes>>10))
	}
	if len(r.MIMEs) == 0 {
		return nil
	}

	f, err := fh.Open()
	if err != nil {
		return apperrors.FieldError(field, fmt.Sprintf("The %s failed to upload.", name))
	}
	defer f.Close()

	detected, err := mimetype.DetectReader(f)
	if err != nil {
		return apperrors.FieldError(field, fmt.Sprintf("The %s failed to upload.", name))
	}
	for _, m := range r.MIMEs {
		if detected.Is(m) {
			return nil
		}
	}

	if r.Image {
		return apperrors.FieldError(field, fmt.Sprintf("The %s must be an image.", name))
	}
	return apperrors.FieldError(field, fmt.Sprintf("The %s must be a file of type: %s.", name, strings.Join(r.Extensions, ", ")))
}
