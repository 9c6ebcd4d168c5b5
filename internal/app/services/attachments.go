package services

import (
	"mime/multipart"
	"sort"

	"github.com/rs/zerolog"
	"github.com/yigit/researchdesk/internal/app/models/dto"
	"github.com/yigit/researchdesk/internal/pkg/filestorage"
	"github.com/yigit/researchdesk/internal/pkg/metrics"
)

// Attachment directories under the storage root.
const (
	ResearchDocumentsDir    = "research/documents"
	PublicationDocumentsDir = "publications/documents"
	MemberPhotoDir          = "members/picture"
	UtilizationFilesDir     = "utilizations/files"
)

// fileSlots points each attachment column at the record field holding its
// stored path.
type fileSlots map[string]**string

// paths lists the stored paths of every slot that holds one.
func (s fileSlots) paths() []string {
	var out []string
	for _, column := range s.columns() {
		if p := *s[column]; p != nil && *p != "" {
			out = append(out, *p)
		}
	}
	return out
}

func (s fileSlots) columns() []string {
	cols := make([]string, 0, len(s))
	for c := range s {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// attachments stores the uploads of one record kind.
//
// A replacement is written under a fresh name before the record changes.
// Once the record is saved the replaced file is removed; when saving fails
// the fresh file is removed instead. Removal failures only leave an orphan
// behind, so they are logged and counted rather than returned.
type attachments struct {
	storage filestorage.FileStorage
	dir     string
	photo   bool
	logger  zerolog.Logger
}

func newAttachments(storage filestorage.FileStorage, dir string, logger zerolog.Logger) *attachments {
	return &attachments{storage: storage, dir: dir, logger: logger}
}

// photos makes every stored file an oriented, bounded image.
func (a *attachments) photos() *attachments {
	a.photo = true
	return a
}

// stage writes each upload that has a slot and points the slot at the new
// path. It returns the new paths and the paths they replace.
func (a *attachments) stage(uploads dto.Uploads, slots fileSlots) (staged, replaced []string, err error) {
	for _, column := range slots.columns() {
		fh, ok := uploads[column]
		if !ok || fh == nil {
			continue
		}
		path, err := a.save(fh)
		if err != nil {
			a.discard(staged...)
			return nil, nil, err
		}
		staged = append(staged, path)

		slot := slots[column]
		if *slot != nil && **slot != "" {
			replaced = append(replaced, **slot)
		}
		*slot = &path
	}
	return staged, replaced, nil
}

// settle finishes a staged write. err is the outcome of saving the record.
func (a *attachments) settle(err error, staged, replaced []string) error {
	if err != nil {
		a.discard(staged...)
		return err
	}
	a.discard(replaced...)
	return nil
}

// discard removes files no record points at.
func (a *attachments) discard(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := a.storage.DeleteFile(p); err != nil {
			metrics.AttachmentCleanupFailures.WithLabelValues(a.dir).Inc()
			a.logger.Warn().Err(err).Str("path", p).Msg("Failed to remove attachment, leaving orphan")
		}
	}
}

func (a *attachments) save(fh *multipart.FileHeader) (string, error) {
	if !a.photo {
		return a.storage.SaveFileWithPath(fh, a.dir)
	}

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	img, err := filestorage.NormalizeImage(f, fh.Filename, filestorage.MaxPhotoSide)
	if err != nil {
		a.logger.Warn().Err(err).Str("filename", fh.Filename).Msg("Could not normalize photo, storing it as uploaded")
		return a.storage.SaveFileWithPath(fh, a.dir)
	}
	return a.storage.Save(a.dir, fh.Filename, img)
}
