package filestorage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorage(t *testing.T) *LocalStorage {
	t.Helper()
	ls, err := NewLocalStorage(t.TempDir(), "/storage/")
	require.NoError(t, err)
	return ls
}

func TestSaveAndDelete(t *testing.T) {
	ls := newStorage(t)

	path, err := ls.Save("research/documents", "Special Order #12.PDF", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, "research/documents/"))
	assert.True(t, strings.HasSuffix(path, "-Special_Order_12.pdf"))
	assert.True(t, ls.Exists(path))
	assert.Equal(t, "/storage/"+path, ls.URL(path))

	content, err := os.ReadFile(filepath.Join(ls.BasePath(), filepath.FromSlash(path)))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(content))

	require.NoError(t, ls.DeleteFile(path))
	assert.False(t, ls.Exists(path))

	// Deleting twice is fine.
	assert.NoError(t, ls.DeleteFile(path))
	assert.NoError(t, ls.DeleteFile(""))
}

func TestSameOriginalNameDoesNotCollide(t *testing.T) {
	ls := newStorage(t)

	first, err := ls.Save("members/picture", "me.png", strings.NewReader("a"))
	require.NoError(t, err)
	second, err := ls.Save("members/picture", "me.png", strings.NewReader("b"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	require.NoError(t, ls.DeleteFile(first))
	assert.True(t, ls.Exists(second))
}

func TestPathTraversalIsRejected(t *testing.T) {
	ls := newStorage(t)

	_, err := ls.Save("../outside", "x.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidPath)
	assert.ErrorIs(t, ls.DeleteFile("../../etc/passwd"), ErrInvalidPath)
	assert.ErrorIs(t, ls.DeleteFile("."), ErrInvalidPath)
	assert.False(t, ls.Exists("../config.yaml"))
}

func TestUniqueName(t *testing.T) {
	assert.Regexp(t, `^[0-9a-f-]{36}\.pdf$`, UniqueName("../../.pdf"))
	assert.Regexp(t, `^[0-9a-f-]{36}-terminal_report\.docx$`, UniqueName("terminal report.DOCX"))
}

func TestNormalizeImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1024, 256))
	for x := 0; x < 1024; x++ {
		src.Set(x, 10, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	out, err := NormalizeImage(&buf, "photo.png", MaxPhotoSide)
	require.NoError(t, err)

	decoded, err := png.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, 512, decoded.Bounds().Dx())
	assert.Equal(t, 128, decoded.Bounds().Dy())

	_, err = NormalizeImage(strings.NewReader("not an image"), "photo.png", MaxPhotoSide)
	assert.Error(t, err)
}
