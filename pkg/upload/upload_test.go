package upload_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrianfauzi/warungku/pkg/apperr"
	"github.com/andrianfauzi/warungku/pkg/upload"
)

// pngBytes returns a payload that sniffs as image/png.
func pngBytes(size int) []byte {
	data := make([]byte, size)
	copy(data, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'})
	return data
}

func multipartRequest(t *testing.T, files map[string][]byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, data := range files {
		part, err := w.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/master-menu/menu", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestImagesAcceptsPNG(t *testing.T) {
	req := multipartRequest(t, map[string][]byte{"sate.png": pngBytes(1024)})

	files, err := upload.Images(req, "images")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "image/png", files[0].ContentType)
	assert.Equal(t, ".png", files[0].Ext())
}

func TestImagesOptional(t *testing.T) {
	req := multipartRequest(t, nil)

	files, err := upload.Images(req, "images")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestImagesRejectsUnsupportedType(t *testing.T) {
	req := multipartRequest(t, map[string][]byte{"menu.pdf": []byte("%PDF-1.4 not an image")})

	_, err := upload.Images(req, "images")
	require.Error(t, err)
	assert.ErrorIs(t, err, upload.ErrUnsupportedType)
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestImagesRejectsOversizedFile(t *testing.T) {
	// Above the 1.2 MB default cap.
	req := multipartRequest(t, map[string][]byte{"big.png": pngBytes(2 << 20)})

	_, err := upload.Images(req, "images")
	require.Error(t, err)
	assert.ErrorIs(t, err, upload.ErrFileTooLarge)
}

func TestImagesRejectsTooManyFiles(t *testing.T) {
	files := map[string][]byte{}
	for _, name := range []string{"a.png", "b.png", "c.png", "d.png", "e.png", "f.png"} {
		files[name] = pngBytes(128)
	}
	req := multipartRequest(t, files)

	_, err := upload.Images(req, "images")
	require.Error(t, err)
	assert.ErrorIs(t, err, upload.ErrTooManyFiles)
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}
