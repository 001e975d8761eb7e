// Package upload extracts image files from multipart requests and enforces
// the upload contract: jpeg/png/webp only, a per-file size cap, and a
// per-request file count cap.
//
// Violations surface as a closed set of sentinel errors so callers match
// by kind:
//
//	if errors.Is(err, upload.ErrFileTooLarge) { ... }
//
// Every sentinel is wrapped in a Validation apperr, so unmatched callers
// still map it to HTTP 400.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/andrianfauzi/warungku/config"
	"github.com/andrianfauzi/warungku/pkg/apperr"
)

var (
	// ErrFileTooLarge — a single file exceeds the configured size cap.
	ErrFileTooLarge = errors.New("upload: file too large")
	// ErrTooManyFiles — the request carries more files than allowed.
	ErrTooManyFiles = errors.New("upload: too many files")
	// ErrUnsupportedType — the file is not jpeg, png, or webp.
	ErrUnsupportedType = errors.New("upload: unsupported content type")
)

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// File is one uploaded image, fully read into memory. Files are small by
// contract (≤1.2 MB), so buffering keeps the asset-store write retryable.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Ext returns the canonical file extension for the detected content type.
func (f File) Ext() string {
	if ext, ok := allowedTypes[f.ContentType]; ok {
		return ext
	}
	return path.Ext(f.Name)
}

// Images reads every file under the given multipart field. A request with
// no files returns an empty slice and no error — images are optional.
func Images(r *http.Request, field string) ([]File, error) {
	maxBytes := config.UploadMaxBytes()
	maxFiles := config.UploadMaxFiles()

	// Cap the whole form at count*size plus slack for the text fields.
	if r.MultipartForm == nil {
		if err := r.ParseMultipartForm(int64(maxFiles)*maxBytes + (1 << 20)); err != nil {
			return nil, apperr.Wrap(apperr.Validation, "File upload error.", err)
		}
	}

	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, nil
	}
	if len(headers) > maxFiles {
		return nil, apperr.Wrap(apperr.Validation,
			fmt.Sprintf("Too many files uploaded. Max limit is %d files.", maxFiles),
			ErrTooManyFiles)
	}

	files := make([]File, 0, len(headers))
	for _, h := range headers {
		f, err := readOne(h, maxBytes)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func readOne(h *multipart.FileHeader, maxBytes int64) (File, error) {
	if h.Size > maxBytes {
		return File{}, apperr.Wrap(apperr.Validation,
			fmt.Sprintf("File size exceeds the %.1fMB limit.", float64(maxBytes)/(1024*1024)),
			ErrFileTooLarge)
	}

	src, err := h.Open()
	if err != nil {
		return File{}, apperr.Wrap(apperr.Validation, "File upload error.", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxBytes+1))
	if err != nil {
		return File{}, apperr.Wrap(apperr.Validation, "File upload error.", err)
	}
	if int64(len(data)) > maxBytes {
		return File{}, apperr.Wrap(apperr.Validation,
			fmt.Sprintf("File size exceeds the %.1fMB limit.", float64(maxBytes)/(1024*1024)),
			ErrFileTooLarge)
	}

	contentType := contentTypeOf(h, data)
	if _, ok := allowedTypes[contentType]; !ok {
		return File{}, apperr.Wrap(apperr.Validation,
			"Only .jpeg, .png, and .webp formats are allowed!",
			ErrUnsupportedType)
	}

	return File{Name: h.Filename, ContentType: contentType, Data: data}, nil
}

// contentTypeOf prefers the sniffed type over the client-declared header.
func contentTypeOf(h *multipart.FileHeader, data []byte) string {
	sniffed := http.DetectContentType(data)
	if _, ok := allowedTypes[sniffed]; ok {
		return sniffed
	}
	declared, _, _ := strings.Cut(h.Header.Get("Content-Type"), ";")
	return strings.TrimSpace(declared)
}
