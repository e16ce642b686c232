package security

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file exceeds the maximum allowed size")
	ErrExtension       = errors.New("file extension not allowed")
	ErrContentMismatch = errors.New("file content does not match an allowed type")
)

// pdfMagic is "%PDF"
var pdfMagic = []byte{0x25, 0x50, 0x44, 0x46}

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Extension    string
	DetectedMIME string
}

// ValidatePDF checks extension, magic bytes and sniffed MIME type, and returns
// a reader positioned at the start of the content.
func ValidatePDF(filename string, r io.Reader, maxBytes int64) (io.Reader, FileValidationResult, error) {
	result := FileValidationResult{Extension: strings.ToLower(filepath.Ext(filename))}
	if result.Extension != ".pdf" {
		return nil, result, ErrExtension
	}

	head := make([]byte, 3072)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, result, err
	}
	head = head[:n]
	if n == 0 {
		return nil, result, ErrEmptyFile
	}
	if !bytes.HasPrefix(head, pdfMagic) {
		return nil, result, ErrContentMismatch
	}

	mtype := mimetype.Detect(head)
	result.DetectedMIME = mtype.String()
	if !mtype.Is("application/pdf") {
		return nil, result, ErrContentMismatch
	}

	body := io.MultiReader(bytes.NewReader(head), r)
	if maxBytes > 0 {
		body = &limitedReader{r: body, remaining: maxBytes}
	}
	return body, result, nil
}

// limitedReader fails instead of truncating once the limit is crossed.
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, ErrFileTooLarge
	}
	return n, err
}
