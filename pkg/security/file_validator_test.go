package security

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePDF = "%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n"

func TestValidatePDF(t *testing.T) {
	t.Run("Should accept a PDF and preserve its bytes", func(t *testing.T) {
		body, res, err := ValidatePDF("cv.PDF", strings.NewReader(samplePDF), 0)
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", res.DetectedMIME)

		got, err := io.ReadAll(body)
		require.NoError(t, err)
		assert.Equal(t, samplePDF, string(got))
	})

	t.Run("Should reject other extensions", func(t *testing.T) {
		_, _, err := ValidatePDF("cv.docx", strings.NewReader(samplePDF), 0)
		assert.ErrorIs(t, err, ErrExtension)
	})

	t.Run("Should reject spoofed content", func(t *testing.T) {
		_, _, err := ValidatePDF("cv.pdf", strings.NewReader("PK\x03\x04 not a pdf"), 0)
		assert.ErrorIs(t, err, ErrContentMismatch)
	})

	t.Run("Should reject empty files", func(t *testing.T) {
		_, _, err := ValidatePDF("cv.pdf", bytes.NewReader(nil), 0)
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("Should fail reads past the size limit", func(t *testing.T) {
		big := samplePDF + strings.Repeat("x", 4096)
		body, _, err := ValidatePDF("cv.pdf", strings.NewReader(big), 1024)
		require.NoError(t, err)
		_, err = io.ReadAll(body)
		assert.ErrorIs(t, err, ErrFileTooLarge)
	})
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(4)
	digest, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.True(t, h.Compare("correct horse", digest))
	assert.False(t, h.Compare("wrong horse", digest))
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "j***@example.com", MaskEmail("jane@example.com"))
	assert.Equal(t, "***", MaskEmail("a"))
}
