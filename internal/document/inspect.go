// Package document extracts display metadata from uploaded files.
package document

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

const pdfMagic = "%PDF-"

// Info is what the file card shows about an upload.
type Info struct {
	IsPDF bool
	Pages int // 0 when the page tree could not be read
}

// Inspect sniffs the bytes and counts pages of a PDF. It never rejects a file:
// anything can be submitted, the info is for display only.
func Inspect(data []byte) (info Info, err error) {
	if !IsPDF(data) {
		return Info{}, nil
	}
	info.IsPDF = true

	// The parser panics on some truncated files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return info, fmt.Errorf("read pdf: %w", err)
	}
	info.Pages = r.NumPage()

	return info, nil
}

// IsPDF reports whether data starts with the PDF header.
func IsPDF(data []byte) bool {
	return len(data) >= len(pdfMagic) && string(data[:len(pdfMagic)]) == pdfMagic
}

// LooksLikePDF is the file picker hint: a .pdf extension or a PDF MIME type.
func LooksLikePDF(name, mimeType string) bool {
	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(mimeType), "application/pdf")
}
