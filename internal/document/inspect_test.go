package document

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildPDF writes a minimal PDF with the given number of empty pages.
func buildPDF(pages int) []byte {
	var buf bytes.Buffer
	var offsets []int

	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	obj("<< /Type /Catalog /Pages 2 0 R >>")

	kids := make([]string, pages)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", i+3)
	}
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages))
	for i := 0; i < pages; i++ {
		obj("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	return buf.Bytes()
}

func TestInspectCountsPages(t *testing.T) {
	info, err := Inspect(buildPDF(3))
	require.NoError(t, err)
	require.True(t, info.IsPDF)
	require.Equal(t, 3, info.Pages)
}

func TestInspectNonPDF(t *testing.T) {
	info, err := Inspect([]byte("just some notes"))
	require.NoError(t, err)
	require.False(t, info.IsPDF)
	require.Zero(t, info.Pages)
}

func TestInspectBrokenPDF(t *testing.T) {
	info, err := Inspect([]byte("%PDF-1.7 truncated"))
	require.Error(t, err)
	require.True(t, info.IsPDF)
	require.Zero(t, info.Pages)
}

func TestLooksLikePDF(t *testing.T) {
	require.True(t, LooksLikePDF("Lecture.PDF", ""))
	require.True(t, LooksLikePDF("scan", "application/pdf"))
	require.False(t, LooksLikePDF("notes.txt", "text/plain"))
}
