// Package pdftext extracts the plain text of an OMD memo PDF, page by page,
// so the scanner can work on newline-delimited lines. It is a thin adapter;
// no memo-specific knowledge lives here.
package pdftext

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractFile reads a PDF from disk and returns its text with pages joined by
// newlines.
func ExtractFile(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("cannot open pdf %q: %w", path, err)
	}
	defer f.Close()
	return extract(r)
}

func extract(r *pdf.Reader) (string, error) {
	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("cannot read text of page %d: %w", i, err)
		}
		// preserve the visual rows: one output line per text row, words
		// joined by a single space, so table rows stay on one line.
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				if s := strings.TrimSpace(word.S); s != "" {
					words = append(words, s)
				}
			}
			if len(words) > 0 {
				b.WriteString(strings.Join(words, " "))
				b.WriteByte('\n')
			}
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}
