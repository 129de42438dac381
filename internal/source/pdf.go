// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/findoc/pkg/types"
)

// PDFSource reads the text layer of a PDF row by row. Scanned PDFs
// without a text layer yield empty text.
type PDFSource struct {
	// MaxPages limits how many pages are read. Zero reads all pages.
	MaxPages int
}

func (PDFSource) Kind() types.SourceKind { return types.SourcePDF }

// Text returns the pages of the PDF separated by blank lines.
func (p PDFSource) Text(ctx context.Context, path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	n := r.NumPage()
	if p.MaxPages > 0 && p.MaxPages < n {
		n = p.MaxPages
	}

	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("reading page %d of %s: %w", i, path, err)
		}

		var b strings.Builder
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, w := range row.Content {
				words = append(words, w.S)
			}
			b.WriteString(strings.Join(words, " "))
			b.WriteString("\n")
		}
		if text := strings.TrimSpace(b.String()); text != "" {
			pages = append(pages, text)
		}
	}

	return strings.Join(pages, "\n\n"), nil
}
