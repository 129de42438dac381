// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"os"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/findoc/pkg/types"
)

// blockSelector lists elements that end a line of text.
const blockSelector = "p, div, li, tr, h1, h2, h3, h4, h5, h6, table, section, article, dt, dd"

// HTMLSource extracts visible body text from saved HTML reports.
type HTMLSource struct{}

func (HTMLSource) Kind() types.SourceKind { return types.SourceHTML }

// Text parses the HTML at path. Scripts, styles, and the head are
// dropped; block elements end with a newline and table cells are
// separated by a space so "Label: value" rows stay on one line.
func (HTMLSource) Text(_ context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening HTML %s: %w", path, err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return "", fmt.Errorf("parsing HTML %s: %w", path, err)
	}

	doc.Find("head, script, style, noscript, template").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("td, th").AppendHtml(" ")
	doc.Find(blockSelector).AppendHtml("\n")

	body := doc.Find("body")
	if body.Length() == 0 {
		return doc.Text(), nil
	}
	return body.Text(), nil
}
