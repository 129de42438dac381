// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source turns raw documents (PDF, scanned images, HTML, text)
// into plain text for the extraction engine.
package source

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdiddy/findoc/pkg/types"
)

// ErrUnsupported is returned by Router for file types it has no source
// for.
var ErrUnsupported = errors.New("unsupported file format")

// Source produces the text of one document.
type Source interface {
	// Kind names the document kind the source handles.
	Kind() types.SourceKind

	// Text reads the document at path and returns its raw text.
	Text(ctx context.Context, path string) (string, error)
}

// extensions maps lower-case file extensions to document kinds.
var extensions = map[string]types.SourceKind{
	".pdf":  types.SourcePDF,
	".png":  types.SourceImage,
	".jpg":  types.SourceImage,
	".jpeg": types.SourceImage,
	".tiff": types.SourceImage,
	".tif":  types.SourceImage,
	".bmp":  types.SourceImage,
	".html": types.SourceHTML,
	".htm":  types.SourceHTML,
	".txt":  types.SourceText,
}

// KindOf returns the document kind for path based on its extension.
func KindOf(path string) (types.SourceKind, bool) {
	k, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return k, ok
}

// Router dispatches each path to the Source registered for its kind.
type Router struct {
	sources map[types.SourceKind]Source
}

// NewRouter registers sources by their Kind. A later source replaces an
// earlier one of the same kind.
func NewRouter(sources ...Source) *Router {
	r := &Router{sources: make(map[types.SourceKind]Source)}
	for _, s := range sources {
		r.sources[s.Kind()] = s
	}
	return r
}

// Supports reports whether path has a registered source.
func (r *Router) Supports(path string) bool {
	k, ok := KindOf(path)
	if !ok {
		return false
	}
	_, ok = r.sources[k]
	return ok
}

// Text returns the cleaned text of path and the kind of source used.
func (r *Router) Text(ctx context.Context, path string) (string, types.SourceKind, error) {
	k, ok := KindOf(path)
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
	s, ok := r.sources[k]
	if !ok {
		return "", k, fmt.Errorf("%w: no %s source configured", ErrUnsupported, k)
	}
	raw, err := s.Text(ctx, path)
	if err != nil {
		return "", k, err
	}
	return Clean(raw), k, nil
}

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`[\t\f\v]+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
)

// Clean collapses noisy whitespace while keeping line breaks, so that
// "Label: value" lines survive intact. Runs of blank lines become one.
func Clean(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	s = strings.Join(lines, "\n")

	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
