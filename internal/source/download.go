// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pdiddy/findoc/internal/httputil"
	"github.com/pdiddy/findoc/pkg/types"
)

// contentTypes maps response media types to file extensions for URLs
// whose path carries none.
var contentTypes = map[string]string{
	"application/pdf": ".pdf",
	"text/html":       ".html",
	"text/plain":      ".txt",
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/tiff":      ".tiff",
	"image/bmp":       ".bmp",
}

// Download fetches rawURL into dataDir/raw/ and returns the written path.
// 429 and 503 responses are retried. An existing file with the same name
// is replaced.
func Download(ctx context.Context, client *http.Client, cfg types.HTTPConfig, rawURL, dataDir string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("invalid document URL %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, cfg.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("fetching %s: HTTP %d", rawURL, resp.StatusCode)
	}

	name := fileName(u, resp.Header.Get("Content-Type"))
	if _, ok := KindOf(name); !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, name)
	}

	dir := filepath.Join(dataDir, rawDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating raw directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}

	dest := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("saving %s: %w", name, err)
	}
	return dest, nil
}

// fileName picks a local name from the URL path, adding an extension
// from the content type when the path has none.
func fileName(u *url.URL, contentType string) string {
	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		base = "document"
	}
	if path.Ext(base) != "" {
		return base
	}
	media, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return base
	}
	if ext, ok := contentTypes[strings.ToLower(media)]; ok {
		return base + ext
	}
	return base
}
