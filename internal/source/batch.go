// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
)

const (
	rawDir  = "raw"
	textDir = "text"
)

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted   int
	Skipped     int
	Unsupported int
	Failed      int
}

// Total returns the total number of documents processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Unsupported + r.Failed
}

// HasFailures reports whether any documents failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Key derives a document key from a file name: the base name without its
// extension, lower-cased, with runs of other characters replaced by "-".
func Key(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(base) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// ConvertAll converts every file in dataDir/raw/ into dataDir/text/<key>.txt.
// Files whose text already exists are skipped unless force is set. Per-file
// status lines go to w.
func ConvertAll(ctx context.Context, r *Router, dataDir string, force bool, w io.Writer, log zerolog.Logger) (BatchResult, error) {
	inDir := filepath.Join(dataDir, rawDir)
	outDir := filepath.Join(dataDir, textDir)

	entries, err := os.ReadDir(inDir)
	if err != nil {
		return BatchResult{}, fmt.Errorf("reading raw directory %s: %w", inDir, err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return BatchResult{}, fmt.Errorf("creating text directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var result BatchResult
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		inPath := filepath.Join(inDir, name)
		key := Key(name)
		outPath := filepath.Join(outDir, key+".txt")

		if !r.Supports(inPath) {
			fmt.Fprintf(w, "unsupported: %s\n", name)
			result.Unsupported++
			continue
		}

		if _, err := os.Stat(outPath); err == nil && !force {
			fmt.Fprintf(w, "skipped: %s (already exists)\n", key)
			result.Skipped++
			continue
		}

		text, kind, err := r.Text(ctx, inPath)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
			log.Warn().Str("file", name).Err(err).Msg("conversion failed")
			result.Failed++
			continue
		}

		if err := os.WriteFile(outPath, []byte(text+"\n"), 0o644); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
			result.Failed++
			continue
		}

		log.Debug().Str("file", name).Str("kind", string(kind)).Int("chars", len([]rune(text))).Msg("converted")
		if text == "" {
			fmt.Fprintf(w, "converted: %s (%s, no text found)\n", key, kind)
		} else {
			fmt.Fprintf(w, "converted: %s (%s)\n", key, kind)
		}
		result.Converted++
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d unsupported, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Unsupported, result.Failed, result.Total())
	return result, nil
}
