// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/findoc/internal/container"
	"github.com/pdiddy/findoc/pkg/types"
)

const (
	// DefaultOCRImage runs tesseract 4 with its English data.
	DefaultOCRImage = "tesseractshadow/tesseract4re"

	defaultOCRLanguage = "eng"
)

// OCRSource recognizes text in scanned images by piping them through a
// tesseract container.
type OCRSource struct {
	runtime  container.Runtime
	image    string
	language string
	log      zerolog.Logger
}

// NewOCRSource verifies that the tesseract image is present in rt and
// returns a source that uses it.
func NewOCRSource(ctx context.Context, rt container.Runtime, cfg types.SourceConfig, log zerolog.Logger) (*OCRSource, error) {
	image := cfg.OCRImage
	if image == "" {
		image = DefaultOCRImage
	}
	lang := cfg.OCRLanguage
	if lang == "" {
		lang = defaultOCRLanguage
	}
	if err := rt.ImageExists(ctx, image); err != nil {
		return nil, fmt.Errorf("OCR image not available in %s: %w", rt.Name(), err)
	}
	return &OCRSource{runtime: rt, image: image, language: lang, log: log}, nil
}

func (*OCRSource) Kind() types.SourceKind { return types.SourceImage }

// Text runs tesseract on the image at path and returns the recognized
// text.
func (o *OCRSource) Text(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening image %s: %w", path, err)
	}
	defer f.Close()

	start := time.Now()
	args := []string{"tesseract", "stdin", "stdout", "-l", o.language}

	var out bytes.Buffer
	if err := o.runtime.Run(ctx, o.image, args, f, &out); err != nil {
		return "", fmt.Errorf("recognizing %s: %w", path, err)
	}

	o.log.Debug().
		Str("path", path).
		Str("runtime", o.runtime.Name()).
		Int("bytes", out.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("ocr complete")

	return out.String(), nil
}
