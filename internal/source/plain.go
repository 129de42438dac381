// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/pdiddy/findoc/pkg/types"
)

// PlainSource reads UTF-8 text files as-is.
type PlainSource struct{}

func (PlainSource) Kind() types.SourceKind { return types.SourceText }

func (PlainSource) Text(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("reading %s: not valid UTF-8", path)
	}
	return string(data), nil
}
