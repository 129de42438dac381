// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/findoc/internal/container"
	"github.com/pdiddy/findoc/internal/source"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert PDF, HTML, and scanned reports to plain text",
	Long: `Convert reads report files and prints their cleaned text. With --batch it
converts every file in raw/ into text/<key>.txt for the extract stage.

PDFs are read from their text layer and HTML from its body. Scanned images
go through tesseract in a docker or podman container; when no runtime or
image is available, images are reported as unsupported.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().Bool("batch", false, "convert all files in raw/")
	convertCmd.Flags().Bool("force", false, "re-convert files whose text already exists")
	convertCmd.Flags().String("runtime", "", "container runtime for OCR: docker, podman, or auto")
	convertCmd.Flags().String("ocr-image", "", "tesseract container image")
	convertCmd.Flags().Int("max-pages", 0, "maximum PDF pages to read (0 = all)")

	bindFlag("source.runtime", convertCmd.Flags().Lookup("runtime"))
	bindFlag("source.ocr_image", convertCmd.Flags().Lookup("ocr-image"))
	bindFlag("source.max_pages", convertCmd.Flags().Lookup("max-pages"))

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	batch, _ := cmd.Flags().GetBool("batch")
	force, _ := cmd.Flags().GetBool("force")
	ctx := cmd.Context()

	if !batch && len(args) == 0 {
		return fmt.Errorf("provide one or more files, or use --batch")
	}

	router := newRouter(ctx, true)

	if batch {
		result, err := source.ConvertAll(ctx, router, cfg.DataDir, force, os.Stdout, component("convert"))
		if err != nil {
			return err
		}
		if result.HasFailures() {
			return fmt.Errorf("%d document(s) failed conversion", result.Failed)
		}
		return nil
	}

	failed := 0
	for _, path := range args {
		text, _, err := router.Text(ctx, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed:  %s (%v)\n", path, err)
			failed++
			continue
		}
		if len(args) > 1 {
			fmt.Printf("==> %s <==\n", path)
		}
		fmt.Println(text)
	}
	if failed > 0 {
		return fmt.Errorf("%d document(s) failed conversion", failed)
	}
	return nil
}

// newRouter builds the text sources for this run. OCR is added only when
// withOCR is set and a container runtime with the tesseract image is
// available.
func newRouter(ctx context.Context, withOCR bool) *source.Router {
	log := component("source")
	sources := []source.Source{
		source.PlainSource{},
		source.HTMLSource{},
		source.PDFSource{MaxPages: cfg.Source.MaxPages},
	}

	if withOCR {
		rt, err := container.DetectRuntime(ctx, cfg.Source.Runtime)
		if err != nil {
			log.Warn().Err(err).Msg("no container runtime; scanned images will be skipped")
			return source.NewRouter(sources...)
		}
		ocr, err := source.NewOCRSource(ctx, rt, cfg.Source, log)
		if err != nil {
			log.Warn().Err(err).Msg("OCR unavailable; scanned images will be skipped")
			return source.NewRouter(sources...)
		}
		sources = append(sources, ocr)
	}

	return source.NewRouter(sources...)
}
