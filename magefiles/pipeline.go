//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Pipeline groups targets that run findoc stages against data/.
type Pipeline mg.Namespace

func findoc(args ...string) error {
	return sh.RunV("go", append([]string{"run", cmdPkg}, args...)...)
}

// Convert turns every file in data/raw/ into data/text/.
func (Pipeline) Convert() error {
	mg.Deps(Init)
	return findoc("convert", "--batch")
}

// Extract writes data/extracted/*-fields.yaml and a metrics textfile.
func (Pipeline) Extract() error {
	mg.Deps(Init)
	return findoc("extract", "--batch", "--metrics-file", "data/index/findoc.prom")
}

// Ingest loads extracted fields into the SQLite store.
func (Pipeline) Ingest() error {
	mg.Deps(Init)
	return findoc("store", "ingest")
}

// All runs convert, extract, and ingest in order.
func (Pipeline) All() {
	mg.SerialDeps(Pipeline.Convert, Pipeline.Extract, Pipeline.Ingest)
}
