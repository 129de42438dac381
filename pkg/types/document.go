// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SourceKind identifies how a document's text was obtained.
type SourceKind string

const (
	SourcePDF   SourceKind = "pdf"
	SourceImage SourceKind = "image"
	SourceHTML  SourceKind = "html"
	SourceText  SourceKind = "text"
)

// ConversionStatus indicates the state of raw-document-to-text conversion.
type ConversionStatus string

const (
	ConversionNone   ConversionStatus = "none"
	ConversionDone   ConversionStatus = "converted"
	ConversionFailed ConversionStatus = "failed"
)

// Document holds metadata for one processed source document.
type Document struct {
	// ID is assigned by the store. Zero until saved.
	ID int64 `json:"id" yaml:"id"`

	// Key is a slug derived from the source filename (e.g. "techflow-2024").
	// It links raw/, text/, and extracted/ files for the same document.
	Key string `json:"key" yaml:"key"`

	// Filename is the original file name.
	Filename string `json:"filename" yaml:"filename"`

	// SourceKind records which text source produced the text.
	SourceKind SourceKind `json:"source_kind" yaml:"source_kind"`

	// TextLength is the number of characters of extracted text.
	TextLength int `json:"text_length" yaml:"text_length"`

	// ProcessedAt is when extraction ran.
	ProcessedAt time.Time `json:"processed_at" yaml:"processed_at"`
}

// DocumentExtraction is the on-disk form of one document's extraction,
// written to extracted/<key>-fields.yaml and read back by the store.
type DocumentExtraction struct {
	Document Document         `json:"document" yaml:"document"`
	Result   ExtractionResult `json:"result" yaml:"result"`
}
