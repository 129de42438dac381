// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"errors"
	"strings"
	"time"

	"github.com/pdiddy/findoc/pkg/types"
)

// Engine extracts financial facts from text using an immutable Registry.
// An Engine holds no mutable state and may be shared across goroutines.
type Engine struct {
	registry *Registry
	now      func() time.Time
}

// NewEngine returns an Engine backed by reg.
func NewEngine(reg *Registry) *Engine {
	return &Engine{registry: reg, now: time.Now}
}

// New returns an Engine backed by the default rule table.
func New() *Engine {
	return NewEngine(MustDefaultRegistry())
}

// Registry returns the engine's matcher registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Match records which synonym produced a field.
type Match struct {
	Field types.FieldID
	Label string
	Raw   string
}

// Failure records a field whose pattern matched but whose capture did not
// convert to the declared kind.
type Failure struct {
	Field types.FieldID
	Raw   string
	Err   error
}

// Diagnostics describes how each field fared during one extraction.
type Diagnostics struct {
	Matched  []Match
	Missing  []types.FieldID
	Failures []Failure
}

// Extract returns the typed record for text. It never fails: empty input
// yields a result with Error set and Complete false, and fields whose
// capture cannot be parsed are left out.
func (e *Engine) Extract(text string) types.ExtractionResult {
	result, _ := e.ExtractDetailed(text)
	return result
}

// ExtractDetailed is Extract plus per-field diagnostics.
func (e *Engine) ExtractDetailed(text string) (types.ExtractionResult, Diagnostics) {
	result := types.ExtractionResult{ExtractedAt: e.now().UTC()}
	var diag Diagnostics

	if strings.TrimSpace(text) == "" {
		result.Error = types.ErrNoText
		return result, diag
	}

	for _, cat := range types.Categories {
		e.extractCategory(cat, text, &result, &diag)
	}

	result.Recount()
	return result, diag
}

// extractCategory tries every field of cat independently.
func (e *Engine) extractCategory(cat types.Category, text string, result *types.ExtractionResult, diag *Diagnostics) {
	for _, def := range e.registry.Fields(cat) {
		raw, label, ok := e.registry.Find(def.ID, text)
		if !ok {
			diag.Missing = append(diag.Missing, def.ID)
			continue
		}

		v, err := ParseValue(def.Kind, raw)
		if err != nil {
			if errors.Is(err, ErrEmpty) {
				diag.Missing = append(diag.Missing, def.ID)
			} else {
				diag.Failures = append(diag.Failures, Failure{Field: def.ID, Raw: raw, Err: err})
			}
			continue
		}

		// Kinds come from the same schema, so Set cannot reject them.
		_ = result.Set(def.ID, v)
		diag.Matched = append(diag.Matched, Match{Field: def.ID, Label: label, Raw: raw})
	}
}
