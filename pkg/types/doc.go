// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the findoc pipeline:
// the field schema, the typed extraction record and its flat projection,
// document metadata, and stage configuration.
package types
