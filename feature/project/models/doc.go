// Package models defines the canonical data model for an extracted print
// project: the ProjectSummary aggregate with its filaments, geometry objects,
// plates, resolved print settings, and optional post-slice statistics.
//
// It also defines RawSettings, the loosely-typed key/value mapping parsed
// from the container's settings JSON. Values are a tagged union
// (string | number | bool | ordered string list) so the reconciliation
// coercions stay explicit instead of hiding behind `any`.
//
// # Null vs Zero
//
// Optional post-slice fields (filament usage, plate predictions, summary
// statistics) are pointers: nil means "unknown, no sliced data matched",
// which is a different statement than an explicit zero.
package models
