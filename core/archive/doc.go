// Package archive provides random-access reading of 3MF project containers.
//
// A 3MF project is a zip archive holding the 3D model XML, slicer settings
// JSON, and per-plate metadata. The Container handle indexes entry names once
// at open time so repeated lookups during extraction stay cheap.
//
// # Error Taxonomy
//
// Open distinguishes a missing file (ErrNotFound) from a file that is not a
// valid archive (ErrBadFormat); both are fatal for extraction. ReadEntry
// returns ErrMissingEntry for absent entries, which callers reading optional
// entries treat as "data not present" rather than a failure.
//
// # Lifecycle
//
//	c, err := archive.Open("project.3mf")
//	if err != nil { ... }
//	defer c.Close()
//	data, err := c.ReadEntry("Metadata/project_settings.config")
package archive
