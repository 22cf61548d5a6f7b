// Package gcode scans slicer-generated machine-control streams for embedded
// print statistics and correlates G-code files with their project container.
//
// # Scanner
//
// G-code files interleave motion commands with ';'-prefixed annotation lines
// carrying slicer statistics. Scan performs one forward pass, matching each
// annotation against a declarative table of recognized key patterns
// (OrcaSlicer, BambuStudio, and Marlin-style conventions). The pass tolerates
// truncated lines, stray whitespace, thousands separators, and unknown
// annotations; a malformed numeric token leaves only that field unset.
// Memory stays bounded by the number of material slots, so streams of tens
// of megabytes scan without buffering.
//
// # Resolver
//
// Resolve locates the G-code file belonging to a container by directory
// listing and filename-stem similarity, deferring to an injected Chooser when
// multiple candidates remain ambiguous.
package gcode
