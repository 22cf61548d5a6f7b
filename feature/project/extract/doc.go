// Package extract implements the extraction and reconciliation engine: it
// opens a 3MF project container, parses its embedded XML and JSON
// configuration fragments, and merges them with the statistics scanned from
// the correlated G-code stream into one canonical ProjectSummary.
//
// # Merge Order
//
// Reconciliation runs in fixed stages, each allowed to augment the previous:
//
//  1. Filaments from the raw per-slot setting sequences (with defaults).
//  2. Geometry objects from the model settings XML (extruder defaults to 1).
//  3. Plates from the per-plate JSON entries, else one synthetic plate.
//  4. Scanner aggregates overlaid onto filaments by slot match, plus the
//     statistics record when a scan succeeded.
//  5. Producing-application label, preferring the G-code generator string
//     over the container metadata.
//  6. Bed temperature selected by bed-type substring priority
//     (cool, textured, eng, then the hot-plate default).
//
// # Degradation
//
// Only a missing or unreadable container aborts extraction. Every optional
// fragment (model XML, settings JSON, a single plate entry, one numeric
// field) degrades locally to a documented default and is logged, so one bad
// producer never costs the whole summary.
package extract
