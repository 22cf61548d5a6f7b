// Package project exposes print project extraction over HTTP.
//
// It wires the extraction pipeline (feature/project/extract) into the Fiber
// application: uploaded 3MF containers are extracted to a ProjectSummary,
// optionally recorded in the extraction history and published to the object
// store as a Markdown report.
//
// # Endpoints
//
//   - POST /projects/extract: Upload a container and receive its summary.
//   - GET  /projects: List recent extraction history records.
//
// The feature registers itself through the core/loader Manager.
package project
