// Package utils provides common utility functions for the 3mf-reader
// application. It includes lenient type-conversion helpers used when coercing
// loosely-typed slicer settings into the canonical data model.
package utils
