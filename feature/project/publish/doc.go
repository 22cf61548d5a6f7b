// Package publish uploads rendered project reports and summary JSON to the
// object store so they can be shared outside the machine that ran the
// extraction.
package publish
