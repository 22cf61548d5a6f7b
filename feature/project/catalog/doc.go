// Package catalog persists extraction history in the application database.
// Each extraction run becomes one Record with the summary's headline numbers,
// so operators can review past print jobs without keeping the containers
// around. Persistence is optional; the extractor itself never touches it.
package catalog
