// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly configure
// MySQL connections based on the application's configuration.
//
// # Connect
//
// The Connect function establishes a connection to the database used for
// extraction history. The connection is optional, extraction itself never
// touches the database.
//
// # Schema Inspection
//
// The package includes tools to inspect the history table schema after
// migration, so a drifted table is reported instead of failing on the first
// insert.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "extraction_history", expected)
package database
