// Package config provides configuration management for the 3MF reader.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: MySQL connection details for extraction history
//   - Storage: S3/MinIO credentials and bucket settings for published reports
//   - Log: Logging level and format
//   - Project: Extraction and report defaults (output dir, currency, color matching)
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
