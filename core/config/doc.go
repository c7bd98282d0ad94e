// Package config provides configuration management for envcompare.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file. Defaults come from the `default` struct tags of
// each section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, request limits)
//   - Log: Logging level and format
//   - Database: connection of the "default" environment
//   - Storage: S3/MinIO credentials and the bucket exports are uploaded to
//   - Compare: environments file, fetch limits, display key limit, export prefix, caching and pooling
//
// Environment variables map to nested keys by replacing dots with
// underscores, so COMPARE_MAX_ROWS sets compare.max_rows.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Compare.MaxRows)
package config
