package comparison

import "time"

// Config holds configuration for comparisons.
type Config struct {
	// EnvironmentsFile is the YAML file listing the named environments.
	EnvironmentsFile string `mapstructure:"environments_file" default:"environments.yaml"`
	// MaxRows caps the rows fetched from each environment.
	MaxRows int `mapstructure:"max_rows" default:"10000"`
	// MaxValueLength truncates longer text values before diffing. Zero disables truncation.
	MaxValueLength int `mapstructure:"max_value_length" default:"10000"`
	// DisplayKeyLimit is the longest composite key shown verbatim.
	DisplayKeyLimit int `mapstructure:"display_key_limit" default:"100"`
	// ExportPrefix is the storage key prefix uploaded exports are written under.
	ExportPrefix string `mapstructure:"export_prefix" default:"reports"`
	// MetadataTTLSeconds is how long discovered table metadata is reused.
	MetadataTTLSeconds int `mapstructure:"metadata_ttl_seconds" default:"300"`
	// PoolSize is the number of environment connections kept open.
	PoolSize int `mapstructure:"pool_size" default:"8"`
}

// MetadataTTL returns the metadata cache lifetime.
func (c Config) MetadataTTL() time.Duration {
	if c.MetadataTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.MetadataTTLSeconds) * time.Second
}
