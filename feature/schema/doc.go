// Package schema compares table definitions between environments.
//
// Each column becomes a record keyed by its name holding its type,
// nullability, key, default and extra attributes, and the records of both
// environments go through the compare engine. The Report lists columns
// missing on either side and type mismatches next to the full result.
//
// # Routes
//
//	POST /schema/compare
package schema
