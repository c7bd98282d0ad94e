// Package comparison compares database configuration between environments.
//
// The Service fetches rows from two named environments concurrently, picks
// the key the rows are aligned on and hands both sides to the compare
// engine. Three modes share that path:
//
//   - table: a table (optionally schema qualified) with an optional filter
//     and column list.
//   - query: a read-only SELECT or WITH query.
//   - rows: record sets supplied by the caller.
//
// # Key Selection
//
// Explicit key fields win. Table comparisons then fall back to the primary
// key discovered in either environment. When nothing else is known the
// first column is used; this is logged as a warning and reported in the
// X-Key-Fallback response header.
//
// # Exports
//
// Results are exported as JSON or CSV. Exports can be uploaded to object
// storage under the configured prefix and later listed, downloaded and
// deleted through /compare/exports.
//
// # Routes
//
//	GET    /compare/environments
//	POST   /compare/table
//	POST   /compare/query
//	POST   /compare/rows
//	POST   /compare/export?format=json|csv&upload=true
//	GET    /compare/exports
//	GET    /compare/exports/:name
//	DELETE /compare/exports/:name
package comparison
