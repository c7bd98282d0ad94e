// Package integrity checks the infrastructure comparisons depend on.
//
// Unlike the 'comparison' and 'schema' packages, which compare data between
// environments, this package only validates that every environment is
// reachable and that the export bucket exists.
//
// # Checks Provided
//
//   - Environments: Connects to every registered environment through the connection pool.
//   - Storage: Checks that the export bucket exists and can create it.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/environments : Runs the environment check.
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true).
package integrity
