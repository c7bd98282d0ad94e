// Package database handles environment connections, schema inspection and
// row fetching.
//
// It wraps GORM to open MySQL or SQLite handles from an environment's
// Config and to read rows as comparison records.
//
// # Connect
//
// Connect opens and pings a handle. Pool keeps one handle per environment,
// pings it before reuse and closes the least recently used idle handle when
// it grows past its size.
//
// # Schema Inspection
//
// GetTableColumns reads column definitions (SHOW COLUMNS on MySQL,
// PRAGMA table_info on SQLite) and PrimaryKeyColumns extracts the primary key
// in key order. MetadataCache keeps inspected tables for a TTL.
//
// # Fetching
//
// FetchTable and FetchQuery validate identifiers and filters (see
// NormalizeIdentifier, ValidateWhere and ValidateSelect), cap the number of
// rows and convert driver values into compare.Value, truncating long text.
//
// # Usage
//
//	pool := database.NewPool(registry, database.PoolOptions{Size: 8})
//	defer pool.Close()
//
//	db, err := pool.Acquire(ctx, "staging")
//	if err != nil {
//	    return err
//	}
//	defer pool.Release("staging", db)
//
//	rows, err := database.FetchTable(ctx, db, database.TableQuery{Table: "app.settings"}, database.FetchOptions{})
package database
