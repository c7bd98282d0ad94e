// Package environment holds the named connection profiles comparisons run
// against.
//
// Profiles are read from a YAML file:
//
//	environments:
//	  - name: staging
//	    description: Staging cluster
//	    password_env: STAGING_DB_PASSWORD
//	    database:
//	      driver: mysql
//	      host: staging-db.internal
//	      port: 3306
//	      user: reader
//	      name: app
//
// The Registry resolves a name to a database.Config and is passed to
// database.NewPool as its Resolver.
package environment
