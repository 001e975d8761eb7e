// Package migrations contains all database migration files. Each file
// registers itself via init(), so importing this package from the CLI
// and the server is enough to populate the registry.
package migrations
