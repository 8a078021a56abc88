// Package migrations holds the numbered SQL schema files applied by the
// sqlite store on open. Files are named NNN_description.up.sql; the matching
// .down.sql files are kept for manual rollback and never applied.
package migrations

import "embed"

// FS is the set of migration files.
//
//go:embed *.sql
var FS embed.FS
