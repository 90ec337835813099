package pkgkv

import "embed"

// EmbedMigrations contains the SQL migrations of the sqlite driver.
//
//go:embed migrations/*.sql
var EmbedMigrations embed.FS
