// Package migrations embeds the goose SQL migrations that own the
// database schema. The repository manager points goose at this FS on
// startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
