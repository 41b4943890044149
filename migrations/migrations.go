// Package migrations embeds the SQL schema migrations run at startup.
package migrations

import "embed"

//go:embed *.sql
var MigrationsFS embed.FS
