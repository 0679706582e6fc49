package migrations

import "embed"

// Postgres holds the SQL migrations applied by the migrate helper.
//
//go:embed postgres/*.sql
var Postgres embed.FS
