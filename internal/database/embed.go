// Package database embeds the schema migrations for the reviews service.
package database

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
