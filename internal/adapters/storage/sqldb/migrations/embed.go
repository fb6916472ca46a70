package migrations

import "embed"

// FS contiene las migraciones por dialecto (postgres/, sqlite/).
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
