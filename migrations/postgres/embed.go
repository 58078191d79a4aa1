// Package migrations embeds SQL migration files.
package migrations

import "embed"

// FS contiene las migraciones del esquema global, ordenadas por prefijo
// numérico del archivo.
//
//go:embed *.sql
var FS embed.FS
