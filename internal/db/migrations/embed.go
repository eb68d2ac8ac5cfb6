// filepath: internal/db/migrations/embed.go
package migrations

import "embed"

// FS embeds all SQL migration files in this directory.
// The migrations only use CREATE ... IF NOT EXISTS so they can be applied
// to a partially populated file without version tracking.
//
//go:embed *.sql
var FS embed.FS
