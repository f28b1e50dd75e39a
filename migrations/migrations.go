// Package migrations embeds the SQL schema so every binary carries the
// migrations it was built against.
package migrations

import "embed"

// FS holds the golang-migrate up/down files.
//
//go:embed *.sql
var FS embed.FS
