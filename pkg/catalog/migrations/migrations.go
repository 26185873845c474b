// Package migrations embeds the goose SQL migrations for the shared
// dataset catalog so the binary carries its own schema, same as an
// ordinary embedded asset.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
