// Package migrations embeds the goose SQL migrations. The sequence replays
// the schema history of the application: credentials without email, then
// the email column, then health records without calories, then calories
// with a zero default so older rows stay readable.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
