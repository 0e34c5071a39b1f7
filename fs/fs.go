// Package appfs embeds static app assets such as database migrations.
package appfs

import "embed"

//go:embed migrations/*.sql
var FS embed.FS
