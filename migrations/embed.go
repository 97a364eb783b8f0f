// Package migrations bundles the SQL schema files.
package migrations

import "embed"

// FS holds one subdirectory per database driver.
//
//go:embed sqlite/*.sql
var FS embed.FS
