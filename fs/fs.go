// Package appfs embeds the SQL migrations and the sample data so the binaries do not depend on the working directory.
package appfs

import "embed"

//go:embed migrations/*.sql seed/*.json
var FS embed.FS

// SeedFile holds the sample questions and drinks loaded by `admin seed`.
const SeedFile = "seed/sample.json"
