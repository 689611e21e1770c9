package configs

import "embed"

//go:embed persona.yaml
var FS embed.FS
