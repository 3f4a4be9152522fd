// Package templates embeds the starter documents written by init.
package templates

import "embed"

//go:embed recipe.yaml
var FS embed.FS
