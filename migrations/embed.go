// Package migrations holds the panel schema scripts compiled into the binary.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
