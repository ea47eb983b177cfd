package schema

import "embed"

// FS contains the SQLite provider schema, applied in file name order.
//
//go:embed *.sql
var FS embed.FS
