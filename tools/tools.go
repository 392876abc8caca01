//go:build tools

package tools

// Tool dependencies pinned for reproducible builds. Run `go mod tidy` after
// adding or removing tools here.

import (
	_ "github.com/pressly/goose/v3/cmd/goose"
)
