// Package ui holds the html templates and static assets, compiled into the binary.
package ui

import (
	"embed"
	"io/fs"
)

//go:embed html static
var Files embed.FS

// Static returns the static asset tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(Files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
