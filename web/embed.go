package web

import (
	"embed"
	"io/fs"
)

//go:embed static/*
var content embed.FS

// GetStaticFS returns the embedded front-end files
func GetStaticFS() fs.FS {
	staticFS, _ := fs.Sub(content, "static")
	return staticFS
}
