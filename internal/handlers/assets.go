package handlers

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html static/*
var assets embed.FS

var pageTemplate = template.Must(template.ParseFS(assets, "templates/index.html"))

// StaticFS возвращает файлы /static для раздачи.
func StaticFS() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
