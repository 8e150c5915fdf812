// Package web embeds the HTML templates of the admin UI.
package web

import (
	"embed"
	"html/template"
	"strconv"
)

//go:embed templates/*.html
var files embed.FS

var funcs = template.FuncMap{
	"weight": func(w float64) string { return strconv.FormatFloat(w, 'f', -1, 64) },
}

// Templates parses every embedded page. Pages are addressed by file name,
// e.g. "index.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "templates/*.html")
}
