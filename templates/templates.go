// Package templates holds the embedded HTML views.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"dijital-vitrin/schema"
	"dijital-vitrin/utils"
)

//go:embed *.html
var files embed.FS

type fieldSet struct {
	Prefix string
	Fields []schema.FieldView
}

var funcs = template.FuncMap{
	"tl": utils.FormatTL,
	"fieldset": func(prefix string, fields []schema.FieldView) fieldSet {
		return fieldSet{Prefix: prefix, Fields: fields}
	},
}

var set = template.Must(template.New("views").Funcs(funcs).ParseFS(files, "*.html"))

const (
	Storefront = "storefront.html"
	Catalog    = "catalog.html"
	FormPage   = "form.html"
)

// Render executes the named view into w. Output is buffered so a failing
// template never leaves a half-written response.
func Render(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
