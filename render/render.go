// Package render produces the static snapshot document from one run's data.
package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/Emathyran/daily-news/models"
)

//go:embed page.html.tmpl
var pageTemplate string

// Renderer executes the embedded snapshot template.
type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render produces the complete snapshot document for the given page data.
func (r *Renderer) Render(data *models.PageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute page template: %w", err)
	}
	return buf.Bytes(), nil
}
