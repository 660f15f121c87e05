package httpserver

import (
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

// TemplateRenderer plugs html/template into echo's Renderer contract for the
// server-rendered dashboard pages.
type TemplateRenderer struct {
	templates *template.Template
}

func NewTemplateRenderer(glob string) (*TemplateRenderer, error) {
	t, err := template.ParseGlob(glob)
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{templates: t}, nil
}

func (r *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
