package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"regexp"

	"github.com/foxseedlab/presencedash/internal/dashboard"
)

//go:embed templates/index.html
var templateFiles embed.FS

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{3,8}$`)

type pageRenderer struct {
	tmpl *template.Template
}

func newPageRenderer() (*pageRenderer, error) {
	tmpl, err := template.New("index.html").Funcs(template.FuncMap{
		"cssColor": cssColor,
	}).ParseFS(templateFiles, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return &pageRenderer{tmpl: tmpl}, nil
}

func (p *pageRenderer) render(page dashboard.Page) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("execute page template: %w", err)
	}
	return buf.Bytes(), nil
}

// cssColor lets a hex color through into a style attribute.
func cssColor(s string) template.CSS {
	if !hexColor.MatchString(s) {
		return ""
	}
	return template.CSS(s)
}
