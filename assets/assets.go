// Package assets embeds and renders the browser front-end.
package assets

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/svg"
)

var (
	//go:embed index.html.tpl
	indexTemplate string

	//go:embed style.css
	styleCSS string

	//go:embed script.js
	scriptJS string

	//go:embed locate.svg
	locateSVG string

	// Favicon is served as image/svg+xml.
	//go:embed favicon.svg
	Favicon []byte
)

// PageData is the template input of index.html.tpl.
type PageData struct {
	Title string
	CSS   string
	JS    string
	SVG   string
}

// NewMinifier registers every media type used by the front-end.
func NewMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/javascript", js.Minify)
	m.AddFunc("image/svg+xml", svg.Minify)
	return m
}

// Render builds the single-page index with inlined, minified CSS, JS and SVG.
func Render(title string) ([]byte, error) {
	m := NewMinifier()

	cssMin, err := m.String("text/css", styleCSS)
	if err != nil {
		return nil, fmt.Errorf("minify CSS: %w", err)
	}
	jsMin, err := m.String("text/javascript", scriptJS)
	if err != nil {
		return nil, fmt.Errorf("minify JS: %w", err)
	}
	svgMin, err := m.String("image/svg+xml", locateSVG)
	if err != nil {
		return nil, fmt.Errorf("minify SVG: %w", err)
	}

	tmpl, err := template.New("index").Parse(indexTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, PageData{
		Title: title,
		CSS:   cssMin,
		JS:    jsMin,
		SVG:   svgMin,
	})
	if err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}

	out, err := m.Bytes("text/html", buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("minify HTML: %w", err)
	}

	return out, nil
}
