// Package web holds the server-rendered share pages.
package web

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Template names
const (
	TemplateShare       = "share.tmpl"
	TemplateNotFound    = "not_found.tmpl"
	TemplateUnavailable = "unavailable.tmpl"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

// RenderMarkdown converts an app description to HTML. Raw HTML in the source is
// not passed through.
func RenderMarkdown(content string) template.HTML {
	if content == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(content))
	}
	return template.HTML(buf.String())
}

// Templates parses every embedded page template
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.tmpl"))
}
