// Package preview turns a step's preview into an HTML document and serves it
// to a browser that follows the presentation live.
package preview

import (
	"bytes"
	"fmt"
	"html"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/mark3labs/stepdeck/internal/slideshow"
)

const baseStyle = `body{font-family:system-ui,sans-serif;margin:2rem;line-height:1.5}` +
	`pre{background:#1e1e2e;color:#cdd6f4;padding:1rem;overflow:auto;border-radius:6px}` +
	`code{font-family:ui-monospace,monospace}`

// Renderer is a wrapper around the Goldmark markdown parser with
// pre-configured extensions.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a renderer.
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)
	return &Renderer{md: md}
}

// Document returns a complete HTML page for p. A PairingNone preview yields
// an empty string.
func (r *Renderer) Document(p slideshow.Preview) (string, error) {
	switch p.Kind {
	case slideshow.PairingPreset:
		return composePreset(p.Preset, p.Files), nil
	case slideshow.PairingSteps:
		return r.fragment(p.Fragment)
	default:
		return "", nil
	}
}

// Markdown converts markdown source to an HTML fragment.
func (r *Renderer) Markdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.String(), nil
}

func (r *Renderer) fragment(f slideshow.Fragment) (string, error) {
	body := f.Body
	if f.Format != "html" {
		var err error
		if body, err = r.Markdown(f.Body); err != nil {
			return "", err
		}
	}
	return page("", "<style>"+baseStyle+"</style>", body), nil
}

func page(title, head, body string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	if title != "" {
		b.WriteString("<title>" + html.EscapeString(title) + "</title>\n")
	}
	b.WriteString(head)
	b.WriteString("\n</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}

// composePreset builds a page from the step's files. The entry HTML file is
// used as the page with stylesheets and scripts injected; without one, every
// file is listed as source.
func composePreset(cfg slideshow.PresetConfig, files []slideshow.File) string {
	var styles, scripts strings.Builder
	var entry *slideshow.File
	for i := range files {
		f := &files[i]
		switch {
		case f.Name == cfg.EntryFile():
			entry = f
		case path.Ext(f.Name) == ".css":
			styles.WriteString("<style>\n" + f.Code + "\n</style>\n")
		case path.Ext(f.Name) == ".js":
			scripts.WriteString("<script>\n" + f.Code + "\n</script>\n")
		}
	}

	head := cfg.Head + "\n" + styles.String()
	if entry == nil {
		var body strings.Builder
		if cfg.Title != "" {
			body.WriteString("<h1>" + html.EscapeString(cfg.Title) + "</h1>\n")
		}
		for _, f := range files {
			fmt.Fprintf(&body, "<h2>%s</h2>\n<pre><code class=\"language-%s\">%s</code></pre>\n",
				html.EscapeString(f.Name), html.EscapeString(f.Lang), html.EscapeString(f.Code))
		}
		return page(cfg.Title, "<style>"+baseStyle+"</style>\n"+head, body.String())
	}

	doc := entry.Code
	if !strings.Contains(strings.ToLower(doc), "<html") {
		return page(cfg.Title, head, doc+"\n"+scripts.String())
	}
	doc = insertBefore(doc, "</head>", head)
	doc = insertBefore(doc, "</body>", scripts.String())
	return doc
}

// insertBefore places s before the first case-insensitive match of tag, or
// appends it when the tag is absent.
func insertBefore(doc, tag, s string) string {
	if strings.TrimSpace(s) == "" {
		return doc
	}
	i := strings.Index(strings.ToLower(doc), tag)
	if i < 0 {
		return doc + s
	}
	return doc[:i] + s + doc[i:]
}
