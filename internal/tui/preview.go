package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/mark3labs/stepdeck/internal/slideshow"
	"github.com/mark3labs/stepdeck/internal/tui/theme"
)

// PreviewPane shows the terminal rendition of the current step's preview.
// The browser at URL shows the full document.
type PreviewPane struct {
	viewport viewport.Model
	area     uv.Rectangle
	url      string

	preview slideshow.Preview
	ok      bool
	key     string
}

// NewPreviewPane creates a preview pane pointing at url (may be empty).
func NewPreviewPane(url string) *PreviewPane {
	return &PreviewPane{
		viewport: viewport.New(viewport.WithWidth(0), viewport.WithHeight(0)),
		url:      url,
	}
}

// SetURL updates the browser preview address.
func (p *PreviewPane) SetURL(url string) {
	p.url = url
	p.key = ""
	p.refresh()
}

// SetPreview shows the resolved preview; ok false means no preview.
func (p *PreviewPane) SetPreview(pv slideshow.Preview, ok bool) {
	p.preview = pv
	p.ok = ok
	p.refresh()
}

// SetArea positions the pane including its title row.
func (p *PreviewPane) SetArea(area uv.Rectangle) {
	p.area = area
	p.viewport.SetWidth(max(area.Dx(), 0))
	p.viewport.SetHeight(max(area.Dy()-1, 0))
	p.refresh()
}

// Scroll moves the preview by delta lines.
func (p *PreviewPane) Scroll(delta int) {
	if delta < 0 {
		p.viewport.ScrollUp(-delta)
	} else {
		p.viewport.ScrollDown(delta)
	}
}

// Contains reports whether (x, y) is inside the pane.
func (p *PreviewPane) Contains(x, y int) bool {
	return inRect(x, y, p.area)
}

func (p *PreviewPane) refresh() {
	width := p.viewport.Width()
	key := fmt.Sprintf("%v/%d/%d/%s", p.ok, p.preview.Index, width, p.preview.Kind)
	if p.ok && p.preview.Kind == slideshow.PairingPreset {
		// Preset previews follow the active file as well.
		for _, f := range p.preview.Files {
			key += "/" + f.Name + ":" + fmt.Sprint(len(f.Code))
		}
	}
	if key == p.key {
		return
	}
	p.key = key
	p.viewport.SetContent(p.render(width))
	p.viewport.GotoTop()
}

func (p *PreviewPane) render(width int) string {
	s := theme.Current().S()
	if !p.ok {
		return s.EmptyState.Render("No preview")
	}

	var body string
	switch p.preview.Kind {
	case slideshow.PairingPreset:
		body = p.renderPreset()
	case slideshow.PairingSteps:
		body = p.renderFragment(width)
	}

	if p.url != "" {
		body += "\n\n" + s.HeaderMeta.Render("open ") + s.Link.Render(p.url)
	}
	return body
}

func (p *PreviewPane) renderFragment(width int) string {
	f := p.preview.Fragment
	if strings.TrimSpace(f.Body) == "" {
		return theme.Current().S().EmptyState.Render("Empty preview for this step")
	}
	if f.Format == "html" {
		return strings.Join(highlightLines(f.Body, "preview.html", "html", ""), "\n")
	}
	return renderMarkdown(f.Body, width)
}

func (p *PreviewPane) renderPreset() string {
	s := theme.Current().S()
	cfg := p.preview.Preset

	var b strings.Builder
	title := cfg.Title
	if title == "" {
		title = "Preset"
	}
	b.WriteString(s.HeaderTitle.Render(title))
	b.WriteString("\n")

	entry := cfg.EntryFile()
	found := false
	for _, f := range p.preview.Files {
		mark := "  "
		if f.Name == entry {
			mark = "▸ "
			found = true
		}
		b.WriteString(s.StatusText.Render(fmt.Sprintf("%s%s (%d lines)", mark, f.Name, strings.Count(f.Code, "\n")+1)))
		b.WriteString("\n")
	}
	if !found {
		b.WriteString(s.EmptyState.Render(fmt.Sprintf("no %s in this step; files are listed as code", entry)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Draw renders the pane with its title row.
func (p *PreviewPane) Draw(scr uv.Screen, area uv.Rectangle) {
	badge := ""
	if p.ok {
		badge = p.preview.Kind.String()
	}
	inner := DrawPanel(scr, area, "Preview", badge)
	if inner.Dy() <= 0 {
		return
	}
	DrawText(scr, inner, p.viewport.View())
	if p.viewport.TotalLineCount() > p.viewport.Height() {
		DrawScrollIndicator(scr, inner, p.viewport.ScrollPercent())
	}
}
