package tui

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/viewport"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/mark3labs/stepdeck/internal/slideshow"
	"github.com/mark3labs/stepdeck/internal/tui/theme"
)

// tabHit is the clickable span of one file tab.
type tabHit struct {
	name   string
	x0, x1 int
}

// Editor shows the files of the active step as tabs and the active file as
// highlighted, scrollable code.
type Editor struct {
	step     slideshow.Step
	code     slideshow.CodeConfig
	viewport viewport.Model
	area     uv.Rectangle
	tabs     []tabHit

	// shown identifies the rendered content so scroll position survives
	// redraws of the same file.
	shown string
	cache map[string][]string
}

// NewEditor creates an empty editor.
func NewEditor() *Editor {
	return &Editor{
		viewport: viewport.New(viewport.WithWidth(0), viewport.WithHeight(0)),
		cache:    make(map[string][]string),
	}
}

// SetStep shows step with its active file. Switching to another step or file
// scrolls to the focus range, or to the top.
func (e *Editor) SetStep(step slideshow.Step, code slideshow.CodeConfig) {
	e.step = step
	e.code = code
	e.layoutTabs()
	e.refresh()
}

// SetArea positions the editor. The first row holds the tabs.
func (e *Editor) SetArea(area uv.Rectangle) {
	e.area = area
	e.viewport.SetWidth(max(area.Dx(), 0))
	e.viewport.SetHeight(max(area.Dy()-1, 0))
	e.layoutTabs()
	e.refresh()
}

// Scroll moves the code view by delta lines.
func (e *Editor) Scroll(delta int) {
	if delta < 0 {
		e.viewport.ScrollUp(-delta)
	} else {
		e.viewport.ScrollDown(delta)
	}
}

// TabAt returns the file whose tab covers the screen cell (x, y).
func (e *Editor) TabAt(x, y int) (string, bool) {
	if y != e.area.Min.Y {
		return "", false
	}
	for _, t := range e.tabs {
		if x >= t.x0 && x < t.x1 {
			return t.name, true
		}
	}
	return "", false
}

// Contains reports whether (x, y) is inside the editor.
func (e *Editor) Contains(x, y int) bool {
	return inRect(x, y, e.area)
}

func (e *Editor) layoutTabs() {
	e.tabs = e.tabs[:0]
	s := theme.Current().S()
	x := e.area.Min.X
	for _, f := range e.step.Files {
		w := lipgloss.Width(s.Tab.Render(f.Name))
		e.tabs = append(e.tabs, tabHit{name: f.Name, x0: x, x1: x + w})
		x += w
	}
}

func (e *Editor) refresh() {
	f, ok := e.step.ActiveFile()
	if !ok {
		e.shown = ""
		e.viewport.SetContent(theme.Current().S().EmptyState.Render("No file in this step"))
		return
	}

	key := e.step.ID + "\x00" + f.Name + "\x00" + strconv.Itoa(e.viewport.Width())
	content := e.renderFile(f)
	e.viewport.SetContent(content)
	if key == e.shown {
		return
	}
	e.shown = key

	if start, _, ok := parseFocus(f.Focus); ok {
		// Leave a little context above the focused lines.
		e.viewport.SetYOffset(max(start-3, 0))
	} else {
		e.viewport.GotoTop()
	}
}

func (e *Editor) renderFile(f slideshow.File) string {
	tabWidth := e.code.TabWidth
	if tabWidth <= 0 {
		tabWidth = 4
	}
	src := strings.ReplaceAll(f.Code, "\t", strings.Repeat(" ", tabWidth))

	cacheKey := e.code.Theme + "\x00" + f.Name + "\x00" + f.Lang + "\x00" + src
	lines, ok := e.cache[cacheKey]
	if !ok {
		lines = highlightLines(src, f.Name, f.Lang, e.code.Theme)
		e.cache[cacheKey] = lines
	}

	s := theme.Current().S()
	start, end, hasFocus := parseFocus(f.Focus)
	numWidth := len(strconv.Itoa(len(lines)))

	var b strings.Builder
	for i, line := range lines {
		n := i + 1
		focused := hasFocus && n >= start && n <= end
		if e.code.ShowLineNumbers() {
			num := fmt.Sprintf("%*d ", numWidth, n)
			if focused {
				b.WriteString(s.LineNumberFocused.Render(num))
			} else {
				b.WriteString(s.LineNumber.Render(num))
			}
		}
		if hasFocus {
			if focused {
				b.WriteString(s.FocusMarker.Render("▌"))
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString(line)
		if i < len(lines)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Draw renders the tab row and the code view.
func (e *Editor) Draw(scr uv.Screen, area uv.Rectangle) {
	if area.Dy() <= 0 {
		return
	}
	s := theme.Current().S()

	var tabs strings.Builder
	for _, f := range e.step.Files {
		if f.Name == e.step.Active {
			tabs.WriteString(s.TabActive.Render(f.Name))
		} else {
			tabs.WriteString(s.Tab.Render(f.Name))
		}
	}
	DrawText(scr, uv.Rect(area.Min.X, area.Min.Y, area.Dx(), 1), tabs.String())

	codeArea := uv.Rect(area.Min.X, area.Min.Y+1, area.Dx(), area.Dy()-1)
	if codeArea.Dy() <= 0 {
		return
	}
	DrawText(scr, codeArea, e.viewport.View())
	if e.viewport.TotalLineCount() > e.viewport.Height() {
		DrawScrollIndicator(scr, codeArea, e.viewport.ScrollPercent())
	}
}

// parseFocus parses a 1-based inclusive line range: "7", "3:7" or "3-7".
func parseFocus(s string) (start, end int, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, false
	}
	from, to, found := strings.Cut(s, ":")
	if !found {
		from, to, found = strings.Cut(s, "-")
	}
	start, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil || start < 1 {
		return 0, 0, false
	}
	end = start
	if found {
		end, err = strconv.Atoi(strings.TrimSpace(to))
		if err != nil || end < start {
			return 0, 0, false
		}
	}
	return start, end, true
}

// inRect reports whether the cell (x, y) lies inside r.
func inRect(x, y int, r uv.Rectangle) bool {
	return x >= r.Min.X && x < r.Max.X && y >= r.Min.Y && y < r.Max.Y
}
