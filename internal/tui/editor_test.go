package tui

import (
	"strings"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/stepdeck/internal/slideshow"
)

func TestParseFocus(t *testing.T) {
	tests := []struct {
		in         string
		start, end int
		ok         bool
	}{
		{"", 0, 0, false},
		{"7", 7, 7, true},
		{"3:7", 3, 7, true},
		{"3-7", 3, 7, true},
		{" 2 : 4 ", 2, 4, true},
		{"7:3", 0, 0, false},
		{"0:2", 0, 0, false},
		{"a:b", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			start, end, ok := parseFocus(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func editorStep() slideshow.Step {
	return slideshow.Step{
		ID: "s",
		Files: []slideshow.File{
			{Name: "main.go", Lang: "go", Code: "package main\n\nfunc main() {\n\tprintln(1)\n}"},
			{Name: "README.md", Code: "# hi"},
		},
		Active: "main.go",
	}
}

func TestEditor_TabAt(t *testing.T) {
	e := NewEditor()
	e.SetArea(uv.Rect(5, 2, 60, 20))
	e.SetStep(editorStep(), slideshow.CodeConfig{})

	require.Len(t, e.tabs, 2)
	name, ok := e.TabAt(e.tabs[1].x0, 2)
	assert.True(t, ok)
	assert.Equal(t, "README.md", name)

	_, ok = e.TabAt(e.tabs[1].x0, 3)
	assert.False(t, ok, "only the tab row is clickable")

	_, ok = e.TabAt(e.tabs[1].x1+5, 2)
	assert.False(t, ok)
}

func TestEditor_RenderFile(t *testing.T) {
	lineNumbers := true
	e := NewEditor()
	e.SetArea(uv.Rect(0, 0, 60, 20))
	e.SetStep(editorStep(), slideshow.CodeConfig{LineNumbers: &lineNumbers, TabWidth: 2})

	f, _ := editorStep().ActiveFile()
	f.Focus = "3:5"
	lines := strings.Split(ansi.Strip(e.renderFile(f)), "\n")

	require.Len(t, lines, 5)
	assert.Equal(t, "1  package main", lines[0])
	assert.Equal(t, "3 ▌func main() {", lines[2])
	assert.Equal(t, "4 ▌  println(1)", lines[3], "tabs expand to the configured width")
}

func TestEditor_Draw(t *testing.T) {
	e := NewEditor()
	area := uv.Rect(0, 0, 60, 10)
	e.SetArea(area)
	e.SetStep(editorStep(), slideshow.CodeConfig{})

	canvas := uv.NewScreenBuffer(60, 10)
	e.Draw(canvas, area)
	out := ansi.Strip(canvas.Render())

	assert.Contains(t, out, "main.go")
	assert.Contains(t, out, "README.md")
	assert.Contains(t, out, "func main()")
}

func TestEditor_MissingActiveFile(t *testing.T) {
	e := NewEditor()
	e.SetArea(uv.Rect(0, 0, 60, 10))
	e.SetStep(slideshow.Step{ID: "empty"}, slideshow.CodeConfig{})

	canvas := uv.NewScreenBuffer(60, 10)
	e.Draw(canvas, uv.Rect(0, 0, 60, 10))
	assert.Contains(t, ansi.Strip(canvas.Render()), "No file in this step")
}
