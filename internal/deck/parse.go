package deck

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/gosimple/slug"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/mark3labs/stepdeck/internal/slideshow"
)

type blockKind int

const (
	blockNote blockKind = iota
	blockPreview
)

// block is a top-level piece of a step that is not an editor file.
type block struct {
	kind   blockKind
	raw    string // source markdown, used when the block ends up in the note
	body   string // preview content
	format string
}

type fileDef struct {
	file   slideshow.File
	active bool
}

// section is the content between two thematic breaks.
type section struct {
	title  string
	files  []fileDef
	blocks []block
}

// Plain CommonMark: GFM tables lose their line segments, which the section
// slicing below relies on.
var structure = goldmark.New()

var thematicBreak = regexp.MustCompile(`^ {0,3}(?:(?:\*[ \t]*){3,}|(?:-[ \t]*){3,}|(?:_[ \t]*){3,})$`)

type source struct {
	src    []byte
	starts []int // byte offset of each line start
}

func newSource(src []byte) *source {
	starts := []int{0}
	for i, c := range src {
		if c == '\n' && i+1 < len(src) {
			starts = append(starts, i+1)
		}
	}
	return &source{src: src, starts: starts}
}

func (s *source) lineOf(offset int) int {
	return sort.Search(len(s.starts), func(i int) bool { return s.starts[i] > offset }) - 1
}

// text returns lines [from, to) with trailing blank and thematic break lines
// removed.
func (s *source) text(from, to int) string {
	if from >= len(s.starts) {
		return ""
	}
	end := len(s.src)
	if to < len(s.starts) {
		end = s.starts[to]
	}
	lines := strings.Split(string(s.src[s.starts[from]:end]), "\n")
	for len(lines) > 0 {
		last := strings.TrimRight(lines[len(lines)-1], " \t\r")
		if last != "" && !thematicBreak.MatchString(last) {
			break
		}
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// firstNodeOffset returns the byte offset of the first line in a node,
// descending into containers such as lists that have no lines of their own.
func firstNodeOffset(n ast.Node) (int, bool) {
	if lines := n.Lines(); lines != nil && lines.Len() > 0 {
		return lines.At(0).Start, true
	}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if offset, ok := firstNodeOffset(child); ok {
			return offset, true
		}
	}
	return 0, false
}

// startLine returns the first source line of a top-level block. Fenced code
// starts at its opening fence rather than its first content line.
func (s *source) startLine(n ast.Node) (int, bool) {
	if fc, ok := n.(*ast.FencedCodeBlock); ok {
		if fc.Info != nil {
			return s.lineOf(fc.Info.Segment.Start), true
		}
		if fc.Lines().Len() > 0 {
			return s.lineOf(fc.Lines().At(0).Start) - 1, true
		}
		return 0, false
	}
	if offset, ok := firstNodeOffset(n); ok {
		return s.lineOf(offset), true
	}
	return 0, false
}

func (s *source) lines(n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(s.src))
	}
	return b.String()
}

type positioned struct {
	node  ast.Node
	start int
	end   int
	group int
	// prose marks a setext heading whose underline is really a step break.
	prose bool
}

// line returns source line i without its newline.
func (s *source) line(i int) string {
	end := len(s.src)
	if i+1 < len(s.starts) {
		end = s.starts[i+1]
	}
	return strings.TrimRight(string(s.src[s.starts[i]:end]), "\r\n")
}

// setextBreak reports whether n is a level 2 setext heading underlined with
// "---". In a deck that underline separates steps, so the heading text is
// prose that ends its step.
func (s *source) setextBreak(n ast.Node) bool {
	h, ok := n.(*ast.Heading)
	if !ok || h.Level != 2 || h.Lines().Len() == 0 {
		return false
	}
	first := h.Lines().At(0)
	lineStart := s.starts[s.lineOf(first.Start)]
	if strings.Contains(string(s.src[lineStart:first.Start]), "#") {
		return false
	}
	next := s.lineOf(h.Lines().At(h.Lines().Len()-1).Start) + 1
	if next >= len(s.starts) {
		return false
	}
	return thematicBreak.MatchString(strings.TrimRight(s.line(next), " \t"))
}

func parseSections(body []byte) []section {
	src := newSource(body)
	doc := structure.Parser().Parse(text.NewReader(body))

	var blocks []positioned
	group := 0
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if n.Kind() == ast.KindThematicBreak {
			group++
			continue
		}
		start, ok := src.startLine(n)
		if !ok {
			continue
		}
		prose := src.setextBreak(n)
		blocks = append(blocks, positioned{node: n, start: start, group: group, prose: prose})
		if prose {
			group++
		}
	}
	for i := range blocks {
		if i+1 < len(blocks) {
			blocks[i].end = blocks[i+1].start
		} else {
			blocks[i].end = len(src.starts)
		}
	}

	var sections []section
	current := -1
	for _, b := range blocks {
		if current != b.group || len(sections) == 0 {
			sections = append(sections, section{})
			current = b.group
		}
		sec := &sections[len(sections)-1]
		src.classify(sec, b)
	}
	return sections
}

func (s *source) classify(sec *section, b positioned) {
	if b.prose {
		if raw := s.text(b.start, b.end); raw != "" {
			sec.blocks = append(sec.blocks, block{kind: blockNote, raw: raw})
		}
		return
	}
	switch n := b.node.(type) {
	case *ast.Heading:
		if sec.title == "" {
			sec.title = strings.TrimSpace(s.lines(n))
			if sec.title != "" {
				return
			}
		}
	case *ast.FencedCodeBlock:
		var info string
		if n.Info != nil {
			info = string(n.Info.Segment.Value(s.src))
		}
		f := parseFence(info)
		code := strings.TrimSuffix(s.lines(n), "\n")
		switch {
		case f.preview:
			sec.blocks = append(sec.blocks, block{
				kind:   blockPreview,
				raw:    s.text(b.start, b.end),
				body:   code,
				format: f.format,
			})
			return
		case f.name != "":
			sec.files = append(sec.files, fileDef{
				file:   slideshow.File{Name: f.name, Lang: f.lang, Code: code, Focus: f.focus},
				active: f.active,
			})
			return
		}
	}
	if raw := s.text(b.start, b.end); raw != "" {
		sec.blocks = append(sec.blocks, block{kind: blockNote, raw: raw})
	}
}

type fence struct {
	lang    string
	name    string
	focus   string
	active  bool
	preview bool
	format  string
}

// parseFence reads a fenced code info string of the form
// "lang filename [active] [focus=range]" or "preview [html|markdown]".
func parseFence(info string) fence {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return fence{}
	}

	f := fence{lang: fields[0]}
	if f.lang == "preview" {
		f.preview = true
		f.format = "markdown"
		if len(fields) > 1 && fields[1] == "html" {
			f.format = "html"
		}
		return f
	}

	for _, field := range fields[1:] {
		switch {
		case field == "active":
			f.active = true
		case strings.HasPrefix(field, "focus="):
			f.focus = strings.TrimPrefix(field, "focus=")
		case f.name == "" && !strings.Contains(field, "="):
			f.name = field
		}
	}
	return f
}

// buildSteps turns sections into editor steps. Files carry over from the
// previous step; a redefined filename is replaced in place.
func buildSteps(sections []section) []slideshow.Step {
	steps := make([]slideshow.Step, len(sections))
	seen := make(map[string]int)
	var prev []slideshow.File
	prevActive := ""

	for i, sec := range sections {
		files := make([]slideshow.File, len(prev))
		for j, f := range prev {
			f.Focus = ""
			files[j] = f
		}

		active, lastDefined := "", ""
		for _, def := range sec.files {
			if idx := indexOf(files, def.file.Name); idx >= 0 {
				files[idx] = def.file
			} else {
				files = append(files, def.file)
			}
			lastDefined = def.file.Name
			if def.active {
				active = def.file.Name
			}
		}
		switch {
		case active != "":
		case lastDefined != "":
			active = lastDefined
		case indexOf(files, prevActive) >= 0:
			active = prevActive
		case len(files) > 0:
			active = files[0].Name
		}

		steps[i] = slideshow.Step{
			ID:     stepID(sec.title, i, seen),
			Title:  sec.title,
			Files:  files,
			Active: active,
		}
		prev, prevActive = files, active
	}
	return steps
}

func indexOf(files []slideshow.File, name string) int {
	for i, f := range files {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func stepID(title string, i int, seen map[string]int) string {
	id := slug.Make(title)
	if id == "" {
		id = fmt.Sprintf("step-%d", i+1)
	}
	seen[id]++
	if n := seen[id]; n > 1 {
		id = fmt.Sprintf("%s-%d", id, n)
	}
	return id
}
