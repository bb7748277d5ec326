package preview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/stepdeck/internal/slideshow"
)

func TestDocument_None(t *testing.T) {
	doc, err := NewRenderer().Document(slideshow.Preview{})
	require.NoError(t, err)
	assert.Empty(t, doc)
}

func TestDocument_MarkdownFragment(t *testing.T) {
	doc, err := NewRenderer().Document(slideshow.Preview{
		Kind:     slideshow.PairingSteps,
		Fragment: slideshow.Fragment{Body: "# Title\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
	assert.Contains(t, doc, `<h1 id="title">Title</h1>`)
	assert.Contains(t, doc, "<table>", "GFM tables are enabled")
}

func TestDocument_HTMLFragment(t *testing.T) {
	doc, err := NewRenderer().Document(slideshow.Preview{
		Kind:     slideshow.PairingSteps,
		Fragment: slideshow.Fragment{Body: "<marquee>*raw*</marquee>", Format: "html"},
	})
	require.NoError(t, err)
	assert.Contains(t, doc, "<marquee>*raw*</marquee>")
}

func TestDocument_PresetWithEntry(t *testing.T) {
	files := []slideshow.File{
		{Name: "index.html", Code: "<html><head><title>x</title></head><body><p>hi</p></body></html>"},
		{Name: "style.css", Code: "p { color: red }"},
		{Name: "app.js", Code: "console.log(1)"},
	}
	doc, err := NewRenderer().Document(slideshow.Preview{
		Kind:   slideshow.PairingPreset,
		Preset: slideshow.PresetConfig{Head: `<meta name="x">`},
		Files:  files,
	})
	require.NoError(t, err)

	head := doc[:strings.Index(doc, "</head>")]
	assert.Contains(t, head, "<style>\np { color: red }\n</style>")
	assert.Contains(t, head, `<meta name="x">`)

	body := doc[strings.Index(doc, "<body>"):strings.Index(doc, "</body>")]
	assert.Contains(t, body, "<script>\nconsole.log(1)\n</script>")
	assert.Contains(t, body, "<p>hi</p>")
}

func TestDocument_PresetEntryFragment(t *testing.T) {
	doc, err := NewRenderer().Document(slideshow.Preview{
		Kind:   slideshow.PairingPreset,
		Preset: slideshow.PresetConfig{Entry: "main.html", Title: "Demo"},
		Files:  []slideshow.File{{Name: "main.html", Code: "<h1>plain</h1>"}},
	})
	require.NoError(t, err)
	assert.Contains(t, doc, "<title>Demo</title>")
	assert.Contains(t, doc, "<h1>plain</h1>")
}

func TestDocument_PresetWithoutEntry(t *testing.T) {
	doc, err := NewRenderer().Document(slideshow.Preview{
		Kind:   slideshow.PairingPreset,
		Preset: slideshow.PresetConfig{Title: "Server"},
		Files:  []slideshow.File{{Name: "main.go", Lang: "go", Code: "if a < b {}"}},
	})
	require.NoError(t, err)
	assert.Contains(t, doc, "<h1>Server</h1>")
	assert.Contains(t, doc, "<h2>main.go</h2>")
	assert.Contains(t, doc, `<code class="language-go">if a &lt; b {}</code>`)
}

func TestInsertBefore(t *testing.T) {
	assert.Equal(t, "<HEAD>x</HEAD>", insertBefore("<HEAD></HEAD>", "</head>", "x"))
	assert.Equal(t, "<p></p>x", insertBefore("<p></p>", "</body>", "x"))
	assert.Equal(t, "<p></p>", insertBefore("<p></p>", "</body>", "  \n"))
}
