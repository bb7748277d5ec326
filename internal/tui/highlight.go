package tui

import (
	"bytes"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/colorprofile"

	"github.com/mark3labs/stepdeck/internal/logger"
	"github.com/mark3labs/stepdeck/internal/tui/theme"
)

var (
	profileOnce sync.Once
	profile     colorprofile.Profile
)

// terminalProfile detects the color support of stdout once.
func terminalProfile() colorprofile.Profile {
	profileOnce.Do(func() {
		profile = colorprofile.Detect(os.Stdout, os.Environ())
		logger.Debug("terminal color profile: %s", profile)
	})
	return profile
}

// formatterName picks the chroma formatter matching the terminal's colors.
func formatterName(p colorprofile.Profile) string {
	switch p {
	case colorprofile.TrueColor:
		return "terminal16m"
	case colorprofile.ANSI256:
		return "terminal256"
	case colorprofile.ANSI:
		return "terminal16"
	default:
		return "noop"
	}
}

// highlightLines syntax-highlights source and returns one rendered string
// per source line. Lexer selection prefers the language hint, then the file
// name, then content analysis. On any failure the plain lines are returned.
func highlightLines(source, fileName, lang, styleName string) []string {
	plain := strings.Split(source, "\n")

	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		lexer = lexers.Match(fileName)
	}
	if lexer == nil {
		lexer = lexers.Analyse(source)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	formatter := formatters.Get(formatterName(terminalProfile()))
	if formatter == nil {
		return plain
	}

	if styleName == "" {
		styleName = "monokai"
	}
	baseStyle := styles.Get(styleName)
	if baseStyle == nil {
		baseStyle = styles.Fallback
	}

	// Match token backgrounds to the editor pane so the chroma theme does
	// not paint its own background block.
	bgColour := chroma.MustParseColour(theme.Current().BgBase)
	style, err := baseStyle.Builder().Transform(func(entry chroma.StyleEntry) chroma.StyleEntry {
		entry.Background = bgColour
		return entry
	}).Build()
	if err != nil {
		style = baseStyle
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		logger.Warn("highlight %s: %v", fileName, err)
		return plain
	}

	// Format line by line so each line carries its own escape sequences.
	tokenLines := chroma.SplitTokensIntoLines(iterator.Tokens())
	out := make([]string, 0, len(tokenLines))
	for _, tokens := range tokenLines {
		var buf bytes.Buffer
		if err := formatter.Format(&buf, style, chroma.Literator(tokens...)); err != nil {
			logger.Warn("highlight %s: %v", fileName, err)
			return plain
		}
		out = append(out, strings.ReplaceAll(buf.String(), "\n", ""))
	}

	// SplitTokensIntoLines drops the empty line after a trailing newline.
	for len(out) < len(plain) {
		out = append(out, "")
	}
	return out[:len(plain)]
}
