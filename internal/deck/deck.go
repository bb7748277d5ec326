// Package deck parses markdown decks into slideshow steps, notes and preview
// fragments.
package deck

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mark3labs/stepdeck/internal/slideshow"
)

// ErrEmptyDeck is returned when a deck contains no steps.
var ErrEmptyDeck = errors.New("deck: no steps found")

// Duration accepts either a Go duration string ("4s") or an integer number of
// milliseconds in YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: autoplay must be a duration or milliseconds", value.Line)
	}
	if value.ShortTag() == "!!int" {
		ms, err := strconv.ParseInt(value.Value, 10, 64)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Meta is the optional YAML front matter of a deck. Pointer fields are nil
// when the deck does not set them, so callers can layer them over config.
type Meta struct {
	Title        string                  `yaml:"title,omitempty"`
	Start        *int                    `yaml:"start,omitempty"`
	Loop         *bool                   `yaml:"loop,omitempty"`
	AutoPlay     *Duration               `yaml:"autoplay,omitempty"`
	AutoFocus    *bool                   `yaml:"auto_focus,omitempty"`
	PreviewSteps *bool                   `yaml:"preview_steps,omitempty"`
	Preview      *slideshow.PresetConfig `yaml:"preview,omitempty"`
	Code         slideshow.CodeConfig    `yaml:"code,omitempty"`
}

// Deck is a parsed deck file.
type Deck struct {
	Path     string
	Meta     Meta
	Steps    []slideshow.Step
	sections []section
}

// Load reads and parses the deck at path.
func Load(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading deck: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	d.Path = path
	return d, nil
}

// Parse parses deck source.
func Parse(src []byte) (*Deck, error) {
	front, body, err := splitFrontMatter(src)
	if err != nil {
		return nil, err
	}

	var meta Meta
	if len(front) > 0 {
		if err := yaml.Unmarshal(front, &meta); err != nil {
			return nil, fmt.Errorf("parsing front matter: %w", err)
		}
	}

	sections := parseSections(body)
	if len(sections) == 0 {
		return nil, ErrEmptyDeck
	}

	return &Deck{
		Meta:     meta,
		Steps:    buildSteps(sections),
		sections: sections,
	}, nil
}

// Title returns the front matter title, falling back to the first step title.
func (d *Deck) Title() string {
	if d.Meta.Title != "" {
		return d.Meta.Title
	}
	for _, s := range d.Steps {
		if s.Title != "" {
			return s.Title
		}
	}
	return "stepdeck"
}

// HasPreviewSteps reports whether the deck asks for per-step previews. An
// explicit preview_steps wins; otherwise any preview block turns it on.
func (d *Deck) HasPreviewSteps() bool {
	if d.Meta.PreviewSteps != nil {
		return *d.Meta.PreviewSteps
	}
	for _, s := range d.sections {
		for _, b := range s.blocks {
			if b.kind == blockPreview {
				return true
			}
		}
	}
	return false
}

// Fragments splits every step's content into its note and its preview
// fragment. Without hasPreviewSteps preview blocks stay in the note as plain
// code. notes is always index-aligned with Steps; previews stops after the
// last step that declares one.
func (d *Deck) Fragments(hasPreviewSteps bool) (notes []string, previews []slideshow.Fragment) {
	notes = make([]string, len(d.sections))
	last := -1
	all := make([]slideshow.Fragment, len(d.sections))

	for i, s := range d.sections {
		var note []string
		var preview []string
		format := ""
		for _, b := range s.blocks {
			if b.kind == blockPreview && hasPreviewSteps {
				preview = append(preview, b.body)
				if format == "" {
					format = b.format
				}
				continue
			}
			note = append(note, b.raw)
		}
		notes[i] = strings.Join(note, "\n\n")
		if preview != nil {
			all[i] = slideshow.Fragment{Body: strings.Join(preview, "\n"), Format: format}
			last = i
		}
	}

	return notes, all[:last+1]
}

// Options layers the deck over base, which usually carries the config file
// settings. Steps, notes and previews always come from the deck; front
// matter settings replace base values only where they are set. The deck's
// code block is passed as Code so it wins over base.CodeConfig.
func (d *Deck) Options(base slideshow.Options) slideshow.Options {
	opts := base
	m := d.Meta

	opts.Steps = d.Steps
	if m.Start != nil {
		opts.Start = *m.Start
	}
	if m.Loop != nil {
		opts.Loop = *m.Loop
	}
	if m.AutoPlay != nil {
		opts.AutoPlay = time.Duration(*m.AutoPlay)
	}
	if m.AutoFocus != nil {
		opts.AutoFocus = *m.AutoFocus
	}
	if m.Preview != nil {
		opts.Preset = m.Preview
	}

	hasPreviewSteps := d.HasPreviewSteps()
	if m.PreviewSteps == nil && base.HasPreviewSteps {
		hasPreviewSteps = true
	}
	opts.HasPreviewSteps = hasPreviewSteps
	opts.Notes, opts.Previews = d.Fragments(hasPreviewSteps)
	opts.Code = m.Code
	return opts
}

var frontMatterFence = []byte("---")

// splitFrontMatter separates a leading "---" delimited YAML block from the
// markdown body.
func splitFrontMatter(src []byte) (front, body []byte, err error) {
	src = bytes.TrimPrefix(src, []byte("\xef\xbb\xbf"))
	first, rest, ok := bytes.Cut(src, []byte("\n"))
	if !ok || !bytes.Equal(bytes.TrimRight(first, " \t\r"), frontMatterFence) {
		return nil, src, nil
	}

	offset := 0
	for offset <= len(rest) {
		line, next, more := bytes.Cut(rest[offset:], []byte("\n"))
		if bytes.Equal(bytes.TrimRight(line, " \t\r"), frontMatterFence) {
			if !more {
				return rest[:offset], nil, nil
			}
			return rest[:offset], next, nil
		}
		if !more {
			break
		}
		offset += len(line) + 1
	}
	return nil, nil, errors.New("unterminated front matter")
}
