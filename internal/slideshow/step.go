// Package slideshow holds the step navigation state machine behind a deck:
// which step is current, which file inside it is active, autoplay timing and
// change notification.
package slideshow

// File is one editor tab within a step.
type File struct {
	Name  string
	Lang  string
	Code  string
	Focus string // optional line range to emphasise, e.g. "3:7"
}

// Step is a snapshot of the multi-file editor. Steps are treated as
// immutable values: overrides produce new Step values.
type Step struct {
	ID     string
	Title  string
	Files  []File
	Active string
}

// File looks up a file by name.
func (s Step) File(name string) (File, bool) {
	for _, f := range s.Files {
		if f.Name == name {
			return f, true
		}
	}
	return File{}, false
}

// ActiveFile returns the active file. The second result is false when the
// active name does not match any file in the step.
func (s Step) ActiveFile() (File, bool) {
	return s.File(s.Active)
}

// FileIndex returns the tab position of name, or -1.
func (s Step) FileIndex(name string) int {
	for i, f := range s.Files {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// FileMap returns the step's files keyed by name.
func (s Step) FileMap() map[string]string {
	m := make(map[string]string, len(s.Files))
	for _, f := range s.Files {
		m[f.Name] = f.Code
	}
	return m
}

// WithActive returns a copy of the step with only the active file changed.
// The name is not validated.
func (s Step) WithActive(name string) Step {
	s.Active = name
	return s
}

// CodeConfig is passed through to the editor view.
type CodeConfig struct {
	Theme       string `yaml:"theme" mapstructure:"theme"`
	LineNumbers *bool  `yaml:"line_numbers" mapstructure:"line_numbers"`
	TabWidth    int    `yaml:"tab_width" mapstructure:"tab_width"`
}

// Merge returns c with every field set in override applied on top.
func (c CodeConfig) Merge(override CodeConfig) CodeConfig {
	if override.Theme != "" {
		c.Theme = override.Theme
	}
	if override.LineNumbers != nil {
		v := *override.LineNumbers
		c.LineNumbers = &v
	}
	if override.TabWidth > 0 {
		c.TabWidth = override.TabWidth
	}
	return c
}

// ShowLineNumbers reports whether line numbers are enabled.
func (c CodeConfig) ShowLineNumbers() bool {
	return c.LineNumbers != nil && *c.LineNumbers
}
