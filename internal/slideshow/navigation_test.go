package slideshow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeSteps() []Step {
	return []Step{
		{ID: "intro", Title: "Intro", Active: "main.go", Files: []File{
			{Name: "main.go", Lang: "go", Code: "package main"},
		}},
		{ID: "handler", Title: "Handler", Active: "main.go", Files: []File{
			{Name: "main.go", Lang: "go", Code: "package main\n\nfunc main() {}"},
			{Name: "handler.go", Lang: "go", Code: "package main\n\nfunc handle() {}"},
		}},
		{ID: "done", Title: "Done", Active: "handler.go", Files: []File{
			{Name: "main.go", Lang: "go", Code: "package main\n\nfunc main() { handle() }"},
			{Name: "handler.go", Lang: "go", Code: "package main\n\nfunc handle() {}"},
		}},
	}
}

func TestInitialize_Empty(t *testing.T) {
	_, err := Initialize(nil, 0)
	require.ErrorIs(t, err, ErrNoSteps)
}

func TestInitialize_ClampsStart(t *testing.T) {
	steps := threeSteps()
	tests := []struct {
		name  string
		start int
		want  int
	}{
		{"first", 0, 0},
		{"middle", 1, 1},
		{"past end", 5, 2},
		{"negative", -3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Initialize(steps, tt.start)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.StepIndex)
			assert.Equal(t, steps[tt.want], s.ActiveStep)
		})
	}
}

func TestJumpTo_Clamps(t *testing.T) {
	steps := threeSteps()
	assert.Equal(t, 0, JumpTo(steps, -1).StepIndex)
	assert.Equal(t, 2, JumpTo(steps, 99).StepIndex)
	assert.Equal(t, "handler", JumpTo(steps, 1).ActiveStep.ID)
}

func TestAdvance_HoldsAtEndWithoutLoop(t *testing.T) {
	steps := threeSteps()
	s := JumpTo(steps, 0)

	var seen []int
	for i := 0; i < 5; i++ {
		s = Advance(steps, s, false)
		seen = append(seen, s.StepIndex)
	}
	assert.Equal(t, []int{1, 2, 2, 2, 2}, seen)
}

func TestAdvance_WrapsWithLoop(t *testing.T) {
	steps := threeSteps()
	s := JumpTo(steps, 0)

	var seen []int
	for i := 0; i < 5; i++ {
		s = Advance(steps, s, true)
		seen = append(seen, s.StepIndex)
	}
	assert.Equal(t, []int{1, 2, 0, 1, 2}, seen)
}

func TestAdvance_SingleStep(t *testing.T) {
	steps := threeSteps()[:1]
	s := JumpTo(steps, 0)
	assert.Equal(t, 0, Advance(steps, s, true).StepIndex)
	assert.Equal(t, 0, Advance(steps, s, false).StepIndex)
	assert.True(t, AtStart(s))
	assert.True(t, AtEnd(steps, s))
}

func TestSelectFile(t *testing.T) {
	steps := threeSteps()
	s := JumpTo(steps, 1)

	selected := SelectFile(s, "handler.go")
	assert.Equal(t, 1, selected.StepIndex)
	assert.Equal(t, "handler.go", selected.ActiveStep.Active)
	assert.Equal(t, s.ActiveStep.Files, selected.ActiveStep.Files)

	// The step list keeps its declared active file.
	assert.Equal(t, "main.go", steps[1].Active)
}

func TestSelectFile_DiscardedByNavigation(t *testing.T) {
	steps := threeSteps()
	s := SelectFile(JumpTo(steps, 1), "handler.go")

	s = Advance(steps, s, false)
	s = JumpTo(steps, s.StepIndex-1)
	assert.Equal(t, "main.go", s.ActiveStep.Active)

	// Jumping to the current index also resets the override.
	s = SelectFile(s, "handler.go")
	s = JumpTo(steps, s.StepIndex)
	assert.Equal(t, "main.go", s.ActiveStep.Active)
}

func TestSelectFile_UnknownName(t *testing.T) {
	steps := threeSteps()
	s := SelectFile(JumpTo(steps, 0), "missing.go")
	assert.Equal(t, "missing.go", s.ActiveStep.Active)

	_, ok := s.ActiveStep.ActiveFile()
	assert.False(t, ok)
}

func TestAtStartAtEnd(t *testing.T) {
	steps := threeSteps()
	assert.True(t, AtStart(JumpTo(steps, 0)))
	assert.False(t, AtEnd(steps, JumpTo(steps, 0)))
	assert.False(t, AtStart(JumpTo(steps, 2)))
	assert.True(t, AtEnd(steps, JumpTo(steps, 2)))
}

func TestStepHelpers(t *testing.T) {
	step := threeSteps()[2]

	f, ok := step.ActiveFile()
	require.True(t, ok)
	assert.Equal(t, "handler.go", f.Name)
	assert.Equal(t, 1, step.FileIndex("handler.go"))
	assert.Equal(t, -1, step.FileIndex("nope.go"))
	assert.Equal(t, map[string]string{
		"main.go":    "package main\n\nfunc main() { handle() }",
		"handler.go": "package main\n\nfunc handle() {}",
	}, step.FileMap())
}

func TestCodeConfig_Merge(t *testing.T) {
	on, off := true, false
	base := CodeConfig{Theme: "monokai", LineNumbers: &off, TabWidth: 4}

	merged := base.Merge(CodeConfig{LineNumbers: &on})
	assert.Equal(t, "monokai", merged.Theme)
	assert.True(t, merged.ShowLineNumbers())
	assert.Equal(t, 4, merged.TabWidth)

	merged = base.Merge(CodeConfig{Theme: "dracula", TabWidth: 2})
	assert.Equal(t, "dracula", merged.Theme)
	assert.False(t, merged.ShowLineNumbers())
	assert.Equal(t, 2, merged.TabWidth)

	assert.False(t, CodeConfig{}.ShowLineNumbers())
}
