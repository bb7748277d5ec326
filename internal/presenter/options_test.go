package presenter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/stepdeck/internal/config"
	"github.com/mark3labs/stepdeck/internal/deck"
)

func TestResolve_Precedence(t *testing.T) {
	cfg := config.Default()
	cfg.Start = 1
	cfg.Loop = true
	cfg.AutoPlay = "2s"
	cfg.AutoFocus = false

	d, err := deck.Parse([]byte("---\nloop: false\nautoplay: 4s\n---\n# A\n\n---\n\n# B\n\n---\n\n# C\n"))
	require.NoError(t, err)

	opts, err := Resolve(cfg, d, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, 1, opts.Start, "config applies where the deck is silent")
	assert.False(t, opts.Loop, "front matter beats config")
	assert.Equal(t, 4*time.Second, opts.AutoPlay)
	assert.False(t, opts.AutoFocus)
	assert.Equal(t, "monokai", opts.CodeConfig.Theme)

	start, loop, every := 0, true, time.Second
	opts, err = Resolve(cfg, d, Overrides{Start: &start, Loop: &loop, AutoPlay: &every})
	require.NoError(t, err)
	assert.Equal(t, 0, opts.Start, "flags beat config")
	assert.True(t, opts.Loop, "flags beat front matter")
	assert.Equal(t, time.Second, opts.AutoPlay)
}

func TestResolve_InvalidConfigAutoplay(t *testing.T) {
	cfg := config.Default()
	cfg.AutoPlay = "soon"
	d, err := deck.Parse([]byte("# A\n"))
	require.NoError(t, err)

	_, err = Resolve(cfg, d, Overrides{})
	assert.Error(t, err)
}

func TestResolve_ConfigPreviewSteps(t *testing.T) {
	cfg := config.Default()
	cfg.PreviewSteps = true
	d, err := deck.Parse([]byte("# A\n\nNo previews here.\n"))
	require.NoError(t, err)

	opts, err := Resolve(cfg, d, Overrides{})
	require.NoError(t, err)
	assert.True(t, opts.HasPreviewSteps)
	assert.Empty(t, opts.Previews)

	d, err = deck.Parse([]byte("---\npreview_steps: false\n---\n# A\n"))
	require.NoError(t, err)
	opts, err = Resolve(cfg, d, Overrides{})
	require.NoError(t, err)
	assert.False(t, opts.HasPreviewSteps, "front matter beats config")
}
