package presenter

import (
	"time"

	"github.com/mark3labs/stepdeck/internal/config"
	"github.com/mark3labs/stepdeck/internal/deck"
	"github.com/mark3labs/stepdeck/internal/slideshow"
)

// Overrides are command line settings. Nil fields were not given and leave
// the deck and config values alone.
type Overrides struct {
	Start    *int
	Loop     *bool
	AutoPlay *time.Duration
}

// Resolve builds slideshow options for d. Precedence, highest first:
// command line overrides, deck front matter, config file.
func Resolve(cfg *config.Config, d *deck.Deck, ov Overrides) (slideshow.Options, error) {
	autoPlay, err := cfg.AutoPlayInterval()
	if err != nil {
		return slideshow.Options{}, err
	}

	base := slideshow.Options{
		Start:           cfg.Start,
		Loop:            cfg.Loop,
		AutoPlay:        autoPlay,
		AutoFocus:       cfg.AutoFocus,
		HasPreviewSteps: cfg.PreviewSteps,
		CodeConfig:      cfg.Code(),
	}
	opts := d.Options(base)

	if ov.Start != nil {
		opts.Start = *ov.Start
	}
	if ov.Loop != nil {
		opts.Loop = *ov.Loop
	}
	if ov.AutoPlay != nil {
		opts.AutoPlay = *ov.AutoPlay
	}
	return opts, nil
}
