package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mark3labs/stepdeck/internal/config"
	"github.com/mark3labs/stepdeck/internal/logger"
	"github.com/mark3labs/stepdeck/internal/presenter"
)

var presentFlags struct {
	start       int
	loop        bool
	autoplay    string
	noWatch     bool
	headless    bool
	previewAddr string
	sharePort   int
	remote      bool
	resume      bool
	dataDir     string
}

var presentCmd = &cobra.Command{
	Use:   "present <deck.md>",
	Short: "Present a deck",
	Long: `Present a deck in the terminal.

Settings are layered: flags win over the deck's front matter, which wins over
stepdeck.yml. The deck is reloaded when the file changes unless --no-watch is
given. With --headless no UI is drawn; step changes are printed instead and
navigation comes from autoplay, the browser preview or remote tools.`,
	Args: cobra.ExactArgs(1),
	RunE: runPresent,
}

func init() {
	addPresentFlags(presentCmd)
}

func addPresentFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVarP(&presentFlags.start, "start", "s", 0, "Zero-based step to start at")
	f.BoolVarP(&presentFlags.loop, "loop", "l", false, "Wrap from the last step to the first")
	f.StringVarP(&presentFlags.autoplay, "autoplay", "a", "", "Advance every interval, e.g. 4s or 1500 (ms); 0 disables")
	f.BoolVar(&presentFlags.noWatch, "no-watch", false, "Do not reload the deck when the file changes")
	f.BoolVar(&presentFlags.headless, "headless", false, "Run without TUI (print step changes)")
	f.StringVar(&presentFlags.previewAddr, "preview-addr", "", `Browser preview listen address, "off" to disable`)
	f.IntVar(&presentFlags.sharePort, "share-port", 0, "Serve the position to followers on this NATS port (-1 picks one)")
	f.BoolVar(&presentFlags.remote, "remote", false, "Expose MCP navigation tools over HTTP")
	f.BoolVar(&presentFlags.resume, "resume", false, "Start where the last presentation of this deck stopped")
	f.StringVar(&presentFlags.dataDir, "data-dir", "", "Directory for UI state and NATS storage")
}

// loadSettings reads the config files, applies the changed flags on top and
// configures the logger.
func loadSettings(cmd *cobra.Command) (*config.Config, presenter.Overrides, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, presenter.Overrides{}, fmt.Errorf("failed to load config: %w", err)
	}
	ov, err := applyFlags(cmd, cfg)
	if err != nil {
		return nil, presenter.Overrides{}, err
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, presenter.Overrides{}, fmt.Errorf("failed to configure logging: %w", err)
	}
	return cfg, ov, nil
}

// applyFlags copies the flags the user set into cfg and returns the
// slideshow overrides. Flags left at their defaults change nothing.
func applyFlags(cmd *cobra.Command, cfg *config.Config) (presenter.Overrides, error) {
	var ov presenter.Overrides
	changed := cmd.Flags().Changed

	if changed("start") {
		if presentFlags.start < 0 {
			return ov, fmt.Errorf("--start must be >= 0")
		}
		start := presentFlags.start
		ov.Start = &start
	}
	if changed("loop") {
		loop := presentFlags.loop
		ov.Loop = &loop
	}
	if changed("autoplay") {
		d, err := config.ParseInterval(presentFlags.autoplay)
		if err != nil {
			return ov, err
		}
		ov.AutoPlay = &d
	}
	if changed("no-watch") {
		cfg.Watch = !presentFlags.noWatch
	}
	if changed("preview-addr") {
		cfg.PreviewAddr = presentFlags.previewAddr
	}
	if changed("share-port") {
		cfg.SharePort = presentFlags.sharePort
	}
	if changed("remote") {
		cfg.Remote = presentFlags.remote
	}
	if changed("data-dir") {
		cfg.DataDir = presentFlags.dataDir
	}
	return ov, nil
}

func runPresent(cmd *cobra.Command, args []string) error {
	settings, ov, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	return present(presenter.Config{
		DeckPath:  args[0],
		Settings:  settings,
		Overrides: ov,
		Resume:    presentFlags.resume,
		Headless:  presentFlags.headless,
		Out:       cmd.OutOrStdout(),
	})
}

// present runs one presentation until the UI exits or a signal arrives.
func present(cfg presenter.Config) error {
	p, err := presenter.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to load deck: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := p.Start(); err != nil {
		_ = p.Stop()
		return err
	}
	defer func() {
		if err := p.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		}
	}()

	if err := p.Run(ctx); err != nil {
		return fmt.Errorf("presentation failed: %w", err)
	}
	return nil
}
