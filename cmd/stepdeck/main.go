package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/mark3labs/stepdeck/internal/logger"
	"github.com/mark3labs/stepdeck/internal/tui/theme"
)

const (
	logoText1 = "█▀▀ ▀█▀ █▀▀ █▀█ █▀▄ █▀▀ █▀▀ █▄▀"
	logoText2 = "▄▄█  █  ██▄ █▀▀ █▄▀ ██▄ █▄▄ █ █"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stepdeck",
	Short: "Present code walkthroughs step by step in the terminal",
}

func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

stepdeck presents a markdown deck as a sequence of steps. Each step shows
code files in an editor pane next to speaker notes and an optional live
preview. Navigate with the keyboard or mouse, let autoplay advance the deck,
mirror it to followers over NATS, or drive it through MCP remote tools.`

	rootCmd.AddCommand(presentCmd)
	rootCmd.AddCommand(followCmd)
	rootCmd.AddCommand(stepsCmd)
	rootCmd.AddCommand(ctlCmd)
	rootCmd.AddCommand(setupCmd)
}
