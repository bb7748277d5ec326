package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mark3labs/stepdeck/internal/config"
	"github.com/mark3labs/stepdeck/internal/remote"
	"github.com/mark3labs/stepdeck/internal/slideshow"
)

var ctlFlags struct {
	url     string
	dataDir string
}

var ctlCmd = &cobra.Command{
	Use:   "ctl",
	Short: "Drive a running presentation",
	Long: `Navigate a presentation started with --remote from another terminal.

The endpoint is read from the data directory of the running presenter unless
--url is given.`,
}

func init() {
	ctlCmd.AddCommand(ctlStatusCmd)
	ctlCmd.AddCommand(ctlNextCmd)
	ctlCmd.AddCommand(ctlPrevCmd)
	ctlCmd.AddCommand(ctlGotoCmd)
	ctlCmd.AddCommand(ctlFileCmd)

	ctlCmd.PersistentFlags().StringVar(&ctlFlags.url, "url", "", "MCP endpoint of the presenter")
	ctlCmd.PersistentFlags().StringVar(&ctlFlags.dataDir, "data-dir", "", "Data directory of the presenter (default: from config)")
}

var ctlStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current step",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *remote.Client) (slideshow.Snapshot, error) {
			return c.Status(ctx)
		})
	},
}

var ctlNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Advance one step",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *remote.Client) (slideshow.Snapshot, error) {
			return c.Next(ctx)
		})
	},
}

var ctlPrevCmd = &cobra.Command{
	Use:   "prev",
	Short: "Go back one step",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *remote.Client) (slideshow.Snapshot, error) {
			return c.Prev(ctx)
		})
	},
}

var ctlGotoCmd = &cobra.Command{
	Use:   "goto <step>",
	Short: "Jump to a step (1-based)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid step %q: want a number from 1", args[0])
		}
		return withClient(cmd, func(ctx context.Context, c *remote.Client) (slideshow.Snapshot, error) {
			return c.JumpTo(ctx, n-1)
		})
	},
}

var ctlFileCmd = &cobra.Command{
	Use:   "file <name>",
	Short: "Switch the editor to a file of the current step",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *remote.Client) (slideshow.Snapshot, error) {
			return c.SelectFile(ctx, args[0])
		})
	},
}

func ctlEndpoint() (string, error) {
	if ctlFlags.url != "" {
		return ctlFlags.url, nil
	}
	dataDir := ctlFlags.dataDir
	if dataDir == "" {
		cfg, err := config.Load()
		if err != nil {
			return "", fmt.Errorf("failed to load config: %w", err)
		}
		dataDir = cfg.DataDir
	}
	url, err := remote.ReadEndpoint(dataDir)
	if err != nil {
		return "", fmt.Errorf("%w (is stepdeck present --remote running?)", err)
	}
	return url, nil
}

func withClient(cmd *cobra.Command, fn func(context.Context, *remote.Client) (slideshow.Snapshot, error)) error {
	url, err := ctlEndpoint()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	c, err := remote.Dial(ctx, url)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	snap, err := fn(ctx, c)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatSnapshot(snap))
	return nil
}

func formatSnapshot(s slideshow.Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d/%d %s", s.Index+1, s.Total, s.Title)
	if len(s.Files) > 0 {
		files := make([]string, len(s.Files))
		for i, f := range s.Files {
			files[i] = f
			if f == s.ActiveFile {
				files[i] = "[" + f + "]"
			}
		}
		fmt.Fprintf(&sb, "  %s", strings.Join(files, " "))
	}
	if s.AtEnd {
		sb.WriteString("  (end)")
	}
	return sb.String()
}
