package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mark3labs/stepdeck/internal/config"
)

var setupFlags struct {
	project bool
	force   bool
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Write a stepdeck.yml with the default settings",
	Long: `Write the built-in defaults to a stepdeck.yml you can edit.

The global file lives at $XDG_CONFIG_HOME/stepdeck/stepdeck.yml. With
--project the file is written to the current directory instead, where it
overrides the global one. Deck front matter and flags still win over both.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVarP(&setupFlags.project, "project", "p", false, "Write ./stepdeck.yml instead of the global file")
	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Replace an existing file")
}

func runSetup(cmd *cobra.Command, args []string) error {
	path, write := config.GlobalPath(), config.WriteGlobal
	if setupFlags.project {
		path, write = config.ProjectPath(), config.WriteProject
	}

	_, err := os.Stat(path)
	switch {
	case err == nil && !setupFlags.force:
		return fmt.Errorf("%s already exists, use --force to replace it", path)
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("checking %s: %w", path, err)
	}

	if err := write(config.Default()); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %s\n", path)
	fmt.Fprintln(out, "Present a deck with: stepdeck present <deck.md>")
	return nil
}
