package main

import (
	"github.com/spf13/cobra"

	"github.com/mark3labs/stepdeck/internal/presenter"
)

var followCmd = &cobra.Command{
	Use:   "follow <nats-url> <deck.md>",
	Short: "Mirror another presenter's position",
	Long: `Open a local copy of a deck and follow the presenter sharing it.

The presenter must run with --share-port. The follower joins at the
presenter's current step and moves whenever the presenter does. Local
navigation still works until the next remote change.`,
	Args: cobra.ExactArgs(2),
	RunE: runFollow,
}

func init() {
	addPresentFlags(followCmd)
}

func runFollow(cmd *cobra.Command, args []string) error {
	settings, ov, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	// A follower never serves its own share link.
	settings.SharePort = 0
	return present(presenter.Config{
		DeckPath:  args[1],
		Settings:  settings,
		Overrides: ov,
		Headless:  presentFlags.headless,
		FollowURL: args[0],
		Out:       cmd.OutOrStdout(),
	})
}
