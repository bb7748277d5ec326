package main

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/mark3labs/stepdeck/internal/deck"
	"github.com/mark3labs/stepdeck/internal/tui/theme"
)

var stepsCmd = &cobra.Command{
	Use:   "steps <deck.md>",
	Short: "List the steps of a deck",
	Long: `Parse a deck and list its steps with their files.

The active file of each step is marked with *. Use this to check a deck
before presenting it; parse errors are reported with their line.`,
	Args: cobra.ExactArgs(1),
	RunE: runSteps,
}

// stepLine is one row of the steps listing.
type stepLine struct {
	Number  string
	Title   string
	Files   string
	Details string
}

func describeSteps(d *deck.Deck) []stepLine {
	notes, previews := d.Fragments(d.HasPreviewSteps())
	width := len(fmt.Sprint(len(d.Steps)))

	lines := make([]stepLine, len(d.Steps))
	for i, s := range d.Steps {
		files := make([]string, len(s.Files))
		var focus []string
		for j, f := range s.Files {
			files[j] = f.Name
			if f.Name == s.Active {
				files[j] += "*"
			}
			if f.Focus != "" {
				focus = append(focus, f.Name+":"+f.Focus)
			}
		}

		var details []string
		if len(focus) > 0 {
			details = append(details, "focus "+strings.Join(focus, ","))
		}
		if strings.TrimSpace(notes[i]) != "" {
			details = append(details, "notes")
		}
		if i < len(previews) {
			details = append(details, "preview")
		}

		title := s.Title
		if title == "" {
			title = s.ID
		}
		lines[i] = stepLine{
			Number:  fmt.Sprintf("%*d", width, i+1),
			Title:   title,
			Files:   strings.Join(files, " "),
			Details: strings.Join(details, ", "),
		}
	}
	return lines
}

func printSteps(w io.Writer, d *deck.Deck) {
	t := theme.Current()
	num := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted))
	title := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Primary)).Bold(true)
	files := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase))
	details := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)).Italic(true)

	lipgloss.Fprintln(w, title.Render(d.Title()))
	for _, l := range describeSteps(d) {
		row := num.Render(l.Number) + "  " + title.Render(l.Title)
		if l.Files != "" {
			row += "  " + files.Render(l.Files)
		}
		if l.Details != "" {
			row += "  " + details.Render("("+l.Details+")")
		}
		lipgloss.Fprintln(w, row)
	}
}

func runSteps(cmd *cobra.Command, args []string) error {
	d, err := deck.Load(args[0])
	if err != nil {
		return err
	}
	printSteps(cmd.OutOrStdout(), d)
	return nil
}
