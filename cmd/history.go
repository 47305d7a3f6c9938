package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ytap/internal/config"
	"ytap/internal/history"
	"ytap/internal/httputil"
	"ytap/internal/ui"
)

var flagReplay bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously played tracks",
	Args:  cobra.NoArgs,
	RunE:  historyRun,
}

func init() {
	historyCmd.Flags().BoolVarP(&flagReplay, "replay", "r", false, "Pick an entry with fzf and start playing from it")
}

func historyRun(cmd *cobra.Command, args []string) error {
	path, err := config.HistoryPath()
	if err != nil {
		return err
	}

	plays, err := history.NewJournal(path).Load()
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	if len(plays) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No history entries found.")
		return nil
	}

	items := history.FormatForDisplay(plays, time.Now())
	if !flagReplay {
		for _, item := range items {
			fmt.Fprintln(cmd.OutOrStdout(), item)
		}
		return nil
	}

	idx, err := ui.FzfSelect("History", items)
	if err != nil {
		return err
	}

	// FormatForDisplay lists newest first.
	selected := plays[len(plays)-1-idx]
	link := selected.PageURL
	if link == "" {
		link = httputil.WatchURL(selected.ID)
	}
	return runSession(cmd.Context(), link)
}
