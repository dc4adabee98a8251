package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/shotmetrics/internal/model"
	"github.com/pable/shotmetrics/internal/report"
	"github.com/pable/shotmetrics/internal/storage"
)

var showPlayer string

var showCmd = &cobra.Command{
	Use:   "show <match-id-prefix>",
	Short: "Show a stored match's scored shots and team totals",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showPlayer, "player", "", "highlight a player in the player tables")
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()
	return showMatch(db, args[0], showPlayer)
}

func showMatch(db *storage.DB, prefix, focus string) error {
	m, err := db.GetMatchByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if m == nil {
		fmt.Fprintf(os.Stderr, "No match found with id prefix %q\n", prefix)
		return nil
	}

	res, err := runPipeline(db, model.Filter{MatchIDs: []string{m.MatchID}}, cfg.Zones.GridSize)
	if err != nil {
		return err
	}

	report.PrintMatchSummary(os.Stdout, *m)
	report.PrintShotTable(os.Stdout, res.Shots)
	fmt.Fprintln(os.Stdout)
	report.PrintTeamTable(os.Stdout, res.Teams)
	for _, t := range res.Teams {
		fmt.Fprintln(os.Stdout)
		report.PrintPlayerTable(os.Stdout, t, focus)
	}
	return nil
}
