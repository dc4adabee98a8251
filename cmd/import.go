package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/shotmetrics/internal/ingest"
	"github.com/pable/shotmetrics/internal/model"
	"github.com/pable/shotmetrics/internal/storage"
)

var (
	importName string
	importDate string
)

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import JSON or CSV shot files",
	Long: `Decode one or more shot files and store them. Each file is one match; its
sha256 is the match id unless the file names one. Shots carrying their own
match_id (or game_id) are stored as separate matches. Re-importing a stored file is a no-op.

JSON files hold an array of shot objects, or an object with "shots" plus
optional "match_id", "name" and "date". CSV files need a header row.
Recognised fields: x, y, team, player, action, minute, pressure, foot,
position, touched_in_flight, id.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importName, "name", "", "match name (single file only; default file name)")
	importCmd.Flags().StringVar(&importDate, "date", "", "match date YYYY-MM-DD (single file only)")
}

func runImport(cmd *cobra.Command, args []string) error {
	if len(args) > 1 && (importName != "" || importDate != "") {
		return fmt.Errorf("--name and --date apply to a single file")
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	files, err := ingest.LoadFiles(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("load shot files: %w", err)
	}

	for _, f := range files {
		if err := storeFile(db, f); err != nil {
			return err
		}
	}
	return nil
}

// storeFile writes one decoded file as one match per match id found in it.
// Matches already stored are skipped.
func storeFile(db *storage.DB, f ingest.File) error {
	groups := f.Matches()
	for _, g := range groups {
		exists, err := db.MatchExists(g.MatchID)
		if err != nil {
			return fmt.Errorf("check match: %w", err)
		}
		if exists {
			recorder.ObserveImport(0, true)
			fmt.Fprintf(os.Stdout, "%s: match %s already stored, skipping.\n", f.Path, shortID(g.MatchID))
			continue
		}

		summary := model.MatchSummary{
			MatchID:    g.MatchID,
			Name:       f.Name,
			MatchDate:  f.MatchDate,
			SourceFile: f.Path,
		}
		if importName != "" {
			summary.Name = importName
		}
		if importDate != "" {
			summary.MatchDate = importDate
		}
		if len(groups) > 1 {
			summary.Name = fmt.Sprintf("%s [%s]", summary.Name, g.MatchID)
		}

		if err := db.StoreMatch(summary, g.Shots); err != nil {
			return fmt.Errorf("store match %s: %w", shortID(g.MatchID), err)
		}
		recorder.ObserveImport(len(g.Shots), false)
		logger.Infow("imported", "file", f.Path, "match", shortID(g.MatchID), "shots", len(g.Shots))
		fmt.Fprintf(os.Stdout, "%s: stored %d shots as match %s.\n", f.Path, len(g.Shots), shortID(g.MatchID))
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
