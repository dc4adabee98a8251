package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dropForce bool

// dropCmd deletes one match, or the whole database file when no match is given.
var dropCmd = &cobra.Command{
	Use:   "drop [match-id-prefix]",
	Short: "Delete a stored match or the whole database",
	Long: `With a match id prefix, delete that match and its shots.
Without arguments, permanently delete the SQLite database file. All stored
shots will be lost. Re-import your files afterwards to rebuild.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return dropMatch(args[0])
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", cfg.DBPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(cfg.DBPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", cfg.DBPath)
	return nil
}

func dropMatch(prefix string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := db.GetMatchByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if m == nil {
		fmt.Fprintf(os.Stderr, "No match found with id prefix %q\n", prefix)
		return nil
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will delete match %s (%s, %d shots).\n", shortID(m.MatchID), m.Name, m.ShotCount)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if _, err := db.DeleteMatch(m.MatchID); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	logger.Infow("match dropped", "match", m.MatchID)
	fmt.Fprintf(os.Stdout, "Deleted match %s\n", shortID(m.MatchID))
	return nil
}
