package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/shotmetrics/internal/report"
	"github.com/pable/shotmetrics/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Query the shot store directly",
	Long: `Run a SQL query against the shot store and print the result set as a table.

Tables:
  matches(id, name, match_date, source_file, imported_at)
  shots(id, match_id, seq, x, y, team, player_name, action, minute,
    pressure, foot, position, touched_in_flight)

x and y are raw pitch coordinates in meters, before mirroring onto one half.
Example: shotmetrics sql "SELECT team, count(*) AS shots FROM shots GROUP BY team"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()
		return printQuery(os.Stdout, db, strings.Join(args, " "))
	},
}

func printQuery(w io.Writer, db *storage.DB, query string) error {
	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	logger.Debugw("query", "sql", query, "rows", len(rows))
	report.PrintRows(w, cols, rows)
	return nil
}
