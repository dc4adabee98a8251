package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/shotmetrics/internal/model"
	"github.com/pable/shotmetrics/internal/report"
)

var (
	exportFilters filterFlags
	exportOut     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export scored shots as CSV",
	Long: `Write one CSV row per scored shot: match, team, player, action, outcome,
points, x, y, distance, minute, xPoints, xGoals, pressure, position.
Coordinates are normalized onto the reference half.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportFilters.register(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	gridSize, err := exportFilters.gridSize()
	if err != nil {
		return err
	}
	filter, err := exportFilters.resolve(db)
	if err != nil {
		return err
	}
	res, err := runPipeline(db, filter, gridSize)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := report.WriteCSV(w, model.ExportRows(res.Shots)); err != nil {
		return err
	}
	if exportOut != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d rows to %s\n", len(res.Shots), exportOut)
	}
	return nil
}
