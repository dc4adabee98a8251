package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/shotmetrics/internal/insight"
	"github.com/pable/shotmetrics/internal/report"
)

var (
	analyzeFilters filterFlags
	analyzeJSON    bool
	analyzeShots   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the shot pipeline over stored shots",
	Long: `Filter stored shots, then normalize, classify and score them and print the
zone heatmap, optimal and vulnerable zones, team and player aggregates, and
per-team insights. --json writes the same data as one JSON document.`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	analyzeFilters.register(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "write the render document as JSON instead of tables")
	analyzeCmd.Flags().BoolVar(&analyzeShots, "shots", false, "also print every scored shot")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	gridSize, err := analyzeFilters.gridSize()
	if err != nil {
		return err
	}
	filter, err := analyzeFilters.resolve(db)
	if err != nil {
		return err
	}
	res, err := runPipeline(db, filter, gridSize)
	if err != nil {
		return err
	}

	gen := insight.NewGenerator(cfg.Insights)
	teamInsights := make(map[string][]insight.Insight, len(res.Teams))
	for _, t := range res.Teams {
		grid, err := teamGrid(res, t.Team, gridSize)
		if err != nil {
			return err
		}
		teamInsights[t.Team] = gen.FromTeam(t, grid)
	}

	if analyzeJSON {
		return report.WriteJSON(os.Stdout, report.NewRenderDocument(res, teamInsights))
	}

	if len(res.Shots) == 0 {
		fmt.Fprintln(os.Stdout, "No shots match the filter.")
		report.PrintInsights(os.Stdout, []insight.Insight{insight.InsufficientData})
		return nil
	}

	if analyzeShots {
		report.PrintShotTable(os.Stdout, res.Shots)
		fmt.Fprintln(os.Stdout)
	}
	report.PrintHeatmap(os.Stdout, res.Grid)
	fmt.Fprintln(os.Stdout)
	report.PrintZoneSelections(os.Stdout, res.Grid)
	fmt.Fprintln(os.Stdout)
	report.PrintTeamTable(os.Stdout, res.Teams)
	for _, t := range res.Teams {
		fmt.Fprintln(os.Stdout)
		report.PrintPlayerTable(os.Stdout, t, "")
		report.PrintInsights(os.Stdout, teamInsights[t.Team])
	}
	return nil
}
