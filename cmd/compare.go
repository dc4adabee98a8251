package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/shotmetrics/internal/compare"
	"github.com/pable/shotmetrics/internal/insight"
	"github.com/pable/shotmetrics/internal/report"
)

var (
	compareFilters filterFlags
	compareJSON    bool
)

var compareCmd = &cobra.Command{
	Use:   "compare <teamA> <teamB>",
	Short: "Compare two teams head to head",
	Long: `Compare shot accuracy, goal conversion, average shot distance, average xP,
set-play efficiency and shot volume for two teams over the same filtered
shots, followed by up to four insights in fixed priority order.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	compareFilters.register(compareCmd)
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "write comparison and insights as JSON")
}

type comparisonDocument struct {
	Comparison compare.Comparison `json:"comparison"`
	Insights   []insight.Insight  `json:"insights"`
}

func runCompare(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	gridSize, err := compareFilters.gridSize()
	if err != nil {
		return err
	}
	filter, err := compareFilters.resolve(db)
	if err != nil {
		return err
	}
	// Team filtering is implied by the two arguments.
	filter.Teams = nil
	res, err := runPipeline(db, filter, gridSize)
	if err != nil {
		return err
	}

	c := compare.Compare(res.Team(args[0]), res.Team(args[1]))
	ins := insight.NewGenerator(cfg.Insights).FromComparison(c)

	if compareJSON {
		return report.WriteJSON(os.Stdout, comparisonDocument{Comparison: c, Insights: ins})
	}
	if c.Insufficient {
		logger.Warnw("comparison has an empty side", "teamA", args[0], "teamB", args[1])
	}
	report.PrintComparison(os.Stdout, c)
	fmt.Fprintln(os.Stdout)
	report.PrintInsights(os.Stdout, ins)
	return nil
}
