package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/shotmetrics/internal/aggregator"
	"github.com/pable/shotmetrics/internal/geometry"
	"github.com/pable/shotmetrics/internal/model"
	"github.com/pable/shotmetrics/internal/report"
	"github.com/pable/shotmetrics/internal/storage"
)

var touchCmd = &cobra.Command{
	Use:   "touch <shot-id>",
	Short: "Toggle a shot's touched-in-flight flag",
	Long: `Flip whether the ball was touched in flight, store the change, and print the
shot before and after. A touched shot can never be a two-pointer.`,
	Args: cobra.ExactArgs(1),
	RunE: runTouch,
}

func runTouch(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()
	return toggleTouch(db, args[0])
}

func toggleTouch(db *storage.DB, id string) error {
	shot, err := db.GetShot(id)
	if err != nil {
		return fmt.Errorf("get shot: %w", err)
	}
	if shot == nil {
		return fmt.Errorf("no shot with id %q", id)
	}

	classifier := cfg.Classifier()
	before := aggregator.Score(classifier, geometry.Normalize(*shot, cfg.PitchGeometry()))
	after := classifier.ToggleTouched(before)

	if err := db.SetTouched(id, after.TouchedInFlight); err != nil {
		return fmt.Errorf("store touch flag: %w", err)
	}
	logger.Infow("touch toggled", "shot", id, "touched", after.TouchedInFlight, "points", after.PointValue)

	report.PrintShotTable(os.Stdout, []model.ScoredShot{before, after})
	return nil
}
