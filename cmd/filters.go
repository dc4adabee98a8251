package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/shotmetrics/internal/aggregator"
	"github.com/pable/shotmetrics/internal/config"
	"github.com/pable/shotmetrics/internal/model"
	"github.com/pable/shotmetrics/internal/storage"
	"github.com/pable/shotmetrics/internal/zones"
)

// filterFlags are the shot filters shared by analyze, compare and export.
type filterFlags struct {
	matches []string
	teams   []string
	players []string
	actions []string
	grid    int
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.matches, "match", nil, "restrict to match id prefixes (repeatable or comma-separated)")
	cmd.Flags().StringSliceVar(&f.teams, "team", nil, "restrict to teams")
	cmd.Flags().StringSliceVar(&f.players, "player", nil, "restrict to players")
	cmd.Flags().StringSliceVar(&f.actions, "action", nil, "restrict to action labels")
	cmd.Flags().IntVar(&f.grid, "grid", 0, "zone grid cells per side, 1-50 (default from config)")
}

// resolve expands match id prefixes into full ids and builds the filter.
func (f *filterFlags) resolve(db *storage.DB) (model.Filter, error) {
	filter := model.Filter{Teams: f.teams, Players: f.players, Actions: f.actions}
	for _, prefix := range f.matches {
		m, err := db.GetMatchByPrefix(prefix)
		if err != nil {
			return filter, fmt.Errorf("query match: %w", err)
		}
		if m == nil {
			return filter, fmt.Errorf("no match found with id prefix %q", prefix)
		}
		filter.MatchIDs = append(filter.MatchIDs, m.MatchID)
	}
	return filter, nil
}

// gridSize returns the --grid value, or the configured size when unset.
func (f *filterFlags) gridSize() (int, error) {
	if f.grid == 0 {
		return cfg.Zones.GridSize, nil
	}
	if f.grid < config.MinGridSize || f.grid > config.MaxGridSize {
		return 0, fmt.Errorf("--grid %d out of range [%d,%d]", f.grid, config.MinGridSize, config.MaxGridSize)
	}
	return f.grid, nil
}

// runPipeline loads the selected matches' shots and runs the full analysis
// over them. Team, player and action filters are applied by the pipeline so
// the dropped count is recorded.
func runPipeline(db *storage.DB, filter model.Filter, gridSize int) (aggregator.Result, error) {
	shots, err := db.GetShots(model.Filter{MatchIDs: filter.MatchIDs})
	if err != nil {
		return aggregator.Result{}, fmt.Errorf("load shots: %w", err)
	}

	start := time.Now()
	res, err := aggregator.Run(shots, aggregator.Options{
		Pitch:      cfg.PitchGeometry(),
		Classifier: cfg.Classifier(),
		GridSize:   gridSize,
		Filter:     filter,
	})
	if err != nil {
		return aggregator.Result{}, fmt.Errorf("run pipeline: %w", err)
	}
	took := time.Since(start)
	recorder.ObserveRun(res, took)
	logger.Debugw("pipeline finished", "shots", len(res.Shots), "teams", len(res.Teams), "took", took)
	return res, nil
}

// teamGrid builds the zone grid over one team's scored shots.
func teamGrid(res aggregator.Result, team string, gridSize int) (model.Grid, error) {
	var own []model.ScoredShot
	for _, s := range res.Shots {
		if strings.EqualFold(s.Team, team) || (strings.TrimSpace(s.Team) == "" && team == aggregator.UnknownKey) {
			own = append(own, s)
		}
	}
	pitch := cfg.PitchGeometry()
	g, err := zones.Aggregate(own, pitch.HalfLineX, pitch.Width, gridSize)
	if err != nil {
		return model.Grid{}, fmt.Errorf("team zones: %w", err)
	}
	return g, nil
}
