package aggregator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pable/shotmetrics/internal/classify"
	"github.com/pable/shotmetrics/internal/geometry"
	"github.com/pable/shotmetrics/internal/model"
	"github.com/pable/shotmetrics/internal/xvalue"
	"github.com/pable/shotmetrics/internal/zones"
)

// UnknownKey is used for shots with no team or player name.
const UnknownKey = "Unknown"

// DefaultGridSize is the number of zone cells per side when Options.GridSize is unset.
const DefaultGridSize = 6

// ErrInvalidOptions is returned by Run for a missing classifier or an unusable pitch.
var ErrInvalidOptions = errors.New("invalid pipeline options")

// Options configures one pipeline run.
type Options struct {
	Pitch      geometry.Pitch
	Classifier *classify.Classifier
	GridSize   int
	Filter     model.Filter
}

// Result is everything the pipeline derives from one shot collection.
type Result struct {
	Shots []model.ScoredShot
	Grid  model.Grid
	Teams []model.TeamAggregate
	// Dropped is how many raw shots the filter removed.
	Dropped int
}

// Team returns the aggregate for name (case-insensitive), or an empty
// aggregate carrying that name when the team took no shots.
func (r *Result) Team(name string) model.TeamAggregate {
	for _, t := range r.Teams {
		if equalFold(t.Team, name) {
			return t
		}
	}
	return model.TeamAggregate{Team: name, PlayerAggregates: map[string]model.PlayerAggregate{}}
}

// Run filters, normalizes, classifies and scores the raw shots, then builds
// the zone grid and team aggregates. The input slice is not modified.
func Run(raw []model.Shot, opts Options) (Result, error) {
	if opts.Classifier == nil {
		return Result{}, fmt.Errorf("%w: nil classifier", ErrInvalidOptions)
	}
	if !(opts.Pitch.HalfLineX > 0) || !(opts.Pitch.Width > 0) {
		return Result{}, fmt.Errorf("%w: pitch %gx%g", ErrInvalidOptions, opts.Pitch.HalfLineX, opts.Pitch.Width)
	}
	gridSize := opts.GridSize
	if gridSize == 0 {
		gridSize = DefaultGridSize
	}

	kept := opts.Filter.Apply(raw)

	scored := make([]model.ScoredShot, 0, len(kept))
	for _, ns := range geometry.NormalizeAll(kept, opts.Pitch) {
		scored = append(scored, Score(opts.Classifier, ns))
	}

	grid, err := zones.Aggregate(scored, opts.Pitch.HalfLineX, opts.Pitch.Width, gridSize)
	if err != nil {
		return Result{}, fmt.Errorf("aggregate zones: %w", err)
	}

	return Result{
		Shots:   scored,
		Grid:    grid,
		Teams:   BuildTeamAggregates(scored),
		Dropped: len(raw) - len(kept),
	}, nil
}

// Score classifies a normalized shot and attaches its expected values.
// xG is only computed for goal attempts.
func Score(c *classify.Classifier, ns model.NormalizedShot) model.ScoredShot {
	res := c.Classify(ns)
	attempt := xvalue.AttemptFromShot(ns)

	s := model.ScoredShot{
		NormalizedShot: ns,
		Outcome:        res.Outcome,
		PointValue:     res.PointValue,
		XPoints:        xvalue.PredictXP(attempt),
		GoalAttempt:    classify.IsGoalAttempt(ns.Action),
	}
	if s.GoalAttempt {
		s.XGoals = xvalue.PredictXG(attempt)
	}
	return s
}

// BuildTeamAggregates rolls scored shots into one aggregate per team in a
// single pass. The result is sorted by team name.
func BuildTeamAggregates(shots []model.ScoredShot) []model.TeamAggregate {
	type acc struct {
		agg     model.TeamAggregate
		distSum float64
	}
	byTeam := make(map[string]*acc)

	for _, s := range shots {
		team := keyOrUnknown(s.Team)
		a, ok := byTeam[team]
		if !ok {
			a = &acc{agg: model.TeamAggregate{
				Team:             team,
				PlayerAggregates: make(map[string]model.PlayerAggregate),
			}}
			byTeam[team] = a
		}

		player := keyOrUnknown(s.PlayerName)
		pa := a.agg.PlayerAggregates[player]
		pa.Name = player
		pa.Shots++
		pa.XP += s.XPoints
		pa.XG += s.XGoals

		a.agg.TotalShots++
		a.agg.TotalXP += s.XPoints
		a.agg.TotalXG += s.XGoals
		a.distSum += s.DistMeters

		if s.Outcome.IsSetPlay() {
			a.agg.SetPlayAttempts++
		}

		switch {
		case s.Outcome == model.OutcomeGoal:
			a.agg.Goals++
			a.agg.SuccessfulShots++
			pa.Goals++
		case s.Outcome == model.OutcomePoint || s.Outcome == model.OutcomeSetPlayScore:
			a.agg.Points += s.PointValue
			a.agg.SuccessfulShots++
			pa.Points += s.PointValue
			if s.PointValue == 2 {
				a.agg.TwoPointerCount++
				pa.TwoPointers++
			} else {
				a.agg.OnePointerCount++
			}
			if s.Outcome == model.OutcomeSetPlayScore {
				a.agg.SetPlayScores++
			}
		case s.Outcome.IsMiss():
			a.agg.Misses++
		}

		a.agg.PlayerAggregates[player] = pa
	}

	out := make([]model.TeamAggregate, 0, len(byTeam))
	for _, a := range byTeam {
		if a.agg.TotalShots > 0 {
			a.agg.AvgDistance = a.distSum / float64(a.agg.TotalShots)
		}
		out = append(out, a.agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Team < out[j].Team })
	return out
}

// SortedPlayers returns a team's player aggregates, highest scoring first.
func SortedPlayers(t model.TeamAggregate) []model.PlayerAggregate {
	out := make([]model.PlayerAggregate, 0, len(t.PlayerAggregates))
	for _, p := range t.PlayerAggregates {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		si, sj := out[i].Goals*3+out[i].Points, out[j].Goals*3+out[j].Points
		if si != sj {
			return si > sj
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func keyOrUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return UnknownKey
	}
	return s
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
