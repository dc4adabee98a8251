package aggregator

import (
	"errors"
	"math"
	"testing"

	"github.com/pable/shotmetrics/internal/classify"
	"github.com/pable/shotmetrics/internal/geometry"
	"github.com/pable/shotmetrics/internal/model"
)

// makeScored builds a ScoredShot with just the fields the builder reads.
func makeScored(team, player string, outcome model.OutcomeCategory, points int, dist, xp, xg float64) model.ScoredShot {
	return model.ScoredShot{
		NormalizedShot: model.NormalizedShot{
			Shot:       model.Shot{Team: team, PlayerName: player},
			DistMeters: dist,
		},
		Outcome:    outcome,
		PointValue: points,
		XPoints:    xp,
		XGoals:     xg,
	}
}

func defaultOptions() Options {
	return Options{
		Pitch:      geometry.DefaultPitch,
		Classifier: classify.New(),
		GridSize:   4,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// ---- BuildTeamAggregates ----

func TestBuildTeamAggregates_Empty(t *testing.T) {
	got := BuildTeamAggregates(nil)
	if len(got) != 0 {
		t.Fatalf("expected no aggregates, got %d", len(got))
	}
}

func TestBuildTeamAggregates_Totals(t *testing.T) {
	shots := []model.ScoredShot{
		makeScored("Kerry", "Clifford", model.OutcomeGoal, 3, 12, 0.5, 0.4),
		makeScored("Kerry", "Clifford", model.OutcomePoint, 2, 42, 0.3, 0),
		makeScored("Kerry", "O'Shea", model.OutcomePoint, 1, 20, 0.6, 0),
		makeScored("Kerry", "O'Shea", model.OutcomeSetPlayScore, 1, 30, 0.7, 0),
		makeScored("Kerry", "", model.OutcomeMiss, 0, 35, 0.2, 0),
		makeScored("Kerry", "", model.OutcomeSetPlayMiss, 0, 45, 0.3, 0),
		makeScored("Kerry", "", model.OutcomeOther, 0, 16, 0.1, 0),
	}

	got := BuildTeamAggregates(shots)
	if len(got) != 1 {
		t.Fatalf("expected 1 team, got %d", len(got))
	}
	k := got[0]

	if k.TotalShots != 7 {
		t.Errorf("TotalShots: want 7, got %d", k.TotalShots)
	}
	if k.SuccessfulShots != 4 {
		t.Errorf("SuccessfulShots: want 4, got %d", k.SuccessfulShots)
	}
	if k.Goals != 1 {
		t.Errorf("Goals: want 1, got %d", k.Goals)
	}
	if k.Points != 4 {
		t.Errorf("Points: want 4, got %d", k.Points)
	}
	if k.TotalScore() != 7 {
		t.Errorf("TotalScore: want 7, got %d", k.TotalScore())
	}
	if k.Misses != 2 {
		t.Errorf("Misses: want 2, got %d", k.Misses)
	}
	if k.TwoPointerCount != 1 || k.OnePointerCount != 2 {
		t.Errorf("pointers: want 1 two / 2 one, got %d / %d", k.TwoPointerCount, k.OnePointerCount)
	}
	if k.SetPlayAttempts != 2 || k.SetPlayScores != 1 {
		t.Errorf("set plays: want 1/2, got %d/%d", k.SetPlayScores, k.SetPlayAttempts)
	}
	if !almostEqual(k.TotalXP, 2.7) {
		t.Errorf("TotalXP: want 2.7, got %f", k.TotalXP)
	}
	if !almostEqual(k.TotalXG, 0.4) {
		t.Errorf("TotalXG: want 0.4, got %f", k.TotalXG)
	}
	if !almostEqual(k.AvgDistance, 200.0/7) {
		t.Errorf("AvgDistance: want %f, got %f", 200.0/7, k.AvgDistance)
	}
	if k.SuccessfulShots > k.TotalShots {
		t.Error("SuccessfulShots exceeds TotalShots")
	}
}

func TestBuildTeamAggregates_Players(t *testing.T) {
	shots := []model.ScoredShot{
		makeScored("Kerry", "Clifford", model.OutcomeGoal, 3, 12, 0.5, 0.4),
		makeScored("Kerry", "Clifford", model.OutcomePoint, 2, 42, 0.3, 0),
		makeScored("Kerry", "", model.OutcomeMiss, 0, 35, 0.2, 0),
	}
	k := BuildTeamAggregates(shots)[0]

	c, ok := k.PlayerAggregates["Clifford"]
	if !ok {
		t.Fatal("missing player Clifford")
	}
	if c.Shots != 2 || c.Goals != 1 || c.Points != 2 || c.TwoPointers != 1 {
		t.Errorf("Clifford: unexpected aggregate %+v", c)
	}
	if !almostEqual(c.XP, 0.8) || !almostEqual(c.XG, 0.4) {
		t.Errorf("Clifford: xP/xG want 0.8/0.4, got %f/%f", c.XP, c.XG)
	}

	u, ok := k.PlayerAggregates[UnknownKey]
	if !ok {
		t.Fatal("shot without player name should land under Unknown")
	}
	if u.Shots != 1 {
		t.Errorf("Unknown: want 1 shot, got %d", u.Shots)
	}

	players := SortedPlayers(k)
	if players[0].Name != "Clifford" {
		t.Errorf("expected top scorer first, got %s", players[0].Name)
	}
}

func TestBuildTeamAggregates_SortedByTeam(t *testing.T) {
	shots := []model.ScoredShot{
		makeScored("Mayo", "a", model.OutcomePoint, 1, 20, 0.5, 0),
		makeScored("", "b", model.OutcomePoint, 1, 20, 0.5, 0),
		makeScored("Dublin", "c", model.OutcomeMiss, 0, 20, 0.5, 0),
	}
	got := BuildTeamAggregates(shots)
	want := []string{"Dublin", "Mayo", UnknownKey}
	if len(got) != len(want) {
		t.Fatalf("expected %d teams, got %d", len(want), len(got))
	}
	for i, name := range want {
		if got[i].Team != name {
			t.Errorf("team[%d]: want %s, got %s", i, name, got[i].Team)
		}
	}
}

func TestBuildTeamAggregates_ZeroDenominators(t *testing.T) {
	var empty model.TeamAggregate
	if empty.Accuracy() != 0 || empty.GoalConversion() != 0 || empty.AvgXP() != 0 || empty.SetPlayEfficiency() != 0 {
		t.Error("ratios on an empty aggregate must be 0")
	}
}

// ---- Run ----

func TestRun_NilClassifier(t *testing.T) {
	opts := defaultOptions()
	opts.Classifier = nil
	_, err := Run(nil, opts)
	if !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions, got %v", err)
	}
}

func TestRun_InvalidGrid(t *testing.T) {
	opts := defaultOptions()
	opts.GridSize = -2
	if _, err := Run(nil, opts); err == nil {
		t.Fatal("expected error for negative grid size")
	}
}

func TestRun_Empty(t *testing.T) {
	res, err := Run(nil, defaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Shots) != 0 || len(res.Teams) != 0 {
		t.Error("expected empty shots and teams")
	}
	if len(res.Grid.Zones) != 16 {
		t.Errorf("expected 16 zones, got %d", len(res.Grid.Zones))
	}
}

func TestRun_Pipeline(t *testing.T) {
	raw := []model.Shot{
		// 42m from goal on the left half: two-pointer.
		{ID: "1", MatchID: "m1", X: 10, Y: 84.77, Team: "Kerry", PlayerName: "Clifford", Action: "point"},
		// Mirrored from the right half onto (10, 44).
		{ID: "2", MatchID: "m1", X: 135, Y: 44, Team: "Kerry", PlayerName: "Clifford", Action: "goal"},
		{ID: "3", MatchID: "m1", X: 20, Y: 30, Team: "Dublin", PlayerName: "Costello", Action: "wide"},
		{ID: "4", MatchID: "m2", X: 20, Y: 30, Team: "Dublin", PlayerName: "Costello", Action: "point"},
	}
	opts := defaultOptions()
	opts.Filter = model.Filter{MatchIDs: []string{"M1"}}

	res, err := Run(raw, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Shots) != 3 || res.Dropped != 1 {
		t.Fatalf("expected 3 shots / 1 dropped, got %d / %d", len(res.Shots), res.Dropped)
	}

	first := res.Shots[0]
	if first.Outcome != model.OutcomePoint || first.PointValue != 2 {
		t.Errorf("shot 1: want point/2, got %s/%d", first.Outcome, first.PointValue)
	}
	if first.GoalAttempt || first.XGoals != 0 {
		t.Error("shot 1: point attempts carry no xG")
	}

	second := res.Shots[1]
	if second.X != 10 || second.Side != model.SideRight {
		t.Errorf("shot 2: want mirrored x=10 side=right, got x=%f side=%s", second.X, second.Side)
	}
	if !second.GoalAttempt || second.XGoals <= 0 || second.XGoals > 1 {
		t.Errorf("shot 2: expected xG in (0,1], got %f", second.XGoals)
	}

	if raw[1].X != 135 {
		t.Error("Run must not modify its input")
	}

	if res.Grid.TotalShots != 3 {
		t.Errorf("grid total: want 3, got %d", res.Grid.TotalShots)
	}

	kerry := res.Team("kerry")
	if kerry.TotalShots != 2 || kerry.Goals != 1 || kerry.Points != 2 {
		t.Errorf("Kerry: unexpected aggregate %+v", kerry)
	}
	dublin := res.Team("Dublin")
	if dublin.Misses != 1 || dublin.SuccessfulShots != 0 {
		t.Errorf("Dublin: unexpected aggregate %+v", dublin)
	}
	if none := res.Team("Mayo"); none.TotalShots != 0 || none.Team != "Mayo" {
		t.Errorf("absent team should yield empty aggregate, got %+v", none)
	}
}
