package cmd

import (
	"testing"

	"github.com/pable/shotmetrics/internal/model"
)

func TestFilterFlags_GridSize(t *testing.T) {
	openTestStore(t)

	cases := []struct {
		grid    int
		want    int
		wantErr bool
	}{
		{0, 6, false},
		{1, 1, false},
		{50, 50, false},
		{51, 0, true},
		{100000, 0, true},
		{-3, 0, true},
	}
	for _, tc := range cases {
		f := filterFlags{grid: tc.grid}
		got, err := f.gridSize()
		if (err != nil) != tc.wantErr {
			t.Errorf("grid %d: err = %v, wantErr %v", tc.grid, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("grid %d: got %d, want %d", tc.grid, got, tc.want)
		}
	}
}

func TestRunPipeline_CountsDroppedShots(t *testing.T) {
	db := openTestStore(t)
	if err := db.StoreMatch(model.MatchSummary{MatchID: "m1"}, []model.Shot{
		{ID: "1", X: 10, Y: 44, Team: "Kerry", Action: "point"},
		{ID: "2", X: 20, Y: 30, Team: "Dublin", Action: "wide"},
		{ID: "3", X: 15, Y: 40, Team: "kerry", Action: "goal"},
	}); err != nil {
		t.Fatalf("StoreMatch: %v", err)
	}

	res, err := runPipeline(db, model.Filter{MatchIDs: []string{"m1"}, Teams: []string{"Kerry"}}, 4)
	if err != nil {
		t.Fatalf("runPipeline: %v", err)
	}
	if len(res.Shots) != 2 {
		t.Errorf("expected 2 Kerry shots, got %d", len(res.Shots))
	}
	if res.Dropped != 1 {
		t.Errorf("expected 1 dropped shot, got %d", res.Dropped)
	}
}
