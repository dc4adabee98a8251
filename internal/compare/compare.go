// Package compare computes head-to-head differentials between two team
// aggregates taken from the same filter context.
package compare

import "github.com/pable/shotmetrics/internal/model"

// Advantage names the side a metric favours.
type Advantage string

const (
	AdvantageTeamA Advantage = "teamA"
	AdvantageTeamB Advantage = "teamB"
	AdvantageEven  Advantage = "even"
)

// Metric is one compared value. Difference is always TeamA - TeamB, even
// for metrics where lower is better.
type Metric struct {
	TeamA      float64   `json:"teamA"`
	TeamB      float64   `json:"teamB"`
	Difference float64   `json:"difference"`
	Advantage  Advantage `json:"advantage"`
}

// Comparison holds the six independent metrics for a pair of teams.
type Comparison struct {
	TeamA string `json:"teamA"`
	TeamB string `json:"teamB"`

	ShotAccuracy      Metric `json:"shotAccuracy"`
	GoalConversion    Metric `json:"goalConversion"`
	AvgShotDistance   Metric `json:"avgShotDistance"`
	AvgXP             Metric `json:"avgXP"`
	SetPlayEfficiency Metric `json:"setPlayEfficiency"`
	ShotVolume        Metric `json:"shotVolume"`

	// Insufficient is set when either team took no shots.
	Insufficient bool `json:"insufficient"`
}

// Compare builds a Comparison of a against b.
func Compare(a, b model.TeamAggregate) Comparison {
	return Comparison{
		TeamA:             a.Team,
		TeamB:             b.Team,
		ShotAccuracy:      higherBetter(a.Accuracy(), b.Accuracy()),
		GoalConversion:    higherBetter(a.GoalConversion(), b.GoalConversion()),
		AvgShotDistance:   lowerBetter(a.AvgDistance, b.AvgDistance),
		AvgXP:             higherBetter(a.AvgXP(), b.AvgXP()),
		SetPlayEfficiency: higherBetter(a.SetPlayEfficiency(), b.SetPlayEfficiency()),
		ShotVolume:        higherBetter(float64(a.TotalShots), float64(b.TotalShots)),
		Insufficient:      a.TotalShots == 0 || b.TotalShots == 0,
	}
}

func higherBetter(a, b float64) Metric {
	m := Metric{TeamA: a, TeamB: b, Difference: a - b, Advantage: AdvantageEven}
	switch {
	case a > b:
		m.Advantage = AdvantageTeamA
	case b > a:
		m.Advantage = AdvantageTeamB
	}
	return m
}

func lowerBetter(a, b float64) Metric {
	m := higherBetter(a, b)
	switch m.Advantage {
	case AdvantageTeamA:
		m.Advantage = AdvantageTeamB
	case AdvantageTeamB:
		m.Advantage = AdvantageTeamA
	}
	return m
}
