// Package insight turns comparisons and team aggregates into a short,
// deterministic list of findings.
package insight

import (
	"fmt"
	"math"

	"github.com/pable/shotmetrics/internal/compare"
	"github.com/pable/shotmetrics/internal/model"
	"github.com/pable/shotmetrics/internal/zones"
)

// Kind identifies which rule produced an insight.
type Kind string

const (
	KindAccuracy          Kind = "accuracy"
	KindGoalConversion    Kind = "goal_conversion"
	KindShotDistance      Kind = "shot_distance"
	KindSetPlayEfficiency Kind = "set_play_efficiency"
	KindExpectedPoints    Kind = "expected_points"
	KindShotVolume        Kind = "shot_volume"
	KindOptimalZone       Kind = "optimal_zone"
	KindTwoPointers       Kind = "two_pointers"
	KindSetPlayDependency Kind = "set_play_dependency"
	KindFinishing         Kind = "finishing"
	KindInsufficientData  Kind = "insufficient_data"
)

// MaxInsights caps every generated list.
const MaxInsights = 4

// Insight is one finding ready for display.
type Insight struct {
	Kind        Kind   `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// InsufficientData is returned in place of any metric when there is nothing
// to compare.
var InsufficientData = Insight{
	Kind:        KindInsufficientData,
	Title:       "Insufficient data",
	Description: "Not enough shots recorded to generate insights.",
}

// Thresholds are the minimum absolute differences (comparison rules) or
// shares (team rules) a finding must exceed to be reported.
type Thresholds struct {
	Accuracy          float64 `koanf:"accuracy"`
	GoalConversion    float64 `koanf:"goal_conversion"`
	ShotDistance      float64 `koanf:"shot_distance"`
	SetPlayEfficiency float64 `koanf:"set_play_efficiency"`
	AvgXP             float64 `koanf:"avg_xp"`
	ShotVolume        float64 `koanf:"shot_volume"`

	TwoPointerShare   float64 `koanf:"two_pointer_share"`
	SetPlayDependency float64 `koanf:"set_play_dependency"`
	FinishingMargin   float64 `koanf:"finishing_margin"`
}

// DefaultThresholds returns the stock significance thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Accuracy:          0.10,
		GoalConversion:    0.05,
		ShotDistance:      3,
		SetPlayEfficiency: 0.15,
		AvgXP:             0.05,
		ShotVolume:        5,

		TwoPointerShare:   0.25,
		SetPlayDependency: 0.40,
		FinishingMargin:   2,
	}
}

// Generator applies a fixed set of thresholds.
type Generator struct {
	th Thresholds
}

func NewGenerator(th Thresholds) *Generator {
	return &Generator{th: th}
}

// FromComparison emits up to MaxInsights comparison findings. Rules run in a
// fixed priority order and the list is truncated, never re-sorted.
func (g *Generator) FromComparison(c compare.Comparison) []Insight {
	if c.Insufficient {
		return []Insight{InsufficientData}
	}

	var out []Insight
	add := func(in Insight) bool {
		out = append(out, in)
		return len(out) >= MaxInsights
	}

	if m := c.ShotAccuracy; math.Abs(m.Difference) > g.th.Accuracy {
		if add(Insight{
			Kind:        KindAccuracy,
			Title:       "Shot accuracy",
			Description: fmt.Sprintf("%s converted %s of shots against %s for %s.", leader(c, m), pct(better(m)), pct(worse(m)), trailer(c, m)),
		}) {
			return out
		}
	}
	if m := c.GoalConversion; math.Abs(m.Difference) > g.th.GoalConversion {
		if add(Insight{
			Kind:        KindGoalConversion,
			Title:       "Goal threat",
			Description: fmt.Sprintf("%s turned %s of shots into goals against %s for %s.", leader(c, m), pct(better(m)), pct(worse(m)), trailer(c, m)),
		}) {
			return out
		}
	}
	if m := c.AvgShotDistance; math.Abs(m.Difference) > g.th.ShotDistance {
		if add(Insight{
			Kind:        KindShotDistance,
			Title:       "Shot selection",
			Description: fmt.Sprintf("%s shot from closer in on average (%.1fm vs %.1fm).", leader(c, m), better(m), worse(m)),
		}) {
			return out
		}
	}
	if m := c.SetPlayEfficiency; math.Abs(m.Difference) > g.th.SetPlayEfficiency {
		if add(Insight{
			Kind:        KindSetPlayEfficiency,
			Title:       "Set-play efficiency",
			Description: fmt.Sprintf("%s scored %s of set plays against %s for %s.", leader(c, m), pct(better(m)), pct(worse(m)), trailer(c, m)),
		}) {
			return out
		}
	}
	if m := c.AvgXP; math.Abs(m.Difference) > g.th.AvgXP {
		if add(Insight{
			Kind:        KindExpectedPoints,
			Title:       "Chance quality",
			Description: fmt.Sprintf("%s created better chances: %.2f xP per shot vs %.2f.", leader(c, m), better(m), worse(m)),
		}) {
			return out
		}
	}
	if m := c.ShotVolume; math.Abs(m.Difference) > g.th.ShotVolume {
		add(Insight{
			Kind:        KindShotVolume,
			Title:       "Shot volume",
			Description: fmt.Sprintf("%s took %.0f more shots (%.0f vs %.0f).", leader(c, m), math.Abs(m.Difference), better(m), worse(m)),
		})
	}
	return out
}

// FromTeam emits single-team findings in fixed order: best optimal zone,
// two-pointer share, set-play dependency, finishing against xP.
func (g *Generator) FromTeam(t model.TeamAggregate, grid model.Grid) []Insight {
	if t.TotalShots == 0 {
		return []Insight{InsufficientData}
	}

	var out []Insight

	if best := zones.OptimalZones(grid); len(best) > 0 {
		z := best[0]
		out = append(out, Insight{
			Kind:  KindOptimalZone,
			Title: "Best scoring zone",
			Description: fmt.Sprintf("Zone row %d, col %d (%.0f-%.0fm x, %.0f-%.0fm y) converted %d of %d shots (%s).",
				z.Row+1, z.Col+1, z.Bounds.X, z.Bounds.X+z.Bounds.Width, z.Bounds.Y, z.Bounds.Y+z.Bounds.Height,
				z.SuccessCount, z.Count, pct(z.SuccessRate)),
		})
	}

	scores := t.TwoPointerCount + t.OnePointerCount
	if scores > 0 {
		if share := float64(t.TwoPointerCount) / float64(scores); share > g.th.TwoPointerShare {
			out = append(out, Insight{
				Kind:        KindTwoPointers,
				Title:       "Long-range threat",
				Description: fmt.Sprintf("%d of %d point scores (%s) were two-pointers.", t.TwoPointerCount, scores, pct(share)),
			})
		}
	}

	if t.SuccessfulShots > 0 {
		if share := float64(t.SetPlayScores) / float64(t.SuccessfulShots); share > g.th.SetPlayDependency {
			out = append(out, Insight{
				Kind:        KindSetPlayDependency,
				Title:       "Set-play dependency",
				Description: fmt.Sprintf("%s of %s's scores came from set plays.", pct(share), t.Team),
			})
		}
	}

	if delta := float64(t.SuccessfulShots) - t.TotalXP; math.Abs(delta) > g.th.FinishingMargin {
		verb := "outperformed"
		if delta < 0 {
			verb = "underperformed"
		}
		out = append(out, Insight{
			Kind:        KindFinishing,
			Title:       "Finishing",
			Description: fmt.Sprintf("%s %s expectation: %d scores from %.1f xP.", t.Team, verb, t.SuccessfulShots, t.TotalXP),
		})
	}

	if len(out) > MaxInsights {
		out = out[:MaxInsights]
	}
	return out
}

func leader(c compare.Comparison, m compare.Metric) string {
	if m.Advantage == compare.AdvantageTeamB {
		return c.TeamB
	}
	return c.TeamA
}

func trailer(c compare.Comparison, m compare.Metric) string {
	if m.Advantage == compare.AdvantageTeamB {
		return c.TeamA
	}
	return c.TeamB
}

// better returns the advantaged side's value.
func better(m compare.Metric) float64 {
	if m.Advantage == compare.AdvantageTeamB {
		return m.TeamB
	}
	return m.TeamA
}

func worse(m compare.Metric) float64 {
	if m.Advantage == compare.AdvantageTeamB {
		return m.TeamA
	}
	return m.TeamB
}

func pct(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}
