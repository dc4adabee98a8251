package model

import "strings"

// Side is the physical pitch half a shot was taken from.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Pressure is the defensive pressure on the shooter.
type Pressure string

const (
	PressureNone   Pressure = "none"
	PressureLow    Pressure = "low"
	PressureMedium Pressure = "medium"
	PressureHigh   Pressure = "high"
)

// ParsePressure maps a free-text label onto a Pressure. Unknown or empty
// labels become PressureNone.
func ParsePressure(s string) Pressure {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PressureLow
	case "medium", "med":
		return PressureMedium
	case "high":
		return PressureHigh
	default:
		return PressureNone
	}
}

// OutcomeCategory is the discrete result of a shot.
type OutcomeCategory string

const (
	OutcomeGoal         OutcomeCategory = "goal"
	OutcomePoint        OutcomeCategory = "point"
	OutcomeSetPlayScore OutcomeCategory = "setPlayScore"
	OutcomeSetPlayMiss  OutcomeCategory = "setPlayMiss"
	OutcomeMiss         OutcomeCategory = "miss"
	OutcomeOther        OutcomeCategory = "other"
)

// IsSuccess reports whether the category is a score. This is the single
// success predicate shared by zones, team aggregates and comparisons.
func (c OutcomeCategory) IsSuccess() bool {
	return c == OutcomeGoal || c == OutcomePoint || c == OutcomeSetPlayScore
}

// IsMiss reports whether the category is an unsuccessful attempt.
func (c OutcomeCategory) IsMiss() bool {
	return c == OutcomeMiss || c == OutcomeSetPlayMiss
}

// IsSetPlay reports whether the category came from a restart.
func (c OutcomeCategory) IsSetPlay() bool {
	return c == OutcomeSetPlayScore || c == OutcomeSetPlayMiss
}

// ---- Raw input ----

// Shot is one raw shot event as supplied by storage or an input file.
// X and Y are pitch-absolute meters.
type Shot struct {
	ID              string
	MatchID         string
	X, Y            float64
	Team            string
	PlayerName      string
	Action          string
	Minute          int
	Pressure        Pressure
	Foot            string
	Position        string
	TouchedInFlight bool
}

// NormalizedShot is a Shot mirrored onto the reference half.
// X and Y hold the mirrored coordinates.
type NormalizedShot struct {
	Shot
	DistMeters float64
	Side       Side
}

// ScoredShot is a NormalizedShot with its classification and expected values.
type ScoredShot struct {
	NormalizedShot
	Outcome     OutcomeCategory
	PointValue  int
	XPoints     float64
	XGoals      float64 // 0 unless GoalAttempt
	GoalAttempt bool
}

// ---- Zones ----

// Bounds is an axis-aligned rectangle in meters.
type Bounds struct {
	X, Y          float64
	Width, Height float64
}

// Zone is one heatmap cell over a pitch half.
type Zone struct {
	Row, Col     int
	Bounds       Bounds
	Count        int
	Density      float64 // Count / max count in grid
	SuccessCount int
	SuccessRate  float64
	BlockedCount int
	Shots        []ScoredShot
}

// BlockRate is the share of shots in the zone that were blocked.
func (z *Zone) BlockRate() float64 {
	if z.Count == 0 {
		return 0
	}
	return float64(z.BlockedCount) / float64(z.Count)
}

// Grid is the full zone partition of one pitch half.
type Grid struct {
	GridSize   int
	Width      float64
	Height     float64
	CellWidth  float64
	CellHeight float64
	TotalShots int
	MaxCount   int
	Zones      []Zone // row-major, empty cells included
}

// Cell returns the zone at (row, col), or nil when out of range.
func (g *Grid) Cell(row, col int) *Zone {
	if row < 0 || col < 0 || row >= g.GridSize || col >= g.GridSize {
		return nil
	}
	return &g.Zones[row*g.GridSize+col]
}

// ---- Aggregates ----

// PlayerAggregate holds per-player totals within a team.
type PlayerAggregate struct {
	Name        string
	Shots       int
	Goals       int
	Points      int
	TwoPointers int
	XP          float64
	XG          float64
}

// TeamAggregate holds per-team totals over a shot collection.
type TeamAggregate struct {
	Team            string
	TotalShots      int
	SuccessfulShots int
	Goals           int
	Points          int // sum of PointValue over point/setPlayScore outcomes
	Misses          int
	TwoPointerCount int
	OnePointerCount int
	SetPlayAttempts int
	SetPlayScores   int
	TotalXP         float64
	TotalXG         float64
	AvgDistance     float64

	PlayerAggregates map[string]PlayerAggregate
}

// TotalScore is the scoreboard total: goals count three.
func (a *TeamAggregate) TotalScore() int {
	return a.Goals*3 + a.Points
}

func (a *TeamAggregate) Accuracy() float64 {
	if a.TotalShots == 0 {
		return 0
	}
	return float64(a.SuccessfulShots) / float64(a.TotalShots)
}

func (a *TeamAggregate) GoalConversion() float64 {
	if a.TotalShots == 0 {
		return 0
	}
	return float64(a.Goals) / float64(a.TotalShots)
}

func (a *TeamAggregate) AvgXP() float64 {
	if a.TotalShots == 0 {
		return 0
	}
	return a.TotalXP / float64(a.TotalShots)
}

func (a *TeamAggregate) SetPlayEfficiency() float64 {
	if a.SetPlayAttempts == 0 {
		return 0
	}
	return float64(a.SetPlayScores) / float64(a.SetPlayAttempts)
}

// ---- Filtering ----

// Filter restricts a raw shot collection. Empty fields do not restrict;
// matching is case-insensitive.
type Filter struct {
	MatchIDs []string
	Teams    []string
	Players  []string
	Actions  []string
}

// Apply returns the shots that pass every non-empty criterion. The input is
// not modified.
func (f Filter) Apply(shots []Shot) []Shot {
	out := make([]Shot, 0, len(shots))
	for _, s := range shots {
		if !matchAny(f.MatchIDs, s.MatchID) ||
			!matchAny(f.Teams, s.Team) ||
			!matchAny(f.Players, s.PlayerName) ||
			!matchAny(f.Actions, s.Action) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func matchAny(allowed []string, v string) bool {
	if len(allowed) == 0 {
		return true
	}
	v = strings.TrimSpace(v)
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimSpace(a), v) {
			return true
		}
	}
	return false
}

// ---- Storage / export records ----

// MatchSummary is a lightweight record for list commands.
type MatchSummary struct {
	MatchID    string
	Name       string
	MatchDate  string
	SourceFile string
	ShotCount  int
}

// ExportRow is the flattened projection of a ScoredShot for tabular export.
type ExportRow struct {
	Match    string
	Team     string
	Player   string
	Action   string
	Outcome  string
	Points   int
	X, Y     float64
	Distance float64
	Minute   int
	XPoints  float64
	XGoals   float64
	Pressure string
	Position string
}

// ExportRows projects scored shots into export rows without recomputation.
func ExportRows(shots []ScoredShot) []ExportRow {
	rows := make([]ExportRow, 0, len(shots))
	for _, s := range shots {
		rows = append(rows, ExportRow{
			Match:    s.MatchID,
			Team:     s.Team,
			Player:   s.PlayerName,
			Action:   s.Action,
			Outcome:  string(s.Outcome),
			Points:   s.PointValue,
			X:        s.X,
			Y:        s.Y,
			Distance: s.DistMeters,
			Minute:   s.Minute,
			XPoints:  s.XPoints,
			XGoals:   s.XGoals,
			Pressure: string(s.Pressure),
			Position: s.Position,
		})
	}
	return rows
}
