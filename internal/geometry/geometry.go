// Package geometry mirrors shots onto a single reference half of the pitch
// and measures their distance to goal.
package geometry

import (
	"math"

	"github.com/pable/shotmetrics/internal/model"
)

// Pitch holds the constants of the reference half. The goal sits at
// (GoalX, GoalY); Width is the touchline-to-touchline extent.
type Pitch struct {
	HalfLineX float64
	GoalX     float64
	GoalY     float64
	Width     float64
}

// DefaultPitch is a 145m x 88m pitch with the goal on the left end line.
var DefaultPitch = Pitch{
	HalfLineX: 72.5,
	GoalX:     0,
	GoalY:     44,
	Width:     88,
}

// Normalize mirrors a far-half shot onto the left half and computes its
// goal-relative distance. Missing or non-finite coordinates are treated as 0.
// Normalizing an already-left shot leaves X and Y unchanged.
func Normalize(s model.Shot, p Pitch) model.NormalizedShot {
	x := finiteOrZero(s.X)
	y := finiteOrZero(s.Y)

	side := model.SideLeft
	if x > p.HalfLineX {
		x = 2*p.HalfLineX - x
		side = model.SideRight
	}

	out := s
	out.X, out.Y = x, y
	return model.NormalizedShot{
		Shot:       out,
		DistMeters: math.Hypot(x-p.GoalX, y-p.GoalY),
		Side:       side,
	}
}

// NormalizeAll normalizes every shot, preserving order.
func NormalizeAll(shots []model.Shot, p Pitch) []model.NormalizedShot {
	out := make([]model.NormalizedShot, len(shots))
	for i, s := range shots {
		out[i] = Normalize(s, p)
	}
	return out
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
