// Package xvalue predicts expected points (xP) and expected goals (xG) for a
// shot attempt from distance, pressure, position and action type.
package xvalue

import (
	"math"
	"strings"

	"github.com/pable/shotmetrics/internal/classify"
	"github.com/pable/shotmetrics/internal/model"
)

const (
	defaultXPDistance = 30.0
	defaultXGDistance = 15.0
	baseGoalRate      = 0.3
	defaultPosition   = "forward"
)

// Base conversion rate per attempt type. Unknown actions use the point rate.
var baseRates = map[classify.ActionKind]float64{
	classify.KindGoal:          0.92,
	classify.KindPoint:         0.72,
	classify.KindFree:          0.82,
	classify.KindOffensiveMark: 0.78,
	classify.KindFortyFive:     0.55,
}

// Attempt is the input to both models. HasDistance is false when the
// distance is unknown, in which case each model uses its own default.
type Attempt struct {
	Action      string
	Position    string
	Pressure    model.Pressure
	Distance    float64
	HasDistance bool
}

// AttemptFromShot builds an Attempt from a normalized shot.
func AttemptFromShot(s model.NormalizedShot) Attempt {
	return Attempt{
		Action:      s.Action,
		Position:    s.Position,
		Pressure:    s.Pressure,
		Distance:    s.DistMeters,
		HasDistance: !math.IsNaN(s.DistMeters),
	}
}

// PredictXP returns the expected points of an attempt, clamped to [0,1].
func PredictXP(a Attempt) float64 {
	rate, ok := baseRates[classify.Kind(a.Action)]
	if !ok {
		rate = baseRates[classify.KindPoint]
	}
	dist := defaultXPDistance
	if a.HasDistance {
		dist = a.Distance
	}
	return clamp01(rate * xpDistanceFactor(dist) * xpPressureFactor(a.Pressure) * xpPositionFactor(a.Position))
}

// PredictXG returns the goal probability of an attempt, clamped to [0,1].
// Callers attach it only to goal attempts (see classify.IsGoalAttempt).
func PredictXG(a Attempt) float64 {
	dist := defaultXGDistance
	if a.HasDistance {
		dist = a.Distance
	}
	return clamp01(baseGoalRate * xgDistanceFactor(dist) * xgPressureFactor(a.Pressure) * xgPositionFactor(a.Position))
}

func xpDistanceFactor(d float64) float64 {
	switch {
	case d < 20:
		return 1.0
	case d < 30:
		return 0.9
	case d < 40:
		return 0.7
	case d < 50:
		return 0.5
	default:
		return 0.3
	}
}

func xpPressureFactor(p model.Pressure) float64 {
	switch p {
	case model.PressureLow:
		return 0.9
	case model.PressureMedium:
		return 0.75
	case model.PressureHigh:
		return 0.6
	default:
		return 1.0
	}
}

func xpPositionFactor(pos string) float64 {
	pos = positionLabel(pos)
	switch {
	case strings.Contains(pos, "central"):
		return 1.1
	case strings.Contains(pos, "wide"):
		return 0.85
	default:
		return 1.0
	}
}

func xgDistanceFactor(d float64) float64 {
	switch {
	case d < 10:
		return 0.9
	case d < 15:
		return 0.7
	case d < 20:
		return 0.5
	case d < 25:
		return 0.3
	default:
		return 0.2
	}
}

func xgPressureFactor(p model.Pressure) float64 {
	switch p {
	case model.PressureNone, "":
		return 0.95
	case model.PressureLow:
		return 0.8
	case model.PressureMedium:
		return 0.6
	default:
		return 0.4
	}
}

func xgPositionFactor(pos string) float64 {
	pos = positionLabel(pos)
	switch {
	case strings.Contains(pos, "central"):
		return 0.9
	case strings.Contains(pos, "wide"):
		return 0.7
	default:
		return 0.8
	}
}

func positionLabel(pos string) string {
	pos = strings.ToLower(strings.TrimSpace(pos))
	if pos == "" {
		return defaultPosition
	}
	return pos
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
