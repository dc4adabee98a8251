// Package classify maps shot action labels and geometry to an outcome
// category and a point value, including the two-point rule for long-range
// untouched scores.
package classify

import "github.com/pable/shotmetrics/internal/model"

// DefaultTwoPointDistance is the minimum distance in meters for a two-pointer.
const DefaultTwoPointDistance = 40.0

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithTwoPointDistance overrides the two-point threshold. Non-positive
// values are ignored.
func WithTwoPointDistance(meters float64) Option {
	return func(c *Classifier) {
		if meters > 0 {
			c.twoPointDistance = meters
		}
	}
}

// Result is the classification of one shot.
type Result struct {
	Outcome    model.OutcomeCategory
	PointValue int
}

// Classifier classifies normalized shots. The zero value is not usable;
// construct with New.
type Classifier struct {
	twoPointDistance float64
}

// New creates a Classifier with the default 40m two-point threshold.
func New(opts ...Option) *Classifier {
	c := &Classifier{twoPointDistance: DefaultTwoPointDistance}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TwoPointDistance returns the configured threshold in meters.
func (c *Classifier) TwoPointDistance() float64 {
	return c.twoPointDistance
}

// Classify is a pure function of the shot's action, distance and
// touched-in-flight flag. Rules are evaluated in order:
//
//  1. goal / penalty goal             -> goal, 3
//  2. point / free / offensive mark   -> point or setPlayScore, 1 or 2
//  3. 45 / fortyfive (exact)          -> setPlayScore, always 1
//  4. miss|wide|short|blocked|post    -> miss (setPlayMiss for restarts), 0
//  5. anything else                   -> other, 0
func (c *Classifier) Classify(s model.NormalizedShot) Result {
	l := NormalizeLabel(s.Action)

	switch {
	case goalLabels[l]:
		return Result{Outcome: model.OutcomeGoal, PointValue: 3}
	case pointLabels[l]:
		return Result{Outcome: model.OutcomePoint, PointValue: c.scoreValue(s)}
	case setPlayLabels[l]:
		return Result{Outcome: model.OutcomeSetPlayScore, PointValue: c.scoreValue(s)}
	case fortyFiveLabels[l]:
		// 45s never earn two points, whatever the distance.
		return Result{Outcome: model.OutcomeSetPlayScore, PointValue: 1}
	case hasMissKeyword(l):
		if isSetPlayLabel(l) {
			return Result{Outcome: model.OutcomeSetPlayMiss}
		}
		return Result{Outcome: model.OutcomeMiss}
	default:
		return Result{Outcome: model.OutcomeOther}
	}
}

// scoreValue applies the two-point rule: 2 iff dist >= threshold and the
// ball was not touched in flight.
func (c *Classifier) scoreValue(s model.NormalizedShot) int {
	if s.DistMeters >= c.twoPointDistance && !s.TouchedInFlight {
		return 2
	}
	return 1
}

// Apply returns a copy of s carrying its classification.
func (c *Classifier) Apply(s model.ScoredShot) model.ScoredShot {
	r := c.Classify(s.NormalizedShot)
	s.Outcome = r.Outcome
	s.PointValue = r.PointValue
	return s
}

// ToggleTouched returns a new record with TouchedInFlight flipped and the
// classification recomputed. The argument is not modified.
func (c *Classifier) ToggleTouched(s model.ScoredShot) model.ScoredShot {
	s.TouchedInFlight = !s.TouchedInFlight
	return c.Apply(s)
}
