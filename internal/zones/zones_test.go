package zones

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/shotmetrics/internal/model"
)

func scored(x, y float64, action string, outcome model.OutcomeCategory) model.ScoredShot {
	return model.ScoredShot{
		NormalizedShot: model.NormalizedShot{Shot: model.Shot{X: x, Y: y, Action: action}},
		Outcome:        outcome,
	}
}

func TestAggregate_InvalidGrid(t *testing.T) {
	_, err := Aggregate(nil, 72.5, 88, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidGrid))

	_, err = Aggregate(nil, 0, 88, 4)
	assert.True(t, errors.Is(err, ErrInvalidGrid))

	_, err = Aggregate(nil, 72.5, math.NaN(), 4)
	assert.True(t, errors.Is(err, ErrInvalidGrid))
}

func TestAggregate_Empty(t *testing.T) {
	g, err := Aggregate(nil, 72.5, 88, 6)
	require.NoError(t, err)
	assert.Len(t, g.Zones, 36)
	assert.Equal(t, 0, g.TotalShots)
	assert.Equal(t, 0, g.MaxCount)
	for _, z := range g.Zones {
		assert.Equal(t, 0.0, z.Density)
		assert.Equal(t, 0.0, z.SuccessRate)
	}
	assert.Empty(t, OptimalZones(g))
	assert.Empty(t, VulnerableZones(g))
}

func TestAggregate_CellMetadata(t *testing.T) {
	g, err := Aggregate(nil, 80, 40, 4)
	require.NoError(t, err)
	assert.Equal(t, 20.0, g.CellWidth)
	assert.Equal(t, 10.0, g.CellHeight)

	z := g.Cell(2, 3)
	require.NotNil(t, z)
	assert.Equal(t, model.Bounds{X: 60, Y: 20, Width: 20, Height: 10}, z.Bounds)
	assert.Nil(t, g.Cell(4, 0))
}

func TestAggregate_PartitionProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, gridSize := range []int{1, 4, 7, 12} {
		shots := make([]model.ScoredShot, 500)
		for i := range shots {
			// Deliberately spill past both edges.
			shots[i] = scored(rng.Float64()*100-10, rng.Float64()*110-10, "point", model.OutcomePoint)
		}
		shots = append(shots, scored(math.NaN(), math.Inf(1), "wide", model.OutcomeMiss))

		g, err := Aggregate(shots, 72.5, 88, gridSize)
		require.NoError(t, err)

		sum := 0
		for _, z := range g.Zones {
			sum += z.Count
			assert.Len(t, z.Shots, z.Count)
		}
		assert.Equal(t, len(shots), sum, "grid %d", gridSize)
		assert.Equal(t, len(shots), g.TotalShots)
	}
}

func TestAggregate_ClampsToBorderCells(t *testing.T) {
	shots := []model.ScoredShot{
		scored(-5, -5, "point", model.OutcomePoint),
		scored(72.5, 88, "point", model.OutcomePoint),
		scored(500, 10, "point", model.OutcomePoint),
	}
	g, err := Aggregate(shots, 72.5, 88, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Cell(0, 0).Count)
	assert.Equal(t, 1, g.Cell(3, 3).Count)
	assert.Equal(t, 1, g.Cell(0, 3).Count)
}

func TestAggregate_DensityAndSuccessRate(t *testing.T) {
	shots := []model.ScoredShot{
		scored(1, 1, "point", model.OutcomePoint),
		scored(2, 2, "wide", model.OutcomeMiss),
		scored(3, 3, "goal", model.OutcomeGoal),
		scored(4, 4, "blocked", model.OutcomeMiss),
		scored(60, 80, "free", model.OutcomeSetPlayScore),
		scored(61, 81, "45 wide", model.OutcomeSetPlayMiss),
	}
	g, err := Aggregate(shots, 72.5, 88, 4)
	require.NoError(t, err)

	a := g.Cell(0, 0)
	b := g.Cell(3, 3)
	assert.Equal(t, 4, g.MaxCount)
	assert.Equal(t, 1.0, a.Density)
	assert.Equal(t, 0.5, b.Density)
	assert.Equal(t, 2, a.SuccessCount)
	assert.Equal(t, 0.5, a.SuccessRate)
	assert.Equal(t, 1, a.BlockedCount)
	assert.Equal(t, 0.25, a.BlockRate())
	assert.Equal(t, 0.5, b.SuccessRate)

	for _, z := range g.Zones {
		assert.True(t, z.Density >= 0 && z.Density <= 1)
		assert.True(t, z.SuccessRate >= 0 && z.SuccessRate <= 1)
		for _, o := range g.Zones {
			if z.Count > o.Count {
				assert.GreaterOrEqual(t, z.Density, o.Density)
			}
		}
	}
}

func TestOptimalZones(t *testing.T) {
	var shots []model.ScoredShot
	add := func(x, y float64, scores, misses int) {
		for i := 0; i < scores; i++ {
			shots = append(shots, scored(x, y, "point", model.OutcomePoint))
		}
		for i := 0; i < misses; i++ {
			shots = append(shots, scored(x, y, "wide", model.OutcomeMiss))
		}
	}
	add(5, 5, 3, 1)   // 0.75
	add(25, 5, 4, 0)  // 1.00
	add(45, 5, 2, 1)  // 0.67
	add(65, 5, 7, 3)  // 0.70
	add(5, 30, 1, 3)  // 0.25, excluded
	add(25, 30, 2, 0) // too few shots

	g, err := Aggregate(shots, 80, 80, 4)
	require.NoError(t, err)

	got := OptimalZones(g)
	require.Len(t, got, 3)
	assert.Equal(t, 1.0, got[0].SuccessRate)
	assert.Equal(t, 0.75, got[1].SuccessRate)
	assert.InDelta(t, 0.70, got[2].SuccessRate, 1e-9)
}

func TestVulnerableZones(t *testing.T) {
	var shots []model.ScoredShot
	add := func(x, y float64, n int, action string, outcome model.OutcomeCategory) {
		for i := 0; i < n; i++ {
			shots = append(shots, scored(x, y, action, outcome))
		}
	}
	add(5, 5, 6, "point", model.OutcomePoint)   // densest
	add(25, 5, 4, "blocked", model.OutcomeMiss) // blocked, same count as next
	add(45, 5, 4, "point", model.OutcomePoint)  // unblocked, ranks before blocked
	add(65, 5, 3, "wide", model.OutcomeMiss)    // fourth, truncated
	add(65, 65, 2, "point", model.OutcomePoint) // below min count

	g, err := Aggregate(shots, 80, 80, 4)
	require.NoError(t, err)

	got := VulnerableZones(g)
	require.Len(t, got, 3)
	assert.Equal(t, 6, got[0].Count)
	assert.Equal(t, 2, got[1].Col)
	assert.Equal(t, 1, got[2].Col)
}
