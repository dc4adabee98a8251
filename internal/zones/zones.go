// Package zones buckets shots into a square grid over one pitch half and
// selects the attacking and defensive zones of interest.
package zones

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/pable/shotmetrics/internal/classify"
	"github.com/pable/shotmetrics/internal/model"
)

// Zone selection thresholds.
const (
	MinZoneShots      = 3
	MinOptimalSuccess = 0.65
	MaxSelectedZones  = 3
)

// ErrInvalidGrid is returned for non-positive grid sizes or dimensions.
var ErrInvalidGrid = errors.New("invalid grid")

// Aggregate places every shot into exactly one cell of a gridSize x gridSize
// grid covering [0,width] x [0,height]. Out-of-range coordinates are clamped
// to the border cells, so cell counts always sum to len(shots).
func Aggregate(shots []model.ScoredShot, width, height float64, gridSize int) (model.Grid, error) {
	if gridSize <= 0 {
		return model.Grid{}, fmt.Errorf("%w: grid size %d", ErrInvalidGrid, gridSize)
	}
	if !(width > 0) || !(height > 0) {
		return model.Grid{}, fmt.Errorf("%w: dimensions %gx%g", ErrInvalidGrid, width, height)
	}

	cellW := width / float64(gridSize)
	cellH := height / float64(gridSize)

	g := model.Grid{
		GridSize:   gridSize,
		Width:      width,
		Height:     height,
		CellWidth:  cellW,
		CellHeight: cellH,
		TotalShots: len(shots),
		Zones:      make([]model.Zone, gridSize*gridSize),
	}
	for row := 0; row < gridSize; row++ {
		for col := 0; col < gridSize; col++ {
			g.Zones[row*gridSize+col] = model.Zone{
				Row: row,
				Col: col,
				Bounds: model.Bounds{
					X:      float64(col) * cellW,
					Y:      float64(row) * cellH,
					Width:  cellW,
					Height: cellH,
				},
			}
		}
	}

	for _, s := range shots {
		col := cellIndex(s.X, cellW, gridSize)
		row := cellIndex(s.Y, cellH, gridSize)
		z := &g.Zones[row*gridSize+col]
		z.Count++
		if s.Outcome.IsSuccess() {
			z.SuccessCount++
		}
		if classify.IsBlocked(s.Action) {
			z.BlockedCount++
		}
		z.Shots = append(z.Shots, s)
	}

	for i := range g.Zones {
		if g.Zones[i].Count > g.MaxCount {
			g.MaxCount = g.Zones[i].Count
		}
	}
	for i := range g.Zones {
		z := &g.Zones[i]
		if g.MaxCount > 0 {
			z.Density = float64(z.Count) / float64(g.MaxCount)
		}
		if z.Count > 0 {
			z.SuccessRate = float64(z.SuccessCount) / float64(z.Count)
		}
	}
	return g, nil
}

// cellIndex returns clamp(floor(v/size), 0, n-1). Non-finite v maps to 0.
func cellIndex(v, size float64, n int) int {
	if math.IsNaN(v) || math.IsInf(v, -1) {
		return 0
	}
	if math.IsInf(v, 1) {
		return n - 1
	}
	f := math.Floor(v / size)
	if f < 0 {
		return 0
	}
	if f > float64(n-1) {
		return n - 1
	}
	return int(f)
}

// OptimalZones returns up to three attacking zones with at least three shots
// and a success rate of at least 65%, best success rate first.
func OptimalZones(g model.Grid) []model.Zone {
	var out []model.Zone
	for _, z := range g.Zones {
		if z.Count >= MinZoneShots && z.SuccessRate >= MinOptimalSuccess {
			out = append(out, z)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SuccessRate > out[j].SuccessRate
	})
	return top(out)
}

// VulnerableZones returns up to three defensive zones with at least three
// shots against, ordered by density (desc), then block rate (asc), then
// success rate (asc).
func VulnerableZones(g model.Grid) []model.Zone {
	var out []model.Zone
	for _, z := range g.Zones {
		if z.Count >= MinZoneShots {
			out = append(out, z)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		if a.Density != b.Density {
			return a.Density > b.Density
		}
		if a.BlockRate() != b.BlockRate() {
			return a.BlockRate() < b.BlockRate()
		}
		return a.SuccessRate < b.SuccessRate
	})
	return top(out)
}

func top(zs []model.Zone) []model.Zone {
	if len(zs) > MaxSelectedZones {
		return zs[:MaxSelectedZones]
	}
	return zs
}
