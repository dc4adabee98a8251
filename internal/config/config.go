// Package config defines the tool's configuration and its layered loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pable/shotmetrics/internal/classify"
	"github.com/pable/shotmetrics/internal/geometry"
	"github.com/pable/shotmetrics/internal/insight"
)

// Config contains process configuration.
type Config struct {
	// DBPath is the SQLite shot store.
	DBPath string `koanf:"db_path"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	Pitch    PitchConfig        `koanf:"pitch"`
	Scoring  ScoringConfig      `koanf:"scoring"`
	Zones    ZonesConfig        `koanf:"zones"`
	Insights insight.Thresholds `koanf:"insights"`
}

// PitchConfig describes the reference half in meters.
type PitchConfig struct {
	HalfLineX float64 `koanf:"half_line_x"`
	GoalX     float64 `koanf:"goal_x"`
	GoalY     float64 `koanf:"goal_y"`
	Width     float64 `koanf:"width"`
}

type ScoringConfig struct {
	// TwoPointDistance is the minimum distance in meters for a two-pointer.
	TwoPointDistance float64 `koanf:"two_point_distance"`
}

type ZonesConfig struct {
	// GridSize is the number of cells per side of the zone grid.
	GridSize int `koanf:"grid_size"`
}

// Zone grid size bounds.
const (
	MinGridSize = 1
	MaxGridSize = 50
)

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		DBPath:   filepath.Join(userHome(), ".shotmetrics", "shots.db"),
		LogLevel: "info",
		Pitch: PitchConfig{
			HalfLineX: geometry.DefaultPitch.HalfLineX,
			GoalX:     geometry.DefaultPitch.GoalX,
			GoalY:     geometry.DefaultPitch.GoalY,
			Width:     geometry.DefaultPitch.Width,
		},
		Scoring:  ScoringConfig{TwoPointDistance: classify.DefaultTwoPointDistance},
		Zones:    ZonesConfig{GridSize: 6},
		Insights: insight.DefaultThresholds(),
	}
}

// Validate checks ranges. Errors wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.DBPath == "" {
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	}
	if c.Pitch.HalfLineX <= 0 || c.Pitch.Width <= 0 {
		return fmt.Errorf("%w: pitch dimensions must be positive", ErrInvalidConfig)
	}
	if c.Scoring.TwoPointDistance <= 0 {
		return fmt.Errorf("%w: scoring.two_point_distance must be positive", ErrInvalidConfig)
	}
	if c.Zones.GridSize < MinGridSize || c.Zones.GridSize > MaxGridSize {
		return fmt.Errorf("%w: zones.grid_size %d out of range [%d,%d]", ErrInvalidConfig, c.Zones.GridSize, MinGridSize, MaxGridSize)
	}
	return nil
}

// PitchGeometry returns the configured pitch.
func (c *Config) PitchGeometry() geometry.Pitch {
	return geometry.Pitch{
		HalfLineX: c.Pitch.HalfLineX,
		GoalX:     c.Pitch.GoalX,
		GoalY:     c.Pitch.GoalY,
		Width:     c.Pitch.Width,
	}
}

// Classifier builds a classifier with the configured scoring rules.
func (c *Config) Classifier() *classify.Classifier {
	return classify.New(classify.WithTwoPointDistance(c.Scoring.TwoPointDistance))
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
