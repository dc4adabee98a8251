package config_test

import (
	"errors"
	"os"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/pable/shotmetrics/internal/config"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load("")

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
				convey.So(cfg.Pitch.HalfLineX, convey.ShouldEqual, 72.5)
				convey.So(cfg.Pitch.GoalY, convey.ShouldEqual, 44.0)
				convey.So(cfg.Scoring.TwoPointDistance, convey.ShouldEqual, 40.0)
				convey.So(cfg.Zones.GridSize, convey.ShouldEqual, 6)
				convey.So(cfg.Insights.Accuracy, convey.ShouldEqual, 0.10)
				convey.So(cfg.DBPath, convey.ShouldNotBeEmpty)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SHOTMETRICS_LOG_LEVEL", "debug")
			_ = os.Setenv("SHOTMETRICS_DB_PATH", "/tmp/shots.db")
			_ = os.Setenv("SHOTMETRICS_ZONES__GRID_SIZE", "8")
			_ = os.Setenv("SHOTMETRICS_SCORING__TWO_POINT_DISTANCE", "45.5")
			_ = os.Setenv("SHOTMETRICS_INSIGHTS__SHOT_DISTANCE", "5")
			defer clearConfigEnvVars()

			cfg, err := config.Load("")

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.DBPath, convey.ShouldEqual, "/tmp/shots.db")
				convey.So(cfg.Zones.GridSize, convey.ShouldEqual, 8)
				convey.So(cfg.Scoring.TwoPointDistance, convey.ShouldEqual, 45.5)
				convey.So(cfg.Insights.ShotDistance, convey.ShouldEqual, 5.0)
				convey.So(cfg.Insights.Accuracy, convey.ShouldEqual, 0.10)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(`
log_level: warn
pitch:
  half_line_x: 70
  width: 80
zones:
  grid_size: 10
insights:
  accuracy: 0.2
`)
			defer func() { _ = os.Remove(tmpFile) }()

			cfg, err := config.Load(tmpFile)

			convey.Convey("Then it should merge the file with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "warn")
				convey.So(cfg.Pitch.HalfLineX, convey.ShouldEqual, 70.0)
				convey.So(cfg.Pitch.Width, convey.ShouldEqual, 80.0)
				convey.So(cfg.Pitch.GoalY, convey.ShouldEqual, 44.0) // From defaults
				convey.So(cfg.Zones.GridSize, convey.ShouldEqual, 10)
				convey.So(cfg.Insights.Accuracy, convey.ShouldEqual, 0.2)
				convey.So(cfg.Insights.GoalConversion, convey.ShouldEqual, 0.05) // From defaults
			})

			convey.Convey("Then PitchGeometry and Classifier reflect it", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.PitchGeometry().HalfLineX, convey.ShouldEqual, 70.0)
				convey.So(cfg.Classifier().TwoPointDistance(), convey.ShouldEqual, 40.0)
			})
		})

		convey.Convey("When the file path comes from SHOTMETRICS_CONFIG and env also sets a key", func() {
			tmpFile := createTempConfigFile("zones:\n  grid_size: 10\nlog_level: warn\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SHOTMETRICS_CONFIG", tmpFile)
			_ = os.Setenv("SHOTMETRICS_ZONES__GRID_SIZE", "12")
			defer clearConfigEnvVars()

			cfg, err := config.Load("")

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Zones.GridSize, convey.ShouldEqual, 12) // Overridden by env
				convey.So(cfg.LogLevel, convey.ShouldEqual, "warn")   // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			cfg, err := config.Load(tmpFile)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			cfg, err := config.Load("/non/existent/file.yaml")

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a value is out of range", func() {
			_ = os.Setenv("SHOTMETRICS_ZONES__GRID_SIZE", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load("")

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "grid_size")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the log level is unknown", func() {
			_ = os.Setenv("SHOTMETRICS_LOG_LEVEL", "chatty")
			defer clearConfigEnvVars()

			_, err := config.Load("")

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func clearConfigEnvVars() {
	envVars := []string{
		"SHOTMETRICS_CONFIG",
		"SHOTMETRICS_LOG_LEVEL",
		"SHOTMETRICS_DB_PATH",
		"SHOTMETRICS_ZONES__GRID_SIZE",
		"SHOTMETRICS_SCORING__TWO_POINT_DISTANCE",
		"SHOTMETRICS_INSIGHTS__SHOT_DISTANCE",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "shotmetrics-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
