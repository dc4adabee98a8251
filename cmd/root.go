package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pable/shotmetrics/internal/config"
	"github.com/pable/shotmetrics/internal/logging"
	"github.com/pable/shotmetrics/internal/metrics"
	"github.com/pable/shotmetrics/internal/storage"
)

var (
	dbPath      string
	configPath  string
	logLevel    string
	metricsFile string

	cfg      *config.Config
	logger   = zap.NewNop().Sugar()
	recorder = metrics.NewRecorder()
)

var rootCmd = &cobra.Command{
	Use:   "shotmetrics",
	Short: "Gaelic football shot analytics",
	Long: "Import shot events, classify them (including the 40m two-pointer rule), " +
		"compute xP/xG, zone heatmaps, team aggregates, comparisons and insights.",
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: flushMetrics,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (default ~/.shotmetrics/shots.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (falls back to $SHOTMETRICS_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write pipeline metrics to this file in Prometheus text format")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(touchCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(shellCmd)
}

// setup loads configuration, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if dbPath != "" {
		c.DBPath = dbPath
	}
	if logLevel != "" {
		c.LogLevel = logLevel
		if err := c.Validate(); err != nil {
			return err
		}
	}
	cfg = c

	l, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger = l
	logger.Debugw("config loaded", "db", cfg.DBPath, "grid", cfg.Zones.GridSize, "two_point_distance", cfg.Scoring.TwoPointDistance)
	return nil
}

func flushMetrics(_ *cobra.Command, _ []string) error {
	_ = logger.Sync()
	if metricsFile == "" {
		return nil
	}
	if err := recorder.WriteTextfile(metricsFile); err != nil {
		return err
	}
	logger.Debugw("metrics written", "path", metricsFile)
	return nil
}

// openStore opens the configured database, creating its directory if needed.
func openStore() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}
