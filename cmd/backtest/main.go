package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ianfmc/livewell-nadex/config"
	"github.com/ianfmc/livewell-nadex/internal/adapters/history"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	date := flag.String("date", "", "run date YYYY-MM-DD for saving / loading (default: today, or latest with -load)")
	load := flag.Bool("load", false, "load a saved run instead of backtesting and re-render its report")
	compare := flag.Bool("compare", false, "run every comparison preset and print the comparison table")
	noSave := flag.Bool("no-save", false, "do not persist results")
	writeReport := flag.Bool("report", false, "render the HTML KPI dashboard")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	slog.Info("nadex backtest starting",
		"config", *configPath,
		"strategy", cfg.Strategy.Label(),
		"backend", cfg.Storage.Backend,
		"load", *load,
		"compare", *compare,
		"save", !*noSave,
		"report", *writeReport,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := runOptions{
		Date:    *date,
		Load:    *load,
		Compare: *compare,
		Save:    !*noSave,
		Report:  *writeReport || *load,
	}
	if err := run(ctx, cfg, opts); err != nil {
		if errors.Is(err, history.ErrNoData) {
			slog.Warn("no historical data, nothing to backtest", "err", err)
			return
		}
		slog.Error("backtest failed", "err", err)
		cancel()
		os.Exit(1)
	}

	slog.Info("nadex backtest finished")
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
