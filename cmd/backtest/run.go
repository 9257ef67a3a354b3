package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/ianfmc/livewell-nadex/config"
	"github.com/ianfmc/livewell-nadex/internal/adapters/blob"
	"github.com/ianfmc/livewell-nadex/internal/adapters/history"
	"github.com/ianfmc/livewell-nadex/internal/adapters/notify"
	htmlreport "github.com/ianfmc/livewell-nadex/internal/adapters/report"
	"github.com/ianfmc/livewell-nadex/internal/backtest"
	"github.com/ianfmc/livewell-nadex/internal/domain"
	"github.com/ianfmc/livewell-nadex/internal/ports"
	"github.com/ianfmc/livewell-nadex/internal/report"
	"github.com/ianfmc/livewell-nadex/internal/results"
)

// runOptions son los modos de ejecución elegidos por flags.
type runOptions struct {
	Date    string
	Load    bool
	Compare bool
	Save    bool
	Report  bool
}

// app agrupa las dependencias de una ejecución.
type app struct {
	cfg     *config.Config
	store   ports.BlobStore
	mirror  ports.BlobStore // nil si no hay copia local
	console *notify.Console
	now     func() time.Time
}

func run(ctx context.Context, cfg *config.Config, opts runOptions) error {
	store, closeStore, err := openStore(cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			slog.Warn("could not close storage", "err", err)
		}
	}()

	a := &app{
		cfg:     cfg,
		store:   store,
		console: notify.NewConsole(),
		now:     time.Now,
	}
	if cfg.Results.LocalMirror && cfg.Storage.Backend != config.BackendLocal {
		a.mirror = blob.NewFSStore(cfg.Storage.LocalDir)
	}

	switch {
	case opts.Load:
		return a.loadRun(ctx, opts)
	case opts.Compare:
		return a.compare(ctx)
	default:
		return a.backtest(ctx, opts)
	}
}

// loadDaily carga el histórico y lo reduce a una observación por ticker y día.
func (a *app) loadDaily(ctx context.Context) ([]domain.PriceObservation, error) {
	loader := history.NewLoader(a.store, history.Options{
		Prefix:     a.cfg.Data.Prefix,
		DateFormat: a.cfg.Data.DateFormat,
		Workers:    a.cfg.Data.Workers,
		RatePerSec: a.cfg.Data.RatePerSec,
	})
	raw, err := loader.LoadHistory(ctx)
	if err != nil {
		return nil, err
	}

	daily := domain.AggregateToDaily(raw)
	tickers := len(domain.GroupByTicker(daily))
	slog.Info("aggregated to daily",
		"observations", len(daily),
		"tickers", tickers,
		"avg_days_per_ticker", fmt.Sprintf("%.0f", float64(len(daily))/float64(max(tickers, 1))),
	)
	return daily, nil
}

// backtest ejecuta el baseline, imprime KPIs y, según flags, guarda y genera el reporte.
func (a *app) backtest(ctx context.Context, opts runOptions) error {
	daily, err := a.loadDaily(ctx)
	if err != nil {
		return err
	}

	engine, err := backtest.New(a.cfg.Strategy.StrategyParams, backtest.WithWorkers(a.cfg.Strategy.Workers))
	if err != nil {
		return err
	}
	slog.Info("running baseline strategy", "params", engine.Params().Label())

	trades, err := engine.Run(ctx, daily)
	if err != nil {
		return err
	}
	kpis := domain.CalculateKPIs(trades, a.cfg.KPI.Commission())
	res := results.New(trades, kpis, engine.Params(), a.now())

	a.console.PrintTradeStats("Baseline", domain.SummarizeTrades(trades))
	a.console.PrintSampleTrades(trades, a.cfg.Results.SampleSize)
	if err := a.console.NotifyKPIs(ctx, kpis, res.Params); err != nil {
		slog.Warn("notifier error", "err", err)
	}

	date := opts.Date
	if date == "" {
		date = res.RunDate()
	}
	if opts.Save {
		if err := a.save(ctx, res, date); err != nil {
			return err
		}
	}
	if opts.Report {
		return a.render(ctx, res, date)
	}
	return nil
}

// save guarda en el store configurado y, si procede, en la copia local.
func (a *app) save(ctx context.Context, res results.Results, date string) error {
	saveOpts := results.SaveOptions{Date: date, SaveLatest: a.cfg.Results.LatestEnabled()}

	keys, err := results.NewStore(a.store, a.cfg.Results.Prefix).Save(ctx, res, saveOpts)
	if err != nil {
		return err
	}
	slog.Info("results stored", "backend", a.cfg.Storage.Backend, "keys", keys)

	if a.mirror != nil {
		if _, err := results.NewStore(a.mirror, a.cfg.Results.Prefix).Save(ctx, res, saveOpts); err != nil {
			slog.Warn("could not save local copy", "dir", a.cfg.Storage.LocalDir, "err", err)
		}
	}
	return nil
}

// loadRun recupera una ejecución guardada y regenera su reporte.
func (a *app) loadRun(ctx context.Context, opts runOptions) error {
	res, err := results.NewStore(a.store, a.cfg.Results.Prefix).Load(ctx, opts.Date)
	if err != nil {
		return err
	}
	slog.Info("loaded saved run",
		"run_id", res.RunID,
		"generated_at", res.GeneratedAt.Format(time.RFC3339),
		"trades", len(res.Trades),
	)

	a.console.PrintSampleTrades(res.Trades, a.cfg.Results.SampleSize)
	if err := a.console.NotifyKPIs(ctx, res.KPIs, res.Params); err != nil {
		slog.Warn("notifier error", "err", err)
	}

	date := opts.Date
	if date == "" {
		date = results.LatestRun
	}
	if opts.Report {
		return a.render(ctx, res, date)
	}
	return nil
}

// compare corre todos los presets sobre el mismo histórico.
func (a *app) compare(ctx context.Context) error {
	daily, err := a.loadDaily(ctx)
	if err != nil {
		return err
	}
	rows, err := backtest.Compare(ctx, daily, a.cfg.Presets(), backtest.WithWorkers(a.cfg.Strategy.Workers))
	if err != nil {
		return err
	}
	return a.console.NotifyComparison(ctx, rows)
}

// render genera el dashboard HTML, lo escribe en disco y opcionalmente lo
// sube junto a los resultados.
func (a *app) render(ctx context.Context, res results.Results, date string) error {
	var renderer ports.ReportRenderer
	renderer, err := htmlreport.NewHTMLRenderer()
	if err != nil {
		return err
	}
	dash := report.BuildDashboard(res.KPIs, report.Options{
		CommissionPerContract: a.cfg.KPI.Commission(),
		StrategyLabel:         res.Params.Label(),
		Template:              a.cfg.Report.Template,
	}, a.now())

	html, err := renderer.Render(dash)
	if err != nil {
		return err
	}

	out := a.cfg.Report.Output
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("render: mkdir: %w", err)
	}
	if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
		return fmt.Errorf("render: write %s: %w", out, err)
	}
	slog.Info("report written", "path", out, "template", dash.Template)

	if a.cfg.Report.Upload {
		key := path.Join(a.cfg.Results.Prefix, date, dash.Template+".html")
		if err := a.store.Put(ctx, key, []byte(html), "text/html"); err != nil {
			return fmt.Errorf("render: upload %s: %w", key, err)
		}
		slog.Info("report uploaded", "key", key)
	}
	return nil
}
