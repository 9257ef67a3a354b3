package results

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path"
	"sort"
	"strings"

	"github.com/ianfmc/livewell-nadex/internal/domain"
	"github.com/ianfmc/livewell-nadex/internal/ports"
)

// SaveOptions controla dónde se guarda una ejecución.
type SaveOptions struct {
	Date       string // YYYY-MM-DD; vacío = fecha de GeneratedAt
	SaveLatest bool   // copia también en <prefix>/latest/
}

// Store guarda y recupera ejecuciones bajo <prefix>/<fecha>/.
type Store struct {
	blob   ports.BlobStore
	prefix string
}

// NewStore crea un Store. prefix vacío usa DefaultPrefix.
func NewStore(blob ports.BlobStore, prefix string) *Store {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{blob: blob, prefix: prefix}
}

// Prefix devuelve el prefijo raíz de las ejecuciones.
func (s *Store) Prefix() string {
	return s.prefix
}

type artifact struct {
	name        string
	contentType string
	body        []byte
}

// Save escribe trades.csv, daily_metrics.csv y kpi_summary.json, en ese orden:
// el resumen va siempre el último y latest/ solo se toca cuando la carpeta
// fechada está completa. Devuelve las keys escritas, en orden.
func (s *Store) Save(ctx context.Context, r Results, opts SaveOptions) ([]string, error) {
	date := opts.Date
	if date == "" {
		date = r.RunDate()
	}
	if err := validRunName(date); err != nil {
		return nil, fmt.Errorf("results.Save: %w", err)
	}

	trades, err := encodeTrades(r.Trades)
	if err != nil {
		return nil, fmt.Errorf("results.Save: encode trades: %w", err)
	}
	summary, err := encodeSummary(r)
	if err != nil {
		return nil, fmt.Errorf("results.Save: encode summary: %w", err)
	}
	daily, err := encodeDaily(r.KPIs.Daily)
	if err != nil {
		return nil, fmt.Errorf("results.Save: encode daily: %w", err)
	}
	artifacts := []artifact{
		{TradesFile, "text/csv", trades},
		{DailyFile, "text/csv", daily},
		{SummaryFile, "application/json", summary},
	}

	dirs := []string{date}
	if opts.SaveLatest && date != LatestRun {
		dirs = append(dirs, LatestRun)
	}

	var keys []string
	for _, dir := range dirs {
		for _, a := range artifacts {
			key := s.key(dir, a.name)
			if err := s.blob.Put(ctx, key, a.body, a.contentType); err != nil {
				return keys, fmt.Errorf("results.Save: put %s: %w", key, err)
			}
			keys = append(keys, key)
		}
	}
	slog.Info("results saved", "run_id", r.RunID, "date", date, "latest", opts.SaveLatest, "objects", len(keys))
	return keys, nil
}

// Load lee una ejecución guardada. date vacío = "latest".
func (s *Store) Load(ctx context.Context, date string) (Results, error) {
	if date == "" {
		date = LatestRun
	}
	if err := validRunName(date); err != nil {
		return Results{}, fmt.Errorf("results.Load: %w", err)
	}

	summary, err := s.get(ctx, date, SummaryFile)
	if err != nil {
		return Results{}, err
	}
	r, err := decodeSummary(summary)
	if err != nil {
		return Results{}, fmt.Errorf("results.Load: %s: %w: %v", s.key(date, SummaryFile), ErrCorrupt, err)
	}

	tradesCSV, err := s.get(ctx, date, TradesFile)
	if err != nil {
		return Results{}, err
	}
	if r.Trades, err = decodeTrades(tradesCSV); err != nil {
		return Results{}, fmt.Errorf("results.Load: %s: %w: %v", s.key(date, TradesFile), ErrCorrupt, err)
	}

	dailyCSV, err := s.get(ctx, date, DailyFile)
	if err != nil {
		return Results{}, err
	}
	if r.Daily, err = decodeDaily(dailyCSV); err != nil {
		return Results{}, fmt.Errorf("results.Load: %s: %w: %v", s.key(date, DailyFile), ErrCorrupt, err)
	}
	r.KPIs.Daily = r.Daily

	// un Save interrumpido puede dejar artefactos de dos ejecuciones distintas
	if err := checkConsistent(r); err != nil {
		return Results{}, fmt.Errorf("results.Load: %s: %w: %v", path.Join(s.prefix, date), ErrCorrupt, err)
	}

	slog.Debug("results loaded", "run_id", r.RunID, "date", date, "trades", len(r.Trades))
	return r, nil
}

// ListRuns devuelve las fechas guardadas (sin "latest"), ordenadas.
func (s *Store) ListRuns(ctx context.Context) ([]string, error) {
	keys, err := s.blob.List(ctx, s.prefix+"/")
	if err != nil {
		return nil, fmt.Errorf("results.ListRuns: %w", err)
	}
	seen := make(map[string]struct{})
	for _, k := range keys {
		rest := strings.TrimPrefix(k, s.prefix+"/")
		run, _, ok := strings.Cut(rest, "/")
		if !ok || run == LatestRun {
			continue
		}
		seen[run] = struct{}{}
	}
	runs := make([]string, 0, len(seen))
	for run := range seen {
		runs = append(runs, run)
	}
	sort.Strings(runs)
	return runs, nil
}

func (s *Store) key(dir, name string) string {
	return path.Join(s.prefix, dir, name)
}

func (s *Store) get(ctx context.Context, dir, name string) ([]byte, error) {
	key := s.key(dir, name)
	body, err := s.blob.Get(ctx, key)
	if errors.Is(err, ports.ErrObjectNotFound) {
		return nil, fmt.Errorf("results.Load: %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("results.Load: get %s: %w", key, err)
	}
	return body, nil
}

// checkConsistent comprueba que el resumen y el diario corresponden a los trades.
func checkConsistent(r Results) error {
	const eps = 1e-6
	if r.KPIs.TotalTrades != len(r.Trades) {
		return fmt.Errorf("summary has %d trades, trades.csv has %d", r.KPIs.TotalTrades, len(r.Trades))
	}
	var gross float64
	for _, t := range r.Trades {
		gross += t.PnL
	}
	if math.Abs(gross-r.KPIs.GrossPnL) > eps {
		return fmt.Errorf("summary gross_pnl %g, trades sum %g", r.KPIs.GrossPnL, gross)
	}

	want := domain.DailyAggregate(r.Trades)
	if len(want) != len(r.Daily) {
		return fmt.Errorf("daily_metrics.csv has %d days, trades span %d", len(r.Daily), len(want))
	}
	for i, d := range r.Daily {
		w := want[i]
		if !d.Date.Equal(w.Date) || math.Abs(d.PnL-w.PnL) > eps || math.Abs(d.EntryCost-w.EntryCost) > eps {
			return fmt.Errorf("daily_metrics.csv row %d does not match trades", i+1)
		}
	}

	if len(want) == 0 {
		if r.KPIs.HasDateRange() {
			return errors.New("summary has a date range but no trades")
		}
		return nil
	}
	if !r.KPIs.DateStart.Equal(want[0].Date) || !r.KPIs.DateEnd.Equal(want[len(want)-1].Date) {
		return errors.New("summary date range does not match trades")
	}
	return nil
}

func validRunName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid run name %q", name)
	}
	return nil
}
