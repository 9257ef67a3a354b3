package history

// Carga del histórico de contratos desde un BlobStore.
//
// Cada objeto bajo el prefijo es un "chunk" (.csv o .parquet). Los chunks se
// descargan en paralelo con límite de concurrencia y de rate. Un chunk que
// falla se reporta y se salta: el resto del batch sigue.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/ianfmc/livewell-nadex/internal/domain"
	"github.com/ianfmc/livewell-nadex/internal/ports"
)

const (
	DefaultPrefix     = "historical/"
	DefaultDateFormat = "02-Jan-06"

	defaultWorkers = 4
)

// ErrNoData indica que no se encontró ningún chunk o ninguna fila.
var ErrNoData = errors.New("no historical data")

var _ ports.HistoryProvider = (*Loader)(nil)

// Options configura el Loader.
type Options struct {
	Prefix     string  // prefijo de los chunks, p.ej. "historical/"
	DateFormat string  // layout de Go para la columna Date
	Workers    int     // descargas simultáneas
	RatePerSec float64 // descargas por segundo (<= 0 = sin límite)
	Burst      int
}

// Stats resume la última carga.
type Stats struct {
	Files   int
	Skipped int
	Rows    int
	Tickers int
	Dates   int
	First   time.Time
	Last    time.Time
}

// Loader implementa ports.HistoryProvider.
type Loader struct {
	store   ports.BlobStore
	opts    Options
	limiter *rate.Limiter
	stats   Stats
}

// NewLoader crea un Loader sobre el store dado. Los campos vacíos de opts
// toman los valores por defecto.
func NewLoader(store ports.BlobStore, opts Options) *Loader {
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	if opts.DateFormat == "" {
		opts.DateFormat = DefaultDateFormat
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.Burst <= 0 {
		opts.Burst = opts.Workers
	}
	limit := rate.Inf
	if opts.RatePerSec > 0 {
		limit = rate.Limit(opts.RatePerSec)
	}
	return &Loader{
		store:   store,
		opts:    opts,
		limiter: rate.NewLimiter(limit, opts.Burst),
	}
}

// Stats devuelve las estadísticas de la última llamada a LoadHistory.
func (l *Loader) Stats() Stats {
	return l.stats
}

// LoadHistory implementa ports.HistoryProvider. Devuelve todas las filas de
// todos los chunks legibles, ordenadas por fecha (estable: dentro de una fecha
// se conserva el orden de los chunks). Devuelve ErrNoData si no hay nada.
func (l *Loader) LoadHistory(ctx context.Context) ([]domain.PriceObservation, error) {
	slog.Info("loading historical data", "prefix", l.opts.Prefix)

	keys, err := l.store.List(ctx, l.opts.Prefix)
	if err != nil {
		return nil, fmt.Errorf("history.LoadHistory: list %q: %w", l.opts.Prefix, err)
	}
	keys = filterChunks(keys)
	if len(keys) == 0 {
		return nil, fmt.Errorf("history.LoadHistory: %w under %q", ErrNoData, l.opts.Prefix)
	}

	chunks := make([][]domain.PriceObservation, len(keys))
	failed := make([]bool, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.Workers)
	for i, key := range keys {
		g.Go(func() error {
			if err := l.limiter.Wait(gctx); err != nil {
				return fmt.Errorf("rate limiter: %w", err)
			}
			rows, err := l.loadChunk(gctx, key)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				slog.Warn("could not load chunk", "key", key, "err", err)
				failed[i] = true
				return nil
			}
			chunks[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("history.LoadHistory: %w", err)
	}

	var all []domain.PriceObservation
	skipped := 0
	for i, rows := range chunks {
		if failed[i] {
			skipped++
			continue
		}
		all = append(all, rows...)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("history.LoadHistory: %w (%d chunks, %d skipped)", ErrNoData, len(keys), skipped)
	}
	sort.SliceStable(all, func(a, b int) bool { return all[a].Date.Before(all[b].Date) })

	l.stats = summarize(all, len(keys)-skipped, skipped)
	slog.Info("historical data loaded",
		"files", l.stats.Files,
		"skipped", l.stats.Skipped,
		"rows", l.stats.Rows,
		"from", l.stats.First.Format("2006-01-02"),
		"to", l.stats.Last.Format("2006-01-02"),
		"tickers", l.stats.Tickers,
		"dates", l.stats.Dates,
	)
	return all, nil
}

// loadChunk descarga y parsea un chunk según su extensión.
func (l *Loader) loadChunk(ctx context.Context, key string) ([]domain.PriceObservation, error) {
	data, err := l.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(path.Ext(key)) {
	case ".parquet":
		return parseParquet(data, l.opts.DateFormat)
	default:
		return parseCSV(data, l.opts.DateFormat)
	}
}

// filterChunks se queda con los .csv y .parquet, en orden de key.
func filterChunks(keys []string) []string {
	var out []string
	for _, k := range keys {
		switch strings.ToLower(path.Ext(k)) {
		case ".csv", ".parquet":
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func summarize(rows []domain.PriceObservation, files, skipped int) Stats {
	tickers := make(map[string]struct{})
	dates := make(map[int64]struct{})
	for _, r := range rows {
		tickers[r.Ticker] = struct{}{}
		dates[r.Date.UnixNano()] = struct{}{}
	}
	return Stats{
		Files:   files,
		Skipped: skipped,
		Rows:    len(rows),
		Tickers: len(tickers),
		Dates:   len(dates),
		First:   rows[0].Date,
		Last:    rows[len(rows)-1].Date,
	}
}
