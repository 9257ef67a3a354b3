// Package results agrupa la salida de un backtest y la persiste en un BlobStore.
package results

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ianfmc/livewell-nadex/internal/domain"
)

const (
	DefaultPrefix = "backtest/results"
	LatestRun     = "latest"
	dateLayout    = "2006-01-02"

	TradesFile  = "trades.csv"
	SummaryFile = "kpi_summary.json"
	DailyFile   = "daily_metrics.csv"
)

var (
	// ErrNotFound: falta alguno de los artefactos de la ejecución pedida.
	ErrNotFound = errors.New("results not found")
	// ErrCorrupt: un artefacto existe pero no se puede decodificar, o los
	// artefactos no corresponden a la misma ejecución.
	ErrCorrupt = errors.New("results corrupt")
)

// Results es la salida completa de una ejecución.
type Results struct {
	RunID       string
	Trades      []domain.SimulatedTrade
	KPIs        domain.KPIRecord
	Daily       []domain.DailyMetric
	Params      domain.StrategyParams
	GeneratedAt time.Time
}

// New construye el contenedor de una ejecución. GeneratedAt se trunca a
// segundos en UTC para que sobreviva al formato RFC 3339 del resumen.
func New(trades []domain.SimulatedTrade, kpis domain.KPIRecord, params domain.StrategyParams, now time.Time) Results {
	if trades == nil {
		trades = []domain.SimulatedTrade{}
	}
	daily := kpis.Daily
	if daily == nil {
		daily = []domain.DailyMetric{}
		kpis.Daily = daily
	}
	return Results{
		RunID:       uuid.New().String(),
		Trades:      trades,
		KPIs:        kpis,
		Daily:       daily,
		Params:      params,
		GeneratedAt: now.UTC().Truncate(time.Second),
	}
}

// RunDate es la fecha de la ejecución en formato YYYY-MM-DD.
func (r Results) RunDate() string {
	return r.GeneratedAt.Format(dateLayout)
}
