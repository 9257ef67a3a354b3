package backtest

// Backtest de la estrategia RSI sobre el histórico diario.
//
// Por cada ticker (independiente de los demás):
// 1. Calcula el indicador y las señales sobre su propia serie cronológica
// 2. Descarta las fechas HOLD
// 3. Pone precio a cada señal con el Pricer configurado
// 4. Simula el P&L binario con el resultado ITM histórico de esa fecha

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ianfmc/livewell-nadex/internal/domain"
	"github.com/ianfmc/livewell-nadex/internal/strategy"
)

// Engine ejecuta backtests. Es inmutable y seguro para uso concurrente.
type Engine struct {
	params   domain.StrategyParams
	strategy strategy.Strategy
	pricer   domain.Pricer
	workers  int
}

// Option configura el Engine.
type Option func(*Engine)

// WithWorkers fija el número de workers del pool por ticker.
// Si n <= 0 se usa runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// WithStrategy reemplaza la estrategia derivada de los parámetros.
func WithStrategy(s strategy.Strategy) Option {
	return func(e *Engine) { e.strategy = s }
}

// WithPricer reemplaza el Pricer derivado de los parámetros.
func WithPricer(p domain.Pricer) Option {
	return func(e *Engine) { e.pricer = p }
}

// New crea un Engine para los parámetros dados (los vacíos toman el baseline).
func New(params domain.StrategyParams, opts ...Option) (*Engine, error) {
	params = params.WithDefaults()
	e := &Engine{
		params:   params,
		strategy: strategy.FromParams(params),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.pricer == nil {
		pricer, err := domain.NewPricer(params)
		if err != nil {
			return nil, fmt.Errorf("backtest.New: %w", err)
		}
		e.pricer = pricer
	}
	return e, nil
}

// Params devuelve los parámetros efectivos del Engine.
func (e *Engine) Params() domain.StrategyParams {
	return e.params
}

// Run ejecuta el backtest sobre el histórico diario (una observación por
// ticker y fecha, ver domain.AggregateToDaily).
//
// Los trades salen agrupados por ticker, en el orden en que aparecen los
// tickers en la entrada, y en orden cronológico dentro de cada ticker. El
// resultado es idéntico al de una ejecución secuencial. Solo devuelve error
// si el contexto se cancela.
func (e *Engine) Run(ctx context.Context, daily []domain.PriceObservation) ([]domain.SimulatedTrade, error) {
	series := domain.GroupByTicker(daily)

	perTicker, err := runPerTicker(ctx, series, e.workers, e.backtestTicker)
	if err != nil {
		return nil, fmt.Errorf("backtest.Run: %w", err)
	}

	total := 0
	for _, trades := range perTicker {
		total += len(trades)
	}
	all := make([]domain.SimulatedTrade, 0, total)
	for _, trades := range perTicker {
		all = append(all, trades...)
	}

	slog.Debug("backtest complete",
		"strategy", e.strategy.Name(),
		"pricer", e.pricer.Name(),
		"tickers", len(series),
		"observations", len(daily),
		"trades", len(all),
	)
	return all, nil
}

// backtestTicker simula los trades de un solo ticker. Una serie más corta que
// el período del indicador no produce señales ni trades.
func (e *Engine) backtestTicker(s domain.TickerSeries) []domain.SimulatedTrade {
	indicator, signals := e.strategy.Signals(s.ExpValues())

	var trades []domain.SimulatedTrade
	for i, obs := range s.Observations {
		if !signals[i].IsTrade() {
			continue
		}
		quote := e.pricer.Quote(obs.ExpValue, obs.StrikePrice)
		trades = append(trades, domain.NewSimulatedTrade(obs, indicator[i], signals[i], quote, e.params.MaxPayout))
	}
	return trades
}
