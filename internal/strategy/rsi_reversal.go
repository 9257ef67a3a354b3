package strategy

import (
	"fmt"

	"github.com/ianfmc/livewell-nadex/internal/domain"
)

// RSIReversal implementa la estrategia de reversión por RSI:
// sobreventa → BUY, sobrecompra → SELL.
type RSIReversal struct {
	period     int
	oversold   float64
	overbought float64
}

// RSIReversalConfig configura la estrategia.
type RSIReversalConfig struct {
	Period     int
	Oversold   float64
	Overbought float64
}

// NewRSIReversal crea la estrategia con la configuración dada.
func NewRSIReversal(cfg RSIReversalConfig) *RSIReversal {
	return &RSIReversal{
		period:     cfg.Period,
		oversold:   cfg.Oversold,
		overbought: cfg.Overbought,
	}
}

// FromParams crea la estrategia a partir de los parámetros de un backtest.
func FromParams(p domain.StrategyParams) *RSIReversal {
	p = p.WithDefaults()
	return NewRSIReversal(RSIReversalConfig{
		Period:     p.RSIPeriod,
		Oversold:   p.Oversold,
		Overbought: p.Overbought,
	})
}

// Name implementa Strategy. Incluye los parámetros para distinguir variantes.
func (s *RSIReversal) Name() string {
	return fmt.Sprintf("rsi_reversal(%d,%g,%g)", s.period, s.oversold, s.overbought)
}

// Signals implementa Strategy.
func (s *RSIReversal) Signals(values []float64) ([]float64, []domain.Signal) {
	rsi := domain.RSI(values, s.period)
	return rsi, domain.GenerateSignals(rsi, s.oversold, s.overbought)
}
