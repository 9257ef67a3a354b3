package domain

import "fmt"

// StrategyParams son los parámetros con los que se ejecuta un backtest.
// Se persisten junto a los resultados dentro de kpi_summary.json.
type StrategyParams struct {
	RSIPeriod  int     `json:"rsi_period" yaml:"rsi_period"`
	Oversold   float64 `json:"oversold" yaml:"oversold"`
	Overbought float64 `json:"overbought" yaml:"overbought"`
	Volatility float64 `json:"volatility" yaml:"volatility"`
	MaxPayout  float64 `json:"max_payout" yaml:"max_payout"`
	Pricer     string  `json:"pricer" yaml:"pricer"` // probability | tier
}

// DefaultStrategyParams devuelve la configuración baseline: RSI(14), 30/70,
// volatilidad 1%, pago $10 y precio probabilístico.
func DefaultStrategyParams() StrategyParams {
	return StrategyParams{
		RSIPeriod:  14,
		Oversold:   30,
		Overbought: 70,
		Volatility: DefaultVolatility,
		MaxPayout:  DefaultMaxPayout,
		Pricer:     PricerProbability,
	}
}

// WithDefaults rellena los campos vacíos o inválidos con los valores baseline.
// Los umbrales solo se sustituyen si ambos son 0.
func (p StrategyParams) WithDefaults() StrategyParams {
	def := DefaultStrategyParams()
	if p.RSIPeriod <= 0 {
		p.RSIPeriod = def.RSIPeriod
	}
	if p.Oversold == 0 && p.Overbought == 0 {
		p.Oversold = def.Oversold
		p.Overbought = def.Overbought
	}
	if p.Volatility <= 0 {
		p.Volatility = def.Volatility
	}
	if p.MaxPayout <= 0 {
		p.MaxPayout = def.MaxPayout
	}
	if p.Pricer == "" {
		p.Pricer = def.Pricer
	}
	return p
}

// Label devuelve una descripción corta, p.ej. "RSI(14) 30/70 probability".
func (p StrategyParams) Label() string {
	return fmt.Sprintf("RSI(%d) %.0f/%.0f %s", p.RSIPeriod, p.Oversold, p.Overbought, p.Pricer)
}
