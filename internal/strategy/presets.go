package strategy

import "github.com/ianfmc/livewell-nadex/internal/domain"

// Preset es una combinación de parámetros con nombre para comparar estrategias.
type Preset struct {
	Name   string                `yaml:"name"`
	Params domain.StrategyParams `yaml:"params"`
}

// DefaultPresets devuelve las variantes de RSI que se comparan por defecto.
// El resto de parámetros (volatilidad, pricer, payout) se heredan de base.
func DefaultPresets(base domain.StrategyParams) []Preset {
	with := func(period int, oversold, overbought float64) domain.StrategyParams {
		p := base.WithDefaults()
		p.RSIPeriod = period
		p.Oversold = oversold
		p.Overbought = overbought
		return p
	}
	return []Preset{
		{Name: "Baseline (14, 30/70)", Params: with(14, 30, 70)},
		{Name: "Conservative (14, 25/75)", Params: with(14, 25, 75)},
		{Name: "Aggressive (14, 35/65)", Params: with(14, 35, 65)},
		{Name: "Fast RSI (7, 30/70)", Params: with(7, 30, 70)},
		{Name: "Slow RSI (21, 30/70)", Params: with(21, 30, 70)},
	}
}
