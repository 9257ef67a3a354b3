package strategy

import (
	"testing"

	"github.com/ianfmc/livewell-nadex/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRSIReversal_Signals(t *testing.T) {
	s := FromParams(domain.StrategyParams{RSIPeriod: 2, Oversold: 30, Overbought: 70})
	rsi, signals := s.Signals([]float64{1, 2, 1, 1})
	require.Len(t, rsi, 4)
	assert.Equal(t, "rsi_reversal(2,30,70)", s.Name())
	assert.Equal(t, []domain.Signal{domain.SignalHold, domain.SignalSell, domain.SignalHold, domain.SignalBuy}, signals)
}

func TestDefaultPresets_InheritBase(t *testing.T) {
	base := domain.StrategyParams{Pricer: domain.PricerTier, Volatility: 0.02}
	presets := DefaultPresets(base)
	require.Len(t, presets, 5)
	assert.Equal(t, "Baseline (14, 30/70)", presets[0].Name)
	assert.Equal(t, 7, presets[3].Params.RSIPeriod)
	for _, p := range presets {
		assert.Equal(t, domain.PricerTier, p.Params.Pricer)
		assert.Equal(t, 0.02, p.Params.Volatility)
		assert.Equal(t, domain.DefaultMaxPayout, p.Params.MaxPayout)
	}
}
