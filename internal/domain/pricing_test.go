package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbabilityITM_DeepITMClamps(t *testing.T) {
	// E=105, K=100, σ=1% → z = 5 / 1 = 5 → Φ ≈ 1 → 0.95
	assert.Equal(t, 0.95, ProbabilityITM(105, 100, 0.01))
}

func TestProbabilityITM_DeepOTMClamps(t *testing.T) {
	assert.Equal(t, 0.05, ProbabilityITM(95, 100, 0.01))
}

func TestProbabilityITM_AtTheMoney(t *testing.T) {
	assert.InDelta(t, 0.5, ProbabilityITM(100, 100, 0.01), 1e-12)
}

func TestProbabilityITM_OneSigma(t *testing.T) {
	// z = 1 → Φ(1) ≈ 0.8413
	assert.InDelta(t, 0.8413, ProbabilityITM(101, 100, 0.01), 1e-4)
}

func TestProbabilityITM_NonPositiveVolatilityFloored(t *testing.T) {
	assert.Equal(t, ProbabilityITM(100.5, 100, 0.01), ProbabilityITM(100.5, 100, 0))
	assert.Equal(t, ProbabilityITM(100.5, 100, 0.01), ProbabilityITM(100.5, 100, -3))
}

func TestProbabilityITM_ZeroStrike(t *testing.T) {
	assert.Equal(t, 0.5, ProbabilityITM(0, 0, 0.01))
	assert.Equal(t, 0.95, ProbabilityITM(1, 0, 0.01))
	assert.Equal(t, 0.05, ProbabilityITM(-1, 0, 0.01))
}

func TestFairEntryCost_Scenario(t *testing.T) {
	cost, prob := FairEntryCost(105, 100, 10, 0.01)
	assert.Equal(t, 0.95, prob)
	assert.InDelta(t, 9.50, cost, 1e-9)
}

func TestFairEntryCost_WithinPayoutBand(t *testing.T) {
	for _, e := range []float64{50, 99, 99.9, 100, 100.1, 101, 150} {
		cost, _ := FairEntryCost(e, 100, 10, 0.01)
		assert.GreaterOrEqual(t, cost, 0.5)
		assert.LessOrEqual(t, cost, 9.5)
	}
}

func TestFairEntryCost_DefaultPayout(t *testing.T) {
	cost, _ := FairEntryCost(100, 100, 0, 0.01)
	assert.InDelta(t, 5.0, cost, 1e-9)
}

func TestTierEntryCost(t *testing.T) {
	tests := []struct {
		name   string
		exp    float64
		strike float64
		want   float64
	}{
		{"far ITM", 102, 100, 7.50},
		{"far OTM", 98, 100, 2.50},
		{"ATM exact", 100, 100, 5.00},
		{"ATM at upper threshold", 101, 100, 5.00},
		{"ATM at lower threshold", 99, 100, 5.00},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TierEntryCost(tt.exp, tt.strike))
		})
	}
}

func TestNewPricer(t *testing.T) {
	p, err := NewPricer(StrategyParams{Pricer: PricerTier})
	require.NoError(t, err)
	q := p.Quote(102, 100)
	assert.Equal(t, 7.50, q.EntryCost)
	assert.Equal(t, 0.0, q.Probability)

	p, err = NewPricer(StrategyParams{})
	require.NoError(t, err)
	assert.Equal(t, PricerProbability, p.Name())
	q = p.Quote(105, 100)
	assert.InDelta(t, 9.50, q.EntryCost, 1e-9)
	assert.Equal(t, 0.95, q.Probability)

	_, err = NewPricer(StrategyParams{Pricer: "black-scholes"})
	assert.True(t, errors.Is(err, ErrUnknownPricer))
}
