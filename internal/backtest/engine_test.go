package backtest

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/ianfmc/livewell-nadex/internal/domain"
	"github.com/ianfmc/livewell-nadex/internal/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(i int) time.Time {
	return time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

// risingTicker genera n días con ExpValue subiendo de 90 a 110 y strike fijo en 100.
// Los días pares liquidan ITM.
func risingTicker(ticker string, n int) []domain.PriceObservation {
	out := make([]domain.PriceObservation, n)
	step := 20.0 / float64(n-1)
	for i := range out {
		out[i] = domain.PriceObservation{
			Ticker:      ticker,
			Date:        date(i),
			ExpValue:    90 + step*float64(i),
			StrikePrice: 100,
			InTheMoney:  i%2 == 0,
		}
	}
	return out
}

// zigzagTicker alterna tramos de 20 subidas y 20 bajadas: el RSI satura en
// ambos extremos y genera BUY y SELL.
func zigzagTicker(ticker string, n int) []domain.PriceObservation {
	out := make([]domain.PriceObservation, n)
	v := 100.0
	for i := range out {
		switch {
		case i%40 < 20:
			v += 1.5
		default:
			v -= 2.5
		}
		out[i] = domain.PriceObservation{
			Ticker: ticker, Date: date(i), ExpValue: v, StrikePrice: 100, InTheMoney: i%3 == 0,
		}
	}
	return out
}

func TestEngine_RisingScenario(t *testing.T) {
	e, err := New(domain.StrategyParams{RSIPeriod: 14, Oversold: 30, Overbought: 70})
	require.NoError(t, err)

	trades, err := e.Run(context.Background(), risingTicker("US500", 20))
	require.NoError(t, err)
	require.Len(t, trades, 7)

	for i, tr := range trades {
		assert.Equal(t, date(13+i), tr.Date)
		assert.Equal(t, domain.SignalSell, tr.Signal)
		assert.Equal(t, 100.0, tr.RSI)
		assert.GreaterOrEqual(t, tr.ProbabilityITM, 0.05)
		assert.LessOrEqual(t, tr.ProbabilityITM, 0.95)
		assert.InDelta(t, tr.ProbabilityITM*10, tr.EntryCost, 1e-9)
		if tr.InTheMoney {
			assert.InDelta(t, 10-tr.EntryCost, tr.PnL, 1e-9)
		} else {
			assert.InDelta(t, -tr.EntryCost, tr.PnL, 1e-9)
		}
	}
}

func TestEngine_ShortSeriesProducesNoTrades(t *testing.T) {
	e, err := New(domain.DefaultStrategyParams())
	require.NoError(t, err)

	trades, err := e.Run(context.Background(), risingTicker("GOLD", 13))
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestEngine_EmptyInput(t *testing.T) {
	e, err := New(domain.DefaultStrategyParams())
	require.NoError(t, err)

	trades, err := e.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestEngine_TickerBlocksInInputOrder(t *testing.T) {
	daily := append(risingTicker("AAA", 20), risingTicker("BBB", 20)...)
	daily = append(daily, risingTicker("CCC", 5)...)

	e, err := New(domain.DefaultStrategyParams(), WithWorkers(4))
	require.NoError(t, err)
	trades, err := e.Run(context.Background(), daily)
	require.NoError(t, err)
	require.Len(t, trades, 14)

	for i := 0; i < 7; i++ {
		assert.Equal(t, "AAA", trades[i].Ticker)
		assert.Equal(t, "BBB", trades[7+i].Ticker)
		assert.Equal(t, date(13+i), trades[i].Date)
		assert.Equal(t, date(13+i), trades[7+i].Date)
	}
}

func TestEngine_Deterministic(t *testing.T) {
	var daily []domain.PriceObservation
	for _, tk := range []string{"AUD", "EUR", "GBP", "JPY", "US500", "GOLD"} {
		daily = append(daily, zigzagTicker(tk, 120)...)
	}
	daily = domain.AggregateToDaily(daily)

	seq, err := New(domain.DefaultStrategyParams(), WithWorkers(1))
	require.NoError(t, err)
	par, err := New(domain.DefaultStrategyParams(), WithWorkers(8))
	require.NoError(t, err)

	a, err := seq.Run(context.Background(), daily)
	require.NoError(t, err)
	b, err := par.Run(context.Background(), daily)
	require.NoError(t, err)
	c, err := par.Run(context.Background(), daily)
	require.NoError(t, err)

	require.NotEmpty(t, a)
	assert.Equal(t, a, b)
	assert.Equal(t, b, c)

	var buys, sells int
	for _, tr := range a {
		assert.False(t, math.IsNaN(tr.RSI))
		switch tr.Signal {
		case domain.SignalBuy:
			buys++
		case domain.SignalSell:
			sells++
		}
	}
	assert.Greater(t, buys, 0)
	assert.Greater(t, sells, 0)
}

func TestEngine_TierPricer(t *testing.T) {
	e, err := New(domain.StrategyParams{Pricer: domain.PricerTier})
	require.NoError(t, err)

	trades, err := e.Run(context.Background(), zigzagTicker("US500", 60))
	require.NoError(t, err)
	require.NotEmpty(t, trades)
	for _, tr := range trades {
		assert.Contains(t, []float64{2.50, 5.00, 7.50}, tr.EntryCost)
		assert.Equal(t, 0.0, tr.ProbabilityITM)
	}
}

func TestEngine_UnknownPricer(t *testing.T) {
	_, err := New(domain.StrategyParams{Pricer: "nope"})
	assert.ErrorIs(t, err, domain.ErrUnknownPricer)
}

func TestEngine_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e, err := New(domain.DefaultStrategyParams())
	require.NoError(t, err)
	_, err = e.Run(ctx, risingTicker("US500", 20))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompare_DefaultPresets(t *testing.T) {
	var daily []domain.PriceObservation
	for _, tk := range []string{"EUR", "US500"} {
		daily = append(daily, zigzagTicker(tk, 90)...)
	}

	presets := strategy.DefaultPresets(domain.DefaultStrategyParams())
	rows, err := Compare(context.Background(), daily, presets)
	require.NoError(t, err)
	require.Len(t, rows, len(presets))

	for i, r := range rows {
		assert.Equal(t, presets[i].Name, r.Name)
		assert.Equal(t, presets[i].Params.RSIPeriod, r.Params.RSIPeriod)
	}

	best, ok := domain.BestBy(rows, func(s domain.TradeStats) float64 { return s.TotalPnL })
	require.True(t, ok)
	for _, r := range rows {
		assert.LessOrEqual(t, r.Stats.TotalPnL, best.Stats.TotalPnL)
	}
}
