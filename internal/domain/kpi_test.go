package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func trade(d int, pnl float64) SimulatedTrade {
	return SimulatedTrade{Date: day(d), Ticker: "US500", EntryCost: 5, PnL: pnl}
}

func TestCalculateKPIs_Empty(t *testing.T) {
	k := CalculateKPIs(nil, 1.0)
	assert.Equal(t, 0, k.TotalTrades)
	assert.Equal(t, 0.0, k.WinRate)
	assert.Equal(t, 0.0, k.MaxDrawdown)
	assert.Equal(t, 0, k.RecoveryDays)
	assert.False(t, k.HasDateRange())
	assert.Empty(t, k.Daily)
}

func TestCalculateKPIs_ZeroPnLIsLoss(t *testing.T) {
	k := CalculateKPIs([]SimulatedTrade{trade(1, 5), trade(2, 0)}, 1.0)
	assert.Equal(t, 2, k.TotalTrades)
	assert.Equal(t, 1, k.Wins)
	assert.Equal(t, 1, k.Losses)
	assert.Equal(t, 0.5, k.WinRate)
}

func TestCalculateKPIs_Commissions(t *testing.T) {
	k := CalculateKPIs([]SimulatedTrade{trade(1, 5), trade(2, -3), trade(3, 4)}, 1.5)
	assert.InDelta(t, 6.0, k.GrossPnL, 1e-9)
	assert.InDelta(t, 4.5, k.Commissions, 1e-9)
	assert.InDelta(t, 1.5, k.NetPnL, 1e-9)
	assert.Equal(t, day(1), k.DateStart)
	assert.Equal(t, day(3), k.DateEnd)
}

func TestCalculateKPIs_SameDayTradesNetted(t *testing.T) {
	k := CalculateKPIs([]SimulatedTrade{trade(1, 5), trade(1, -3)}, 1.0)
	require.Len(t, k.Daily, 1)
	assert.InDelta(t, 2.0, k.Daily[0].CumulativePnL, 1e-9)
	assert.InDelta(t, 10.0, k.Daily[0].EntryCost, 1e-9)
	assert.Equal(t, 0.0, k.Daily[0].Drawdown)
	assert.Equal(t, 0.0, k.MaxDrawdown)
}

func TestCalculateKPIs_DrawdownNeverRecovered(t *testing.T) {
	// P&L diario que produce acumulado [10, 5, -2, 0, 8]
	trades := []SimulatedTrade{
		trade(1, 10), trade(2, -5), trade(3, -7), trade(4, 2), trade(5, 8),
	}
	k := CalculateKPIs(trades, 1.0)
	require.Len(t, k.Daily, 5)

	var cum, peak, dd []float64
	for _, d := range k.Daily {
		cum = append(cum, d.CumulativePnL)
		peak = append(peak, d.RunningMax)
		dd = append(dd, d.Drawdown)
	}
	assert.InDeltaSlice(t, []float64{10, 5, -2, 0, 8}, cum, 1e-9)
	assert.InDeltaSlice(t, []float64{10, 10, 10, 10, 10}, peak, 1e-9)
	assert.InDeltaSlice(t, []float64{0, -5, -12, -10, -2}, dd, 1e-9)
	assert.InDelta(t, -12.0, k.MaxDrawdown, 1e-9)
	assert.InDelta(t, -120.0, k.MaxDrawdownPct, 1e-9)
	assert.Equal(t, 0, k.RecoveryDays)
}

func TestCalculateKPIs_RecoveryDays(t *testing.T) {
	// acumulado: 10, 4, 7, 12 → peor drawdown el día 3, recupera el día 10
	trades := []SimulatedTrade{trade(1, 10), trade(3, -6), trade(6, 3), trade(10, 5)}
	k := CalculateKPIs(trades, 1.0)
	assert.InDelta(t, -6.0, k.MaxDrawdown, 1e-9)
	assert.Equal(t, 7, k.RecoveryDays)
}

func TestCalculateKPIs_NoPositivePeak(t *testing.T) {
	k := CalculateKPIs([]SimulatedTrade{trade(1, -5), trade(2, -5)}, 1.0)
	assert.InDelta(t, -5.0, k.MaxDrawdown, 1e-9)
	assert.Equal(t, 0.0, k.MaxDrawdownPct)
	assert.False(t, math.IsNaN(k.MaxDrawdownPct))
}

func TestCalculateKPIs_UnsortedInput(t *testing.T) {
	k := CalculateKPIs([]SimulatedTrade{trade(3, 1), trade(1, 2), trade(2, 3)}, 0)
	require.Len(t, k.Daily, 3)
	assert.Equal(t, day(1), k.Daily[0].Date)
	assert.Equal(t, day(3), k.Daily[2].Date)
	assert.InDelta(t, 6.0, k.Daily[2].CumulativePnL, 1e-9)
	assert.Equal(t, day(1), k.DateStart)
	assert.Equal(t, day(3), k.DateEnd)
}

func TestCalculateKPIs_Recomputed(t *testing.T) {
	trades := []SimulatedTrade{trade(1, 4), trade(2, -1)}
	assert.Equal(t, CalculateKPIs(trades, 1), CalculateKPIs(trades, 1))
}
