package notify_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ianfmc/livewell-nadex/internal/adapters/notify"
	"github.com/ianfmc/livewell-nadex/internal/domain"
)

func day(d int) time.Time {
	return time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d)
}

func TestConsole_NotifyKPIs(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf)

	k := domain.CalculateKPIs([]domain.SimulatedTrade{
		{Date: day(0), Ticker: "US500", EntryCost: 5, PnL: 5},
		{Date: day(1), Ticker: "US500", EntryCost: 7, PnL: -7},
		{Date: day(2), Ticker: "GOLD", EntryCost: 4, PnL: 6},
	}, 1)
	err := n.NotifyKPIs(context.Background(), k, domain.DefaultStrategyParams())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "RSI(14) 30/70 probability")
	assert.Contains(t, out, "2025-03-01 to 2025-03-03")
	assert.Contains(t, out, "66.67%")
	assert.Contains(t, out, "$4.00")  // gross
	assert.Contains(t, out, "$1.00")  // net
	assert.Contains(t, out, "-$7.00") // max drawdown
	assert.Contains(t, out, "POSITIVE")
}

func TestConsole_NotifyKPIs_NoTrades(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf)

	require.NoError(t, n.NotifyKPIs(context.Background(), domain.CalculateKPIs(nil, 1), domain.DefaultStrategyParams()))
	assert.Contains(t, buf.String(), "No trades generated")
}

func TestConsole_PrintSampleTrades_Limit(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf)

	var trades []domain.SimulatedTrade
	for i := 0; i < 20; i++ {
		trades = append(trades, domain.SimulatedTrade{
			Date: day(i), Ticker: fmt.Sprintf("T%02d", i), Signal: domain.SignalBuy, EntryCost: 2.5, PnL: 7.5, InTheMoney: true,
		})
	}
	n.PrintSampleTrades(trades, 0)

	out := buf.String()
	assert.Contains(t, out, "T00")
	assert.Contains(t, out, "T14")
	assert.NotContains(t, out, "T15")
	assert.Contains(t, out, "BUY")
	assert.Equal(t, 15, strings.Count(out, "$7.50"))
}

func TestConsole_PrintSampleTrades_Empty(t *testing.T) {
	var buf bytes.Buffer
	notify.NewConsoleWriter(&buf).PrintSampleTrades(nil, 5)
	assert.Contains(t, buf.String(), "No trades to show")
}

func TestConsole_NotifyComparison(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf)

	rows := []domain.StrategyComparison{
		{Name: "Baseline", Params: domain.StrategyParams{RSIPeriod: 14, Oversold: 30, Overbought: 70},
			Stats: domain.TradeStats{TotalTrades: 40, WinRate: 0.55, TotalPnL: 12.5, SharpeRatio: 0.8}},
		{Name: "Aggressive", Params: domain.StrategyParams{RSIPeriod: 14, Oversold: 35, Overbought: 65},
			Stats: domain.TradeStats{TotalTrades: 90, WinRate: 0.51, TotalPnL: 30, SharpeRatio: 1.4}},
		{Name: "Conservative", Params: domain.StrategyParams{RSIPeriod: 14, Oversold: 25, Overbought: 75},
			Stats: domain.TradeStats{TotalTrades: 12, WinRate: 0.75, TotalPnL: -3, SharpeRatio: -0.2}},
	}
	require.NoError(t, n.NotifyComparison(context.Background(), rows))

	out := buf.String()
	assert.Contains(t, out, "35/65")
	assert.Contains(t, out, "Best by Total P&L:\n  Aggressive: $30.00")
	assert.Contains(t, out, "Best by Win Rate:\n  Conservative: 75.00%")
	assert.Contains(t, out, "Best by Sharpe Ratio:\n  Aggressive: 1.40")
}

func TestConsole_PrintTradeStats(t *testing.T) {
	var buf bytes.Buffer
	notify.NewConsoleWriter(&buf).PrintTradeStats("Baseline", domain.TradeStats{
		TotalTrades: 4, WinningTrades: 2, LosingTrades: 1, WinRate: 0.5, TotalPnL: 4, AvgLoss: -4, SharpeRatio: 1.234,
	})
	out := buf.String()
	assert.Contains(t, out, "BASELINE RESULTS")
	assert.Contains(t, out, "Win Rate:               50.00%")
	assert.Contains(t, out, "Average Loss:           -$4.00")
	assert.Contains(t, out, "Sharpe Ratio:           1.23")
}
