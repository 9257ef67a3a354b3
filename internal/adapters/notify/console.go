package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/ianfmc/livewell-nadex/internal/domain"
	"github.com/ianfmc/livewell-nadex/internal/ports"
)

// DefaultSampleTrades es cuántos trades muestra PrintSampleTrades por defecto.
const DefaultSampleTrades = 15

const rule = "======================================================================"

var _ ports.Notifier = (*Console)(nil)

// Console implementa ports.Notifier.
type Console struct {
	out io.Writer
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// NotifyKPIs imprime el resumen de KPIs de una ejecución.
func (c *Console) NotifyKPIs(_ context.Context, k domain.KPIRecord, params domain.StrategyParams) error {
	fmt.Fprintf(c.out, "\n%s\n", rule)
	fmt.Fprintf(c.out, "  KPI SUMMARY  %s\n", params.Label())
	if k.HasDateRange() {
		fmt.Fprintf(c.out, "  %s to %s\n", k.DateStart.Format("2006-01-02"), k.DateEnd.Format("2006-01-02"))
	}
	fmt.Fprintf(c.out, "%s\n", rule)

	if k.TotalTrades == 0 {
		fmt.Fprintln(c.out, "  No trades generated.")
		return nil
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Metric", "Value")
	table.Append("Win rate", fmt.Sprintf("%.2f%%", k.WinRate*100))
	table.Append("Total trades", fmt.Sprintf("%d", k.TotalTrades))
	table.Append("Wins / losses", fmt.Sprintf("%d / %d", k.Wins, k.Losses))
	table.Append("Gross P&L", usd(k.GrossPnL))
	table.Append("Commissions", usd(k.Commissions))
	table.Append("Net P&L", usd(k.NetPnL))
	table.Append("Max drawdown", usd(k.MaxDrawdown))
	table.Append("Max drawdown %", fmt.Sprintf("%.2f%%", k.MaxDrawdownPct))
	table.Append("Recovery days", fmt.Sprintf("%d", k.RecoveryDays))
	table.Render()

	verdict := "POSITIVE: strategy is net profitable after commissions."
	if k.NetPnL <= 0 {
		verdict = "NEGATIVE: strategy loses money after commissions."
	}
	fmt.Fprintf(c.out, "  %s\n", verdict)
	return nil
}

// PrintTradeStats imprime las estadísticas por trade de una ejecución.
func (c *Console) PrintTradeStats(name string, s domain.TradeStats) {
	fmt.Fprintf(c.out, "\n%s RESULTS\n%s\n", strings.ToUpper(name), rule)
	fmt.Fprintf(c.out, "Total Trades:           %d\n", s.TotalTrades)
	fmt.Fprintf(c.out, "Winning Trades:         %d\n", s.WinningTrades)
	fmt.Fprintf(c.out, "Losing Trades:          %d\n", s.LosingTrades)
	fmt.Fprintf(c.out, "Win Rate:               %.2f%%\n", s.WinRate*100)
	fmt.Fprintf(c.out, "\nTotal P&L:              %s\n", usd(s.TotalPnL))
	fmt.Fprintf(c.out, "Average Win:            %s\n", usd(s.AvgWin))
	fmt.Fprintf(c.out, "Average Loss:           %s\n", usd(s.AvgLoss))
	fmt.Fprintf(c.out, "\nAvg Entry Cost:         %s\n", usd(s.AvgEntryCost))
	fmt.Fprintf(c.out, "Total Capital Used:     %s\n", usd(s.TotalCapital))
	fmt.Fprintf(c.out, "Total Return:           %.2f%%\n", s.TotalReturnPct)
	fmt.Fprintf(c.out, "Sharpe Ratio:           %.2f\n", s.SharpeRatio)
	fmt.Fprintln(c.out, rule)
}

// PrintSampleTrades imprime los primeros n trades (n <= 0 usa DefaultSampleTrades).
func (c *Console) PrintSampleTrades(trades []domain.SimulatedTrade, n int) {
	if n <= 0 {
		n = DefaultSampleTrades
	}
	if len(trades) == 0 {
		fmt.Fprintln(c.out, "\nNo trades to show.")
		return
	}
	if len(trades) > n {
		trades = trades[:n]
	}

	fmt.Fprintln(c.out, "\nSample Trades:")
	table := tablewriter.NewWriter(c.out)
	table.Header("Date", "Ticker", "Exp Value", "Strike", "RSI", "Signal", "Entry", "P(ITM)", "ITM", "P&L")
	for _, t := range trades {
		prob := "-"
		if t.ProbabilityITM > 0 {
			prob = fmt.Sprintf("%.3f", t.ProbabilityITM)
		}
		itm := "no"
		if t.InTheMoney {
			itm = "yes"
		}
		table.Append(
			t.Date.Format("2006-01-02"),
			t.Ticker,
			fmt.Sprintf("%.4f", t.ExpValue),
			fmt.Sprintf("%.4f", t.StrikePrice),
			fmt.Sprintf("%.1f", t.RSI),
			t.Signal.String(),
			fmt.Sprintf("$%.2f", t.EntryCost),
			prob,
			itm,
			usd(t.PnL),
		)
	}
	table.Render()
}

// NotifyComparison imprime la tabla comparativa y el mejor preset por
// P&L total, win rate y Sharpe.
func (c *Console) NotifyComparison(_ context.Context, rows []domain.StrategyComparison) error {
	fmt.Fprintf(c.out, "\nSTRATEGY COMPARISON\n%s\n", rule)
	if len(rows) == 0 {
		fmt.Fprintln(c.out, "  No strategies to compare.")
		return nil
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Strategy", "RSI", "Levels", "Trades", "Win rate", "Total P&L", "Avg entry", "Return %", "Sharpe")
	for _, r := range rows {
		s := r.Stats
		table.Append(
			r.Name,
			fmt.Sprintf("%d", r.Params.RSIPeriod),
			fmt.Sprintf("%.0f/%.0f", r.Params.Oversold, r.Params.Overbought),
			fmt.Sprintf("%d", s.TotalTrades),
			fmt.Sprintf("%.2f%%", s.WinRate*100),
			usd(s.TotalPnL),
			fmt.Sprintf("$%.2f", s.AvgEntryCost),
			fmt.Sprintf("%.2f%%", s.TotalReturnPct),
			fmt.Sprintf("%.2f", s.SharpeRatio),
		)
	}
	table.Render()

	if best, ok := domain.BestBy(rows, func(s domain.TradeStats) float64 { return s.TotalPnL }); ok {
		fmt.Fprintf(c.out, "\nBest by Total P&L:\n  %s: %s\n", best.Name, usd(best.Stats.TotalPnL))
	}
	if best, ok := domain.BestBy(rows, func(s domain.TradeStats) float64 { return s.WinRate }); ok {
		fmt.Fprintf(c.out, "\nBest by Win Rate:\n  %s: %.2f%%\n", best.Name, best.Stats.WinRate*100)
	}
	if best, ok := domain.BestBy(rows, func(s domain.TradeStats) float64 { return s.SharpeRatio }); ok {
		fmt.Fprintf(c.out, "\nBest by Sharpe Ratio:\n  %s: %.2f\n", best.Name, best.Stats.SharpeRatio)
	}
	fmt.Fprintln(c.out, rule)
	return nil
}

// usd formatea como "$12.50" o "-$3.00".
func usd(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("$%.2f", v)
}
