// Package report prepara la vista del dashboard de KPIs: formatea valores,
// decide las clases CSS y serializa las series de los charts. El HTML lo
// genera un ports.ReportRenderer.
package report

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ianfmc/livewell-nadex/internal/domain"
)

const (
	TemplateDashboard = "kpi_dashboard"
	TemplateCompact   = "kpi_compact"

	classPositive = "positive"
	classNegative = "negative"

	displayDate   = "Jan 02, 2006"
	generatedTime = "01/02/2006, 03:04:05 PM"
)

// Options son los parámetros de presentación del dashboard.
type Options struct {
	CommissionPerContract float64
	StrategyLabel         string
	Template              string // kpi_dashboard (por defecto) | kpi_compact
}

// BuildDashboard convierte un KPIRecord en la vista del renderer.
func BuildDashboard(k domain.KPIRecord, opts Options, now time.Time) domain.Dashboard {
	if opts.Template == "" {
		opts.Template = TemplateDashboard
	}

	dates, cum, dd := chartSeries(k.Daily)

	return domain.Dashboard{
		WinRate:        percent(k.WinRate * 100),
		TotalTrades:    k.TotalTrades,
		Wins:           k.Wins,
		Losses:         k.Losses,
		GrossPnL:       money(k.GrossPnL),
		Commissions:    money(k.Commissions),
		NetPnL:         money(k.NetPnL),
		MaxDrawdown:    money(k.MaxDrawdown),
		MaxDrawdownPct: percent(k.MaxDrawdownPct),
		RecoveryDays:   k.RecoveryDays,

		DateStart:     dateOrNA(k.DateStart),
		DateEnd:       dateOrNA(k.DateEnd),
		GeneratedTime: now.Format(generatedTime),

		WinRateClass:  classFor(k.WinRate >= 0.5),
		NetPnLClass:   classFor(k.NetPnL >= 0),
		GrossPnLClass: classFor(k.GrossPnL >= 0),

		DatesJSON:         dates,
		CumulativePnLJSON: cum,
		DrawdownJSON:      dd,

		CommissionPerContract: money(opts.CommissionPerContract),
		StrategyLabel:         opts.StrategyLabel,
		Template:              opts.Template,
	}
}

// chartSeries serializa fechas, P&L acumulado y drawdown, alineados por
// índice y redondeados a 2 decimales.
func chartSeries(daily []domain.DailyMetric) (dates, cumulative, drawdown string) {
	d := make([]string, len(daily))
	c := make([]float64, len(daily))
	w := make([]float64, len(daily))
	for i, m := range daily {
		d[i] = m.Date.Format("2006-01-02")
		c[i] = round2(m.CumulativePnL)
		w[i] = round2(m.Drawdown)
	}
	return mustJSON(d), mustJSON(c), mustJSON(w)
}

func round2(v float64) float64 {
	r := decimal.NewFromFloat(v).Round(2).InexactFloat64()
	if r == 0 {
		return 0 // evita "-0" en el JSON
	}
	return r
}

// mustJSON solo recibe slices de string/float64 finitos: Marshal no falla.
func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// money formatea como "$1234.50" o "-$12.00".
func money(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

func percent(v float64) string {
	return fmt.Sprintf("%s%%", decimal.NewFromFloat(v).StringFixed(1))
}

func dateOrNA(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(displayDate)
}

func classFor(ok bool) string {
	if ok {
		return classPositive
	}
	return classNegative
}
