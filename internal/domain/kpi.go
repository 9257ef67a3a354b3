package domain

import (
	"math"
	"sort"
	"time"
)

// DefaultCommission es la comisión por contrato en USD.
const DefaultCommission = 1.00

// DailyMetric es una fila del agregado diario usado para los charts.
type DailyMetric struct {
	Date          time.Time
	PnL           float64 // suma del P&L de los trades del día
	EntryCost     float64 // suma del coste de entrada del día
	CumulativePnL float64
	RunningMax    float64 // pico de CumulativePnL hasta la fecha
	Drawdown      float64 // CumulativePnL - RunningMax (<= 0)
}

// KPIRecord son las métricas agregadas de un backtest.
// DateStart y DateEnd en cero significan "sin trades".
type KPIRecord struct {
	WinRate        float64
	TotalTrades    int
	Wins           int
	Losses         int
	GrossPnL       float64
	Commissions    float64
	NetPnL         float64
	MaxDrawdown    float64 // valor más negativo del drawdown diario
	MaxDrawdownPct float64 // MaxDrawdown / pico máximo × 100
	RecoveryDays   int
	DateStart      time.Time
	DateEnd        time.Time
	Daily          []DailyMetric
}

// HasDateRange devuelve true si el registro cubre al menos un trade.
func (k KPIRecord) HasDateRange() bool {
	return !k.DateStart.IsZero()
}

// CalculateKPIs calcula todas las métricas a partir de los trades.
//
//   - win = pnl > 0; loss = pnl <= 0 (P&L cero es pérdida)
//   - net = gross - total_trades × commission
//   - drawdown diario sobre el P&L acumulado por fecha
//   - recovery = días desde el peor drawdown hasta volver a drawdown >= 0
//
// Una lista vacía devuelve un registro en cero. Nunca devuelve NaN ni Inf.
func CalculateKPIs(trades []SimulatedTrade, commission float64) KPIRecord {
	if len(trades) == 0 {
		return KPIRecord{Daily: []DailyMetric{}}
	}

	var k KPIRecord
	k.TotalTrades = len(trades)
	k.DateStart = trades[0].Date
	k.DateEnd = trades[0].Date
	for _, t := range trades {
		if t.IsWin() {
			k.Wins++
		} else {
			k.Losses++
		}
		k.GrossPnL += t.PnL
		if t.Date.Before(k.DateStart) {
			k.DateStart = t.Date
		}
		if t.Date.After(k.DateEnd) {
			k.DateEnd = t.Date
		}
	}
	k.WinRate = float64(k.Wins) / float64(k.TotalTrades)
	k.Commissions = float64(k.TotalTrades) * commission
	k.NetPnL = k.GrossPnL - k.Commissions

	k.Daily = DailyAggregate(trades)
	k.MaxDrawdown, k.MaxDrawdownPct, k.RecoveryDays = drawdownStats(k.Daily)
	return k
}

// DailyAggregate agrupa los trades por fecha (P&L y coste de entrada sumados),
// ordena por fecha y calcula P&L acumulado, pico y drawdown.
func DailyAggregate(trades []SimulatedTrade) []DailyMetric {
	byDay := make(map[int64]int)
	daily := make([]DailyMetric, 0)
	for _, t := range trades {
		key := t.Date.UnixNano()
		i, ok := byDay[key]
		if !ok {
			i = len(daily)
			byDay[key] = i
			daily = append(daily, DailyMetric{Date: t.Date})
		}
		daily[i].PnL += t.PnL
		daily[i].EntryCost += t.EntryCost
	}
	sort.SliceStable(daily, func(a, b int) bool { return daily[a].Date.Before(daily[b].Date) })

	var cum float64
	peak := math.Inf(-1)
	for i := range daily {
		cum += daily[i].PnL
		peak = math.Max(peak, cum)
		daily[i].CumulativePnL = cum
		daily[i].RunningMax = peak
		daily[i].Drawdown = cum - peak
	}
	return daily
}

// drawdownStats devuelve (max drawdown, max drawdown %, días de recuperación).
func drawdownStats(daily []DailyMetric) (float64, float64, int) {
	if len(daily) == 0 {
		return 0, 0, 0
	}

	worst := 0 // primera fecha con el drawdown mínimo
	maxPeak := daily[0].RunningMax
	for i, d := range daily {
		if d.Drawdown < daily[worst].Drawdown {
			worst = i
		}
		maxPeak = math.Max(maxPeak, d.RunningMax)
	}
	maxDD := daily[worst].Drawdown

	var maxDDPct float64
	if maxPeak > 0 {
		maxDDPct = maxDD / maxPeak * 100
	}

	recovery := 0
	for _, d := range daily[worst:] {
		if d.Drawdown >= 0 {
			recovery = daysBetween(daily[worst].Date, d.Date)
			break
		}
	}
	return maxDD, maxDDPct, recovery
}

// daysBetween devuelve los días naturales completos entre dos fechas.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
