package domain

import "math"

// tradingDaysPerYear anualiza el Sharpe de trades diarios.
const tradingDaysPerYear = 252

// TradeStats resume un conjunto de trades para comparar estrategias entre sí.
// A diferencia de KPIRecord, aquí los trades con P&L = 0 no cuentan ni como
// ganadores ni como perdedores.
type TradeStats struct {
	TotalTrades    int
	WinningTrades  int // pnl > 0
	LosingTrades   int // pnl < 0
	WinRate        float64
	TotalPnL       float64
	AvgWin         float64
	AvgLoss        float64
	AvgEntryCost   float64
	TotalCapital   float64 // suma de costes de entrada
	TotalReturnPct float64 // TotalPnL / TotalCapital × 100
	SharpeRatio    float64 // media / desviación muestral × √252
}

// SummarizeTrades calcula TradeStats. Devuelve ceros si no hay trades.
func SummarizeTrades(trades []SimulatedTrade) TradeStats {
	var s TradeStats
	s.TotalTrades = len(trades)
	if s.TotalTrades == 0 {
		return s
	}

	var winSum, lossSum float64
	for _, t := range trades {
		s.TotalPnL += t.PnL
		s.TotalCapital += t.EntryCost
		switch {
		case t.PnL > 0:
			s.WinningTrades++
			winSum += t.PnL
		case t.PnL < 0:
			s.LosingTrades++
			lossSum += t.PnL
		}
	}

	n := float64(s.TotalTrades)
	s.WinRate = float64(s.WinningTrades) / n
	s.AvgEntryCost = s.TotalCapital / n
	if s.WinningTrades > 0 {
		s.AvgWin = winSum / float64(s.WinningTrades)
	}
	if s.LosingTrades > 0 {
		s.AvgLoss = lossSum / float64(s.LosingTrades)
	}
	if s.TotalCapital > 0 {
		s.TotalReturnPct = s.TotalPnL / s.TotalCapital * 100
	}
	s.SharpeRatio = sharpe(trades, s.TotalPnL/n)
	return s
}

// sharpe usa la desviación estándar muestral (n-1). 0 si n < 2 o std = 0.
func sharpe(trades []SimulatedTrade, mean float64) float64 {
	if len(trades) < 2 {
		return 0
	}
	var ss float64
	for _, t := range trades {
		d := t.PnL - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(len(trades)-1))
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(tradingDaysPerYear)
}

// StrategyComparison es una fila de la comparación entre presets.
type StrategyComparison struct {
	Name   string
	Params StrategyParams
	Stats  TradeStats
}

// BestBy devuelve la fila con el mayor valor de metric. En empate gana la
// primera. ok es false si rows está vacío.
func BestBy(rows []StrategyComparison, metric func(TradeStats) float64) (best StrategyComparison, ok bool) {
	for i, r := range rows {
		if i == 0 || metric(r.Stats) > metric(best.Stats) {
			best = r
		}
	}
	return best, len(rows) > 0
}
