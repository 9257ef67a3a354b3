package domain

import "math"

// RSI calcula el oscilador de fuerza relativa sobre una serie de valores.
//
// Fórmula:
//
//	delta(t)  = v(t) - v(t-1)            (delta(0) = 0)
//	avgGain   = media simple de max(delta, 0) en la ventana de `period`
//	avgLoss   = media simple de max(-delta, 0) en la ventana de `period`
//	rsi       = 100 - 100 / (1 + avgGain/avgLoss)
//
// Las primeras period-1 posiciones quedan en NaN (no definidas). Si avgLoss es
// 0 el oscilador satura en 100. Una serie más corta que el período devuelve
// todo NaN.
func RSI(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if period < 1 || len(values) < period {
		return out
	}

	gains := make([]float64, len(values))
	losses := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		delta := values[i] - values[i-1]
		if delta > 0 {
			gains[i] = delta
		} else if delta < 0 {
			losses[i] = -delta
		}
	}

	// Suma directa por ventana: sin arrastre de error entre ventanas.
	for i := period - 1; i < len(values); i++ {
		var gainSum, lossSum float64
		for j := i - period + 1; j <= i; j++ {
			gainSum += gains[j]
			lossSum += losses[j]
		}
		avgGain := gainSum / float64(period)
		avgLoss := lossSum / float64(period)

		if avgLoss == 0 {
			out[i] = 100
			continue
		}
		rs := avgGain / avgLoss
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// GenerateSignals traduce el RSI a señales de reversión:
// rsi < oversold → BUY, rsi > overbought → SELL, resto (o NaN) → HOLD.
func GenerateSignals(rsi []float64, oversold, overbought float64) []Signal {
	signals := make([]Signal, len(rsi))
	for i, v := range rsi {
		switch {
		case math.IsNaN(v):
			signals[i] = SignalHold
		case v < oversold:
			signals[i] = SignalBuy
		case v > overbought:
			signals[i] = SignalSell
		default:
			signals[i] = SignalHold
		}
	}
	return signals
}
