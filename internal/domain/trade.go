package domain

import "time"

// SimulatedTrade es una operación simulada sobre un contrato binario en una
// fecha con señal BUY o SELL. Se construye una vez con NewSimulatedTrade y no
// se modifica después.
type SimulatedTrade struct {
	Date        time.Time
	Ticker      string
	ExpValue    float64
	StrikePrice float64
	RSI         float64
	Signal      Signal

	EntryCost      float64
	ProbabilityITM float64 // 0 con el modelo de 3 niveles (el probabilístico nunca baja de 0.05)
	InTheMoney     bool    // resultado histórico real
	PnL            float64 // payout - EntryCost si ITM, -EntryCost si no
}

// NewSimulatedTrade simula el P&L binario de una observación con señal.
func NewSimulatedTrade(obs PriceObservation, rsi float64, signal Signal, quote Quote, payout float64) SimulatedTrade {
	pnl := -quote.EntryCost
	if obs.InTheMoney {
		pnl = payout - quote.EntryCost
	}
	return SimulatedTrade{
		Date:           obs.Date,
		Ticker:         obs.Ticker,
		ExpValue:       obs.ExpValue,
		StrikePrice:    obs.StrikePrice,
		RSI:            rsi,
		Signal:         signal,
		EntryCost:      quote.EntryCost,
		ProbabilityITM: quote.Probability,
		InTheMoney:     obs.InTheMoney,
		PnL:            pnl,
	}
}

// IsWin devuelve true si el trade ganó dinero. P&L = 0 cuenta como pérdida.
func (t SimulatedTrade) IsWin() bool {
	return t.PnL > 0
}
