package domain

import (
	"math"
	"sort"
	"time"
)

// PriceObservation es una fila del histórico de contratos: un strike concreto
// de un ticker en una fecha de trading.
type PriceObservation struct {
	Ticker      string
	Date        time.Time
	ExpValue    float64 // valor esperado del subyacente al vencimiento
	StrikePrice float64
	InTheMoney  bool // resultado real: el contrato liquidó ITM
}

// StrikeDistance devuelve |ExpValue - StrikePrice|.
func (o PriceObservation) StrikeDistance() float64 {
	return math.Abs(o.ExpValue - o.StrikePrice)
}

type tickerDate struct {
	ticker string
	day    int64 // unix nanos: time.Time como clave de map compara también la Location
}

// AggregateToDaily reduce varios strikes por día a una sola observación por
// (ticker, fecha): la más cercana al ExpValue (at-the-money). Los empates se
// resuelven a favor de la primera fila encontrada.
//
// El resultado queda ordenado por ticker y fecha. Aplicarlo sobre su propia
// salida no cambia nada.
func AggregateToDaily(raw []PriceObservation) []PriceObservation {
	best := make(map[tickerDate]int, len(raw))
	for i, o := range raw {
		k := tickerDate{ticker: o.Ticker, day: o.Date.UnixNano()}
		j, ok := best[k]
		if !ok || o.StrikeDistance() < raw[j].StrikeDistance() {
			best[k] = i
		}
	}

	daily := make([]PriceObservation, 0, len(best))
	for _, i := range best {
		daily = append(daily, raw[i])
	}
	sort.SliceStable(daily, func(a, b int) bool {
		if daily[a].Ticker != daily[b].Ticker {
			return daily[a].Ticker < daily[b].Ticker
		}
		return daily[a].Date.Before(daily[b].Date)
	})
	return daily
}

// TickerSeries es el histórico diario de un solo ticker, en orden cronológico.
type TickerSeries struct {
	Ticker       string
	Observations []PriceObservation
}

// ExpValues devuelve la serie de valores esperados del ticker.
func (s TickerSeries) ExpValues() []float64 {
	out := make([]float64, len(s.Observations))
	for i, o := range s.Observations {
		out[i] = o.ExpValue
	}
	return out
}

// GroupByTicker separa el histórico diario por ticker. Los tickers salen en el
// orden en que aparecen por primera vez y cada serie se ordena por fecha.
func GroupByTicker(daily []PriceObservation) []TickerSeries {
	idx := make(map[string]int)
	var series []TickerSeries
	for _, o := range daily {
		i, ok := idx[o.Ticker]
		if !ok {
			i = len(series)
			idx[o.Ticker] = i
			series = append(series, TickerSeries{Ticker: o.Ticker})
		}
		series[i].Observations = append(series[i].Observations, o)
	}
	for _, s := range series {
		obs := s.Observations
		sort.SliceStable(obs, func(a, b int) bool { return obs[a].Date.Before(obs[b].Date) })
	}
	return series
}
