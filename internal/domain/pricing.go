package domain

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DefaultMaxPayout es el pago fijo de un contrato binario que liquida ITM.
	DefaultMaxPayout = 10.0
	// DefaultVolatility es la volatilidad diaria asumida (1%).
	DefaultVolatility = 0.01

	minProbability = 0.05
	maxProbability = 0.95

	// Precios fijos del modelo de 3 niveles.
	TierCostITM = 7.50
	TierCostATM = 5.00
	TierCostOTM = 2.50

	PricerProbability = "probability"
	PricerTier        = "tier"
)

// ErrUnknownPricer se devuelve cuando la configuración pide un modelo de precio inexistente.
var ErrUnknownPricer = errors.New("unknown pricer")

// ProbabilityITM estima la probabilidad de que el contrato liquide ITM usando
// una aproximación gaussiana:
//
//	z = (E - K) / (K × σ)
//	p = Φ(z), acotada a [0.05, 0.95]
//
// σ <= 0 se sustituye por 1%. Si z no está definido (K = 0 y E = 0) se usa 0.5.
func ProbabilityITM(expValue, strikePrice, volatility float64) float64 {
	if volatility <= 0 || math.IsNaN(volatility) {
		volatility = DefaultVolatility
	}
	z := (expValue - strikePrice) / (strikePrice * volatility)
	p := normCDF(z)
	if math.IsNaN(p) {
		p = 0.5
	}
	return math.Max(minProbability, math.Min(maxProbability, p))
}

// FairEntryCost devuelve (coste de entrada, probabilidad ITM) con el modelo
// probabilístico: coste = maxPayout × p.
func FairEntryCost(expValue, strikePrice, maxPayout, volatility float64) (float64, float64) {
	if maxPayout <= 0 {
		maxPayout = DefaultMaxPayout
	}
	p := ProbabilityITM(expValue, strikePrice, volatility)
	return maxPayout * p, p
}

// TierEntryCost calcula el coste con el modelo de 3 niveles según la distancia
// al strike (umbral = 1% del strike):
//   - diff > umbral:  $7.50 (ITM)
//   - diff < -umbral: $2.50 (OTM)
//   - resto:          $5.00 (ATM)
func TierEntryCost(expValue, strikePrice float64) float64 {
	threshold := strikePrice * 0.01
	diff := expValue - strikePrice
	switch {
	case diff > threshold:
		return TierCostITM
	case diff < -threshold:
		return TierCostOTM
	default:
		return TierCostATM
	}
}

// normCDF es la función de distribución de la normal estándar.
func normCDF(z float64) float64 {
	return 0.5 * math.Erfc(-z/math.Sqrt2)
}

// Quote es el precio de entrada calculado para un contrato.
type Quote struct {
	EntryCost   float64
	Probability float64 // 0 si el modelo no produce probabilidad
}

// Pricer calcula el coste de entrada de un contrato dado el valor esperado y el strike.
type Pricer interface {
	Name() string
	Quote(expValue, strikePrice float64) Quote
}

// ProbabilityPricer implementa Pricer con el modelo gaussiano.
type ProbabilityPricer struct {
	Volatility float64
	MaxPayout  float64
}

// Name implementa Pricer.
func (ProbabilityPricer) Name() string { return PricerProbability }

// Quote implementa Pricer.
func (p ProbabilityPricer) Quote(expValue, strikePrice float64) Quote {
	cost, prob := FairEntryCost(expValue, strikePrice, p.MaxPayout, p.Volatility)
	return Quote{EntryCost: cost, Probability: prob}
}

// TierPricer implementa Pricer con el modelo determinista de 3 niveles.
type TierPricer struct{}

// Name implementa Pricer.
func (TierPricer) Name() string { return PricerTier }

// Quote implementa Pricer.
func (TierPricer) Quote(expValue, strikePrice float64) Quote {
	return Quote{EntryCost: TierEntryCost(expValue, strikePrice)}
}

// NewPricer construye el Pricer indicado en los parámetros de la estrategia.
func NewPricer(params StrategyParams) (Pricer, error) {
	params = params.WithDefaults()
	switch params.Pricer {
	case PricerProbability:
		return ProbabilityPricer{Volatility: params.Volatility, MaxPayout: params.MaxPayout}, nil
	case PricerTier:
		return TierPricer{}, nil
	default:
		return nil, fmt.Errorf("domain.NewPricer: %w: %q", ErrUnknownPricer, params.Pricer)
	}
}
