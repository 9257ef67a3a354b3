package strategy

import "github.com/ianfmc/livewell-nadex/internal/domain"

// Strategy define el contrato para generar señales sobre la serie de un ticker.
// Cada estrategia encapsula un indicador y sus reglas de entrada.
type Strategy interface {
	// Name devuelve el identificador único de la estrategia.
	Name() string

	// Signals evalúa la serie cronológica de valores esperados de UN ticker y
	// devuelve el valor del indicador y la señal para cada fecha.
	// Ambos slices tienen la misma longitud que values.
	Signals(values []float64) (indicator []float64, signals []domain.Signal)
}
