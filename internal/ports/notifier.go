package ports

import (
	"context"

	"github.com/ianfmc/livewell-nadex/internal/domain"
)

// Notifier presenta los resultados del backtest al usuario.
type Notifier interface {
	// NotifyKPIs muestra el resumen de KPIs de una ejecución.
	NotifyKPIs(ctx context.Context, kpis domain.KPIRecord, params domain.StrategyParams) error

	// NotifyComparison muestra la tabla comparativa de presets.
	NotifyComparison(ctx context.Context, rows []domain.StrategyComparison) error
}
