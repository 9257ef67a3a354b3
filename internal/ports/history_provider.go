package ports

import (
	"context"

	"github.com/ianfmc/livewell-nadex/internal/domain"
)

// HistoryProvider obtiene el histórico crudo de contratos (varios strikes por día).
type HistoryProvider interface {
	LoadHistory(ctx context.Context) ([]domain.PriceObservation, error)
}
