package backtest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ianfmc/livewell-nadex/internal/domain"
	"github.com/ianfmc/livewell-nadex/internal/strategy"
)

// Compare ejecuta el backtest con cada preset sobre el mismo histórico y
// devuelve una fila de estadísticas por preset, en el mismo orden.
func Compare(ctx context.Context, daily []domain.PriceObservation, presets []strategy.Preset, opts ...Option) ([]domain.StrategyComparison, error) {
	rows := make([]domain.StrategyComparison, 0, len(presets))
	for i, p := range presets {
		slog.Info("testing strategy",
			"n", fmt.Sprintf("%d/%d", i+1, len(presets)),
			"name", p.Name,
		)

		engine, err := New(p.Params, opts...)
		if err != nil {
			return nil, fmt.Errorf("backtest.Compare: preset %q: %w", p.Name, err)
		}
		trades, err := engine.Run(ctx, daily)
		if err != nil {
			return nil, fmt.Errorf("backtest.Compare: preset %q: %w", p.Name, err)
		}
		rows = append(rows, domain.StrategyComparison{
			Name:   p.Name,
			Params: engine.Params(),
			Stats:  domain.SummarizeTrades(trades),
		})
	}
	return rows, nil
}
