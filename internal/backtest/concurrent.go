package backtest

// Worker pool para backtest paralelo por ticker.
//
// Los tickers no dependen entre sí: cada worker escribe en el slot de su
// ticker y el llamador concatena en orden, así que el resultado no depende
// del scheduling.

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/ianfmc/livewell-nadex/internal/domain"
)

// runPerTicker aplica fn a cada serie usando un pool de workers.
// Si workers <= 0 usa runtime.NumCPU().
func runPerTicker(
	ctx context.Context,
	series []domain.TickerSeries,
	workers int,
	fn func(domain.TickerSeries) []domain.SimulatedTrade,
) ([][]domain.SimulatedTrade, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(series) {
		workers = len(series)
	}

	results := make([][]domain.SimulatedTrade, len(series))
	workCh := make(chan int, len(series))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range workCh {
				if ctx.Err() != nil {
					continue // drenar el canal sin trabajar
				}
				results[i] = fn(series[i])
			}
		}()
	}

	for i := range series {
		workCh <- i
	}
	close(workCh)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Debug("concurrent backtest complete",
		"tickers", len(series),
		"workers", workers,
	)
	return results, nil
}
