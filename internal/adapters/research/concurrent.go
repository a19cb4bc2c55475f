package research

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/alejandrodnm/edgebot/internal/domain"
)

// LoadFiles decodifica varios archivos de picks en paralelo con un worker pool.
// El resultado conserva el orden de paths (y el orden interno de cada archivo),
// así el orden de entrada del engine no depende del scheduling.
//
// Si workers <= 0 usa runtime.NumCPU(). Un archivo que falla aborta la carga.
func LoadFiles(ctx context.Context, paths []string, workers int) ([]domain.Opportunity, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("research.LoadFiles: no input files")
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, len(paths))

	type result struct {
		opps []domain.Opportunity
		err  error
	}

	workCh := make(chan int, len(paths))
	results := make([]result, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range workCh {
				if err := ctx.Err(); err != nil {
					results[idx] = result{err: err}
					continue
				}
				opps, err := decodeFile(paths[idx])
				results[idx] = result{opps: opps, err: err}
			}
		}()
	}

	for idx := range paths {
		workCh <- idx
	}
	close(workCh)
	wg.Wait()

	var all []domain.Opportunity
	for _, r := range results {
		if r.err != nil {
			return nil, fmt.Errorf("research.LoadFiles: %w", r.err)
		}
		all = append(all, r.opps...)
	}

	slog.Debug("concurrent decode complete",
		"files", len(paths),
		"picks", len(all),
		"workers", workers,
	)
	return all, nil
}
