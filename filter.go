package packset

import (
	"context"
	"time"

	"github.com/hupe1980/packset/internal/sortedset"
	"golang.org/x/sync/errgroup"
)

// Filter evaluates one query against many encoded rows and returns the
// indexes of the matching rows in ascending order.
//
// Rows are evaluated in parallel (see WithConcurrency). The first failing
// row cancels the remaining work and is returned as *RowError.
func (e *Engine) Filter(ctx context.Context, rows [][]byte, mode Mode, query ...int64) ([]int, error) {
	start := time.Now()

	matches, err := e.filter(ctx, rows, mode, sortedset.Canonicalize(query))

	e.opts.metricsCollector.RecordFilter(mode, len(rows), len(matches), time.Since(start), err)
	e.opts.logger.LogFilter(ctx, mode, len(rows), len(matches), err)

	return matches, err
}

func (e *Engine) filter(ctx context.Context, rows [][]byte, mode Mode, query []int64) ([]int, error) {
	opts := e.setOptions()
	hits := make([]bool, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.concurrency)

	for i, row := range rows {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ok, err := sortedset.Query(row, mode, query, opts)
			if err != nil {
				return &RowError{Row: i, cause: translateError(err)}
			}
			hits[i] = ok
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []int
	for i, ok := range hits {
		if ok {
			out = append(out, i)
		}
	}
	return out, nil
}
