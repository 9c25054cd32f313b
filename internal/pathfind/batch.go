package pathfind

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/talgya/hexroute/internal/world"
)

// Query is one FindPath request in a batch.
type Query struct {
	Start   world.HexCoord
	End     world.HexCoord
	Options PathOptions
}

// FindPaths runs independent queries concurrently over the same grid and
// returns results in query order. Cancelling ctx stops further queries from
// starting; a search already running completes.
func (p *Pathfinder) FindPaths(ctx context.Context, queries []Query) ([]PathResult, error) {
	results := make([]PathResult, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, q := range queries {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.FindPath(q.Start, q.End, q.Options)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
