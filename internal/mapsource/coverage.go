package mapsource

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/openbikesensor/obs-core/internal/wayindex"
)

// DefaultZoom is the slippy-map zoom level tiles are fetched at: coarse
// enough that a typical track needs only a handful of tiles, fine enough
// that a tile's Overpass query stays well under the API's result-size
// limits.
const DefaultZoom = 14

// TileLoader ensures a Store has every way needed to match a track, loading
// each tile from a Provider at most once regardless of how many tracks ask
// for overlapping coverage.
type TileLoader struct {
	provider Provider
	store    *wayindex.Store
	zoom     int

	mu     sync.Mutex
	loaded map[tile]bool
}

func NewTileLoader(provider Provider, store *wayindex.Store) *TileLoader {
	return &TileLoader{
		provider: provider,
		store:    store,
		zoom:     DefaultZoom,
		loaded:   make(map[tile]bool),
	}
}

// EnsureCoverage guarantees every tile touching the given points has been
// loaded into the store, fetching missing tiles concurrently.
func (l *TileLoader) EnsureCoverage(ctx context.Context, lats, lons []float64) error {
	tiles := requiredTiles(l.zoom, lats, lons)

	l.mu.Lock()
	var missing []tile
	for _, t := range tiles {
		if !l.loaded[t] {
			missing = append(missing, t)
			l.loaded[t] = true // claim it now so concurrent calls don't double-fetch
		}
	}
	l.mu.Unlock()

	if len(missing) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range missing {
		t := t
		g.Go(func() error {
			ways, err := l.provider.LoadTile(gctx, t.Zoom, t.X, t.Y)
			if err != nil {
				l.mu.Lock()
				delete(l.loaded, t) // let a later call retry a failed tile
				l.mu.Unlock()
				return err
			}
			for _, w := range ways {
				l.store.Insert(w)
			}
			return nil
		})
	}

	return g.Wait()
}
