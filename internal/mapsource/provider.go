package mapsource

import (
	"context"

	"github.com/openbikesensor/obs-core/internal/way"
)

// Provider loads the ways contained in one slippy-map tile. Implementations
// must be safe for concurrent use: EnsureCoverage fans tile loads out
// across an errgroup.
type Provider interface {
	LoadTile(ctx context.Context, zoom, x, y int) ([]*way.Way, error)
}
