package mapsource

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/paulmach/osm"

	"github.com/openbikesensor/obs-core/internal/way"
	"github.com/openbikesensor/obs-core/internal/wayindex"
)

type countingProvider struct {
	calls int64
}

func (p *countingProvider) LoadTile(ctx context.Context, zoom, x, y int) ([]*way.Way, error) {
	atomic.AddInt64(&p.calls, 1)
	id := int64(zoom)*1_000_000 + int64(x)*1_000 + int64(y)
	return []*way.Way{
		way.New(id, [][2]float64{{1.35, 103.82}, {1.36, 103.82}}, osm.Tags{}),
	}, nil
}

func TestEnsureCoverageLoadsEachTileOnce(t *testing.T) {
	provider := &countingProvider{}
	store := wayindex.New()
	loader := NewTileLoader(provider, store)

	lats := []float64{1.3521, 1.3522}
	lons := []float64{103.8198, 103.8199}

	if err := loader.EnsureCoverage(context.Background(), lats, lons); err != nil {
		t.Fatalf("EnsureCoverage: %v", err)
	}
	if err := loader.EnsureCoverage(context.Background(), lats, lons); err != nil {
		t.Fatalf("second EnsureCoverage: %v", err)
	}

	if provider.calls != 1 {
		t.Errorf("provider.calls = %d, want 1 (tile should only load once)", provider.calls)
	}
	if store.Len() != 1 {
		t.Errorf("store.Len() = %d, want 1", store.Len())
	}
}
