package mapsource

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MeKo-Christian/go-overpass"

	"github.com/openbikesensor/obs-core/internal/way"
)

// carHighwayRegex is the Overpass QL regex alternation of carHighways, built
// once at init time.
var carHighwayRegex = buildCarHighwayRegex()

func buildCarHighwayRegex() string {
	names := make([]string, 0, len(carHighways))
	for k := range carHighways {
		names = append(names, k)
	}
	return strings.Join(names, "|")
}

// OverpassProvider loads tiles live from an Overpass API endpoint, retrying
// failed requests up to 3 times with a backoff that starts at 3 seconds and
// doubles on each retry.
type OverpassProvider struct {
	client overpass.Client
}

// NewOverpassProvider builds a provider against the given endpoint with a
// fixed worker count and a 3-retry exponential backoff.
func NewOverpassProvider(endpoint string, workers int) *OverpassProvider {
	retry := overpass.RetryConfig{
		MaxRetries:        3,
		InitialBackoff:    3 * time.Second,
		MaxBackoff:        12 * time.Second,
		BackoffMultiplier: 2,
		Jitter:            false,
	}
	client := overpass.NewWithRetry(endpoint, workers, http.DefaultClient, retry)
	return &OverpassProvider{client: client}
}

func (p *OverpassProvider) LoadTile(ctx context.Context, zoom, x, y int) ([]*way.Way, error) {
	south, west, north, east := tileBound(zoom, x, y)
	query := fmt.Sprintf(
		`[out:json];(way(%.7f,%.7f,%.7f,%.7f)["highway"~"%s"];>;);out body;`,
		south, west, north, east, carHighwayRegex,
	)

	result, err := p.client.Query(query)
	if err != nil {
		return nil, fmt.Errorf("mapsource: overpass query for tile %d/%d/%d: %w", zoom, x, y, err)
	}

	ways := make([]*way.Way, 0, len(result.Ways))
	for _, w := range result.Ways {
		if w == nil || len(w.Geometry) < 2 {
			continue
		}
		if !IsCarHighway(w.Tags["highway"]) {
			continue
		}

		coords := make([][2]float64, len(w.Geometry))
		for i, pt := range w.Geometry {
			coords[i] = [2]float64{pt.Lat, pt.Lon}
		}

		ways = append(ways, way.New(w.ID, coords, way.TagsFromMap(w.Tags)))
	}

	return ways, nil
}
