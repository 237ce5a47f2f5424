// Package aggregate implements C10: per (way, direction) overtaker-distance
// statistics, streamed from confirmed, annotated samples.
package aggregate

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/openbikesensor/obs-core/internal/geo"
	"github.com/openbikesensor/obs-core/internal/track"
	"github.com/openbikesensor/obs-core/internal/way"
	"github.com/openbikesensor/obs-core/internal/wayindex"
)

type bucketKey struct {
	wayID     int64
	direction int8 // 0 forward, 1 backward
}

// Aggregator streams samples into per (way, direction) buckets and produces
// RoadStats for each on Finalize.
type Aggregator struct {
	distances map[bucketKey][]float64
	zone      map[bucketKey]string
	order     []bucketKey
}

func New() *Aggregator {
	return &Aggregator{
		distances: make(map[bucketKey][]float64),
		zone:      make(map[bucketKey]string),
	}
}

// Add feeds one confirmed, annotated sample into its (way, direction)
// bucket. Samples without a matched way or an overtaker distance are
// ignored, since the per-road aggregator only summarizes overtaker passes.
func (a *Aggregator) Add(s track.Sample) {
	if !s.HasWayID || !s.HasDistanceOvertaker {
		return
	}

	dir := int8(0)
	if s.WayOrientation < 0 {
		dir = 1
	}
	key := bucketKey{wayID: s.WayID, direction: dir}

	if _, ok := a.distances[key]; !ok {
		a.order = append(a.order, key)
		a.zone[key] = s.ZoneTraffic
	}
	a.distances[key] = append(a.distances[key], s.DistanceOvertaker)
}

// Finalize computes RoadStats for every populated bucket, in the order
// buckets were first seen. store is used to look up each way's vertices
// for the bearing.
func (a *Aggregator) Finalize(store *wayindex.Store) []track.RoadStats {
	out := make([]track.RoadStats, 0, len(a.order))

	for _, key := range a.order {
		raw := a.distances[key]
		sorted := append([]float64(nil), raw...)
		sort.Float64s(sorted)

		limit := track.LimitForZone(a.zone[key])

		mid := len(sorted) / 2
		median := sorted[mid]
		if len(sorted)%2 == 0 {
			median = (sorted[mid-1] + sorted[mid]) / 2
		}

		rs := track.RoadStats{
			WayID:     key.wayID,
			Direction: key.direction,
			Count:     len(sorted),
			Mean:      stat.Mean(sorted, nil),
			Median:    median,
			Min:       sorted[0],
			Samples:   raw,
			Histogram: make([]int, len(track.HistogramBinEdges)+1),
		}

		for _, d := range sorted {
			if d < limit {
				rs.BelowLimitCount++
			} else {
				rs.AtOrAboveLimitCount++
			}
			rs.Histogram[histogramBin(d)]++
		}

		if w, ok := store.Get(key.wayID); ok {
			rs.BearingDeg = bearingFor(w, key.direction)
		}

		out = append(out, rs)
	}

	return out
}

func histogramBin(d float64) int {
	for i, edge := range track.HistogramBinEdges {
		if d < edge {
			return i
		}
	}
	return len(track.HistogramBinEdges)
}

func bearingFor(w *way.Way, direction int8) float64 {
	n := len(w.Vertices)
	first := w.Vertices[0]
	last := w.Vertices[n-1]
	// Vertices are in (lon, lat) order.
	bearing := geo.HeadingDegrees(first[1], first[0], last[1], last[0])
	if direction == 1 {
		bearing += 180
		if bearing >= 360 {
			bearing -= 360
		}
	}
	return bearing
}
