package worker

import (
	"github.com/openbikesensor/obs-core/internal/geo"
	"github.com/openbikesensor/obs-core/internal/track"
)

const (
	roadUsageMaxGapMeters  = 50.0
	roadUsageMaxGapSeconds = 30.0
)

// roadUsageSegments groups a track's annotated, way-matched samples into
// contiguous per-way visits: a new segment starts whenever consecutive
// samples on the same way are more than 50m apart (snapped) or more than
// 30s apart in time. Samples without a matched way are ignored.
func roadUsageSegments(samples []track.Sample) []track.RoadUsageSegment {
	byWay := make(map[int64][]track.Sample)
	var order []int64
	for _, s := range samples {
		if !s.HasWayID {
			continue
		}
		if _, ok := byWay[s.WayID]; !ok {
			order = append(order, s.WayID)
		}
		byWay[s.WayID] = append(byWay[s.WayID], s)
	}

	var out []track.RoadUsageSegment
	for _, wayID := range order {
		rows := byWay[wayID]

		var cur []track.Sample

		flush := func() {
			if len(cur) == 0 {
				return
			}
			start, end := cur[0].Time, cur[len(cur)-1].Time
			mid := start.Add(end.Sub(start) / 2)
			out = append(out, track.RoadUsageSegment{
				HexHash:   roadUsageHexHash(wayID, mid),
				WayID:     wayID,
				Direction: directionOf(cur),
				StartTime: start,
				EndTime:   end,
				LengthM:   segmentLength(cur),
			})
			cur = nil
		}

		for i, s := range rows {
			if i > 0 {
				prev := rows[i-1]
				dt := s.Time.Sub(prev.Time).Seconds()
				dist := geo.Haversine(prev.Lat, prev.Lon, s.Lat, s.Lon)

				if dist > roadUsageMaxGapMeters || dt > roadUsageMaxGapSeconds {
					flush()
				}
			}
			cur = append(cur, s)
		}
		flush()
	}

	return out
}

func directionOf(rows []track.Sample) int8 {
	reversed := 0
	for _, s := range rows {
		if s.WayOrientation < 0 {
			reversed++
		}
	}
	if float64(reversed) > float64(len(rows))/2 {
		return 1
	}
	return 0
}

func segmentLength(rows []track.Sample) float64 {
	var total float64
	for i := 1; i < len(rows); i++ {
		total += geo.Haversine(rows[i-1].Lat, rows[i-1].Lon, rows[i].Lat, rows[i].Lon)
	}
	return total
}
