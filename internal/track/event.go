package track

import "time"

// OvertakingEvent is a confirmed sample with a distance-overtaker value,
// enriched with its matched way and a content hash used to de-duplicate
// idempotent re-processing of the same track.
type OvertakingEvent struct {
	HexHash           string
	WayID             int64
	HasWayID          bool
	DirectionReversed bool

	Lat, Lon float64 // snapped WGS84 position

	Time time.Time

	HasDistanceOvertaker bool
	DistanceOvertaker    float64

	HasDistanceStationary bool
	DistanceStationary    float64

	HasCourse bool
	Course    float64

	HasSpeed bool
	Speed    float64
}

// RoadUsageSegment is one contiguous stretch of a track matched to a single
// way, used for the supplemented "road usage" export (see
// original_source's get_road_usage_segments): a distinct concept from
// per-event rows, one row per (way, contiguous visit) rather than per
// sample.
type RoadUsageSegment struct {
	HexHash    string
	WayID      int64
	Direction  int8 // 0 forward, 1 backward
	StartTime  time.Time
	EndTime    time.Time
	LengthM    float64
}
