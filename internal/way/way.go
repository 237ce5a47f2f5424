// Package way holds the Way data model: an OSM road polyline plus the tags
// and directionality needed to project a GPS sample onto it.
package way

import (
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"

	"github.com/openbikesensor/obs-core/internal/geo"
)

// Directionality describes which way(s) along a way's vertex order traffic
// may legally travel.
type Directionality int8

const (
	Bidirectional Directionality = 0
	ForwardOnly   Directionality = 1
	BackwardOnly  Directionality = -1
)

// Way is one routable OSM way: an ordered polyline in (lon, lat) order (the
// orb.LineString convention), its tags, and its precomputed bounding box.
type Way struct {
	ID        int64
	Vertices  orb.LineString // [lon, lat]
	Tags      osm.Tags
	Direction Directionality

	bound orb.Bound
}

// New builds a Way from an ordered list of (lat, lon) vertices. Panics if
// fewer than two vertices are given; a way with one point isn't a road.
func New(id int64, latLon [][2]float64, tags osm.Tags) *Way {
	if len(latLon) < 2 {
		panic("way: need at least two vertices")
	}

	verts := make(orb.LineString, len(latLon))
	bound := orb.Bound{Min: orb.Point{latLon[0][1], latLon[0][0]}, Max: orb.Point{latLon[0][1], latLon[0][0]}}
	for i, p := range latLon {
		pt := orb.Point{p[1], p[0]} // lon, lat
		verts[i] = pt
		bound = bound.Extend(pt)
	}

	return &Way{
		ID:        id,
		Vertices:  verts,
		Tags:      tags,
		Direction: directionalityFromTags(tags),
		bound:     bound,
	}
}

// TagsFromMap adapts the map[string]string shape returned by the Overpass
// client (and the SQLite map source) into osm.Tags.
func TagsFromMap(m map[string]string) osm.Tags {
	tags := make(osm.Tags, 0, len(m))
	for k, v := range m {
		tags = append(tags, osm.Tag{Key: k, Value: v})
	}
	return tags
}

// directionalityFromTags derives a way's legal travel direction(s) from its
// tags: an explicit oneway tag always wins; absent that, a roundabout
// junction or a motorway is implicitly forward-only.
func directionalityFromTags(tags osm.Tags) Directionality {
	switch tags.Find("oneway") {
	case "yes", "true", "1":
		return ForwardOnly
	case "-1", "reverse":
		return BackwardOnly
	case "no", "false", "0":
		return Bidirectional
	}

	if tags.Find("junction") == "roundabout" || tags.Find("highway") == "motorway" {
		return ForwardOnly
	}
	return Bidirectional
}

// Bound returns the way's precomputed bounding box, in (lon, lat) order.
func (w *Way) Bound() orb.Bound { return w.bound }

// NumSegments returns the number of line segments making up the way.
func (w *Way) NumSegments() int { return len(w.Vertices) - 1 }

// Name returns the way's name tag, for display and for the chain solver's
// matching-id grouping (see spec §4.8).
func (w *Way) Name() string { return w.Tags.Find("name") }

// MatchingID returns the identifier used to decide whether two consecutive
// candidates on this way belong to "the same road" for chain-smoothing
// purposes: the name if the way has one, else its numeric id.
func (w *Way) MatchingID() string {
	if name := w.Name(); name != "" {
		return name
	}
	return strconv.FormatInt(w.ID, 10)
}

// Projection is the result of projecting a point onto the closest point of
// one segment of a way.
type Projection struct {
	SegmentIndex int
	Ratio        float64 // 0..1 along the segment
	DistMeters   float64
	Lat, Lon     float64 // projected point
	HeadingDeg   float64 // forward heading of the segment, vertex order
	Orientation  int8    // left 0 by ClosestPoint; OrientationFor derives +1/-1 from a course
}

// ClosestPoint projects (lat, lon) onto the nearest point on the way and
// reports which segment it fell on, mirroring Way.distance_of_point: every
// segment is tried and the minimum distance wins, with ties resolved by the
// earliest segment index.
func (w *Way) ClosestPoint(proj geo.LocalProjector, lat, lon float64) Projection {
	best := Projection{DistMeters: -1}

	for i := 0; i < w.NumSegments(); i++ {
		a := w.Vertices[i]
		b := w.Vertices[i+1]

		dist, ratio, projLat, projLon := geo.PointToSegmentMeters(proj, lat, lon, a[1], a[0], b[1], b[0])
		if best.DistMeters < 0 || dist < best.DistMeters {
			best = Projection{
				SegmentIndex: i,
				Ratio:        ratio,
				DistMeters:   dist,
				Lat:          projLat,
				Lon:          projLon,
				HeadingDeg:   geo.HeadingDegrees(a[1], a[0], b[1], b[0]),
			}
		}
	}

	return best
}

// OrientationFor decides whether a sample moving with the given course is
// travelling in the way's forward vertex order (+1) or against it (-1),
// by comparing the course to the matched segment's heading.
func OrientationFor(segmentHeadingDeg, sampleCourseDeg float64) int8 {
	diff := angularDiff(segmentHeadingDeg, sampleCourseDeg)
	if diff <= 90 {
		return 1
	}
	return -1
}

func angularDiff(a, b float64) float64 {
	d := a - b
	for d > 180 {
		d -= 360
	}
	for d < -180 {
		d += 360
	}
	if d < 0 {
		d = -d
	}
	return d
}
