// Package emit builds the per-track output artifacts (GeoJSON
// FeatureCollections and a GPX track) C12 writes to the processing output
// directory.
package emit

import (
	"log"

	geojson "github.com/paulmach/go.geojson"

	"github.com/openbikesensor/obs-core/internal/filter"
	"github.com/openbikesensor/obs-core/internal/track"
)

// Points builds the measurements FeatureCollection: one Point feature per
// sample that survives RequiredFields and has either a distance reading or
// confirmed==true, carrying the full annotated attribute set as properties.
func Points(samples []track.Sample) *geojson.FeatureCollection {
	kept := filter.RequiredFields{}.Apply(samples, log.Default())

	fc := geojson.NewFeatureCollection()
	for _, s := range kept {
		if !s.HasDistanceOvertaker && !s.HasDistanceStationary && !s.Confirmed {
			continue
		}
		f := geojson.NewPointFeature([]float64{s.Lon, s.Lat})
		f.Properties = sampleProperties(s)
		fc.AddFeature(f)
	}
	return fc
}

// Events builds the overtaking-events FeatureCollection: one Point feature
// per confirmed overtaking event.
func Events(events []track.OvertakingEvent) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, ev := range events {
		f := geojson.NewPointFeature([]float64{ev.Lon, ev.Lat})
		f.Properties = map[string]interface{}{
			"hex_hash":           ev.HexHash,
			"way_id":             ev.WayID,
			"direction_reversed": ev.DirectionReversed,
			"time":               ev.Time.UTC().Format(timeLayout),
		}
		if ev.HasDistanceOvertaker {
			f.Properties["distance_overtaker"] = ev.DistanceOvertaker
		}
		if ev.HasDistanceStationary {
			f.Properties["distance_stationary"] = ev.DistanceStationary
		}
		if ev.HasCourse {
			f.Properties["course"] = ev.Course
		}
		if ev.HasSpeed {
			f.Properties["speed"] = ev.Speed
		}
		fc.AddFeature(f)
	}
	return fc
}

// TrackLine builds a single LineString feature of the snapped (possibly
// way-matched) coordinates, in recorded order.
func TrackLine(samples []track.Sample) *geojson.FeatureCollection {
	return lineOf(samples, false)
}

// RawTrackLine builds a single LineString feature of the raw GPS
// coordinates, in recorded order, ignoring any snapping C8 performed.
func RawTrackLine(samples []track.Sample) *geojson.FeatureCollection {
	return lineOf(samples, true)
}

func lineOf(samples []track.Sample, raw bool) *geojson.FeatureCollection {
	var coords [][]float64
	for _, s := range samples {
		if !s.HasPosition {
			continue
		}
		lat, lon := s.Lat, s.Lon
		if raw && s.HasOSMAnnotations {
			lat, lon = s.LatitudeGPS, s.LongitudeGPS
		}
		coords = append(coords, []float64{lon, lat})
	}

	fc := geojson.NewFeatureCollection()
	if len(coords) < 2 {
		return fc
	}
	fc.AddFeature(geojson.NewLineStringFeature(coords))
	return fc
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

func sampleProperties(s track.Sample) map[string]interface{} {
	props := map[string]interface{}{
		"time":      s.Time.UTC().Format(timeLayout),
		"confirmed": s.Confirmed,
	}
	if s.HasDistanceOvertaker {
		props["distance_overtaker"] = s.DistanceOvertaker
	}
	if s.HasDistanceStationary {
		props["distance_stationary"] = s.DistanceStationary
	}
	if s.HasCourse {
		props["course"] = s.Course
	}
	if s.HasSpeed {
		props["speed"] = s.Speed
	}
	if s.HasWayID {
		props["way_id"] = s.WayID
		props["way_orientation"] = s.WayOrientation
	}
	if s.HasOSMAnnotations {
		props["zone_traffic"] = s.ZoneTraffic
		props["max_speed"] = s.MaxSpeed
		props["name"] = s.Name
		props["oneway"] = s.Oneway
		props["lanes"] = s.Lanes
		props["highway"] = s.Highway
	}
	if s.UserID != "" {
		props["user_id"] = s.UserID
	}
	if s.MeasurementID != "" {
		props["measurement_id"] = s.MeasurementID
	}
	return props
}
