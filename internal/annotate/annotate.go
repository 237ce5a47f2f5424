// Package annotate implements C8: attaches a chosen way's tags to a sample
// and replaces its raw coordinates with the snapped projection.
package annotate

import (
	"strings"

	"github.com/openbikesensor/obs-core/internal/track"
	"github.com/openbikesensor/obs-core/internal/way"
	"github.com/openbikesensor/obs-core/internal/wayindex"
)

// Options controls which samples get annotated.
type Options struct {
	// FullyAnnotateUnconfirmed, when true, annotates every sample with a
	// chosen way regardless of its Confirmed flag.
	FullyAnnotateUnconfirmed bool
}

// Annotate updates s in place: backs up the raw position into
// LatitudeGPS/LongitudeGPS, and if the sample is selected (confirmed, or
// FullyAnnotateUnconfirmed) and has a chosen candidate, overwrites
// latitude/longitude with the snapped projection and copies way tags.
func Annotate(store *wayindex.Store, a *track.Annotated, opts Options) {
	s := &a.Sample
	s.LatitudeGPS = s.Lat
	s.LongitudeGPS = s.Lon

	c := a.ChosenCandidate()
	selected := opts.FullyAnnotateUnconfirmed || s.Confirmed

	if !selected || c == nil {
		s.HasOSMAnnotations = false
		return
	}

	s.Lat = c.Lat
	s.Lon = c.Lon
	s.HasWayID = true
	s.WayID = c.WayID
	s.WayOrientation = c.Orientation
	s.MatchingID = c.MatchingID
	s.HasOSMAnnotations = true

	w, ok := store.Get(c.WayID)
	if !ok {
		return
	}
	copyTags(s, w)
}

func copyTags(s *track.Sample, w *way.Way) {
	if zone := w.Tags.Find("zone:traffic"); zone != "" {
		s.ZoneTraffic = normalizeZone(zone)
	}
	if v := w.Tags.Find("maxspeed"); v != "" {
		s.MaxSpeed = v
	}
	if v := w.Name(); v != "" {
		s.Name = v
	}
	if v := w.Tags.Find("oneway"); v != "" {
		s.Oneway = v
	}
	if v := w.Tags.Find("lanes"); v != "" {
		s.Lanes = v
	}
	if v := w.Tags.Find("highway"); v != "" {
		s.Highway = v
	}
}

// normalizeZone strips a country prefix like "DE:" from a zone:traffic
// value, leaving urban/rural/motorway; unrecognized values pass through
// unchanged so downstream limit lookup falls back to its "unknown" default.
func normalizeZone(zone string) string {
	if _, rest, ok := strings.Cut(zone, ":"); ok {
		return rest
	}
	return zone
}
