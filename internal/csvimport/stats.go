package csvimport

import (
	"time"

	"github.com/openbikesensor/obs-core/internal/geo"
	"github.com/openbikesensor/obs-core/internal/track"
)

// Stats is the per-file summary computed over every kept row, mirroring
// ImportMeasurementsCsv.compute_statistics.
type Stats struct {
	NMeasurements int
	NValid        int
	NConfirmed    int
	TMin, TMax    time.Time

	// ContinuousDistanceM and ContinuousDurationS sum the haversine
	// distance/time across every "continuous" sub-segment: consecutive
	// valid fixes that aren't separated by a break (see isBreak).
	ContinuousDistanceM float64
	ContinuousDurationS float64
	NSegments           int
}

// isBreak reports whether the gap between two consecutive valid fixes ends
// the current continuous sub-segment: a time gap over 60s, or an implied
// speed over 100 km/h (checked two ways depending on how small dt is, to
// avoid dividing by a near-zero interval).
func isBreak(dtSeconds, distM float64) bool {
	if dtSeconds > 60 {
		return true
	}
	if dtSeconds >= 0.5 && distM > dtSeconds*100.0/3.6 {
		return true
	}
	if dtSeconds < 0.5 && distM > 100.0/3.6 {
		return true
	}
	return false
}

func computeStatistics(samples []track.Sample) Stats {
	var st Stats

	var tPrev time.Time
	var latPrev, lonPrev float64
	havePrev := false

	var segStart, segEnd time.Time
	haveSeg := false

	closeSegment := func() {
		if haveSeg {
			st.ContinuousDurationS += segEnd.Sub(segStart).Seconds()
		}
		haveSeg = false
	}

	for _, s := range samples {
		valid := s.HasPosition && !s.Time.IsZero()
		st.NMeasurements++
		if valid {
			st.NValid++
			if s.Confirmed {
				st.NConfirmed++
			}
		}

		if !s.Time.IsZero() {
			if st.TMin.IsZero() || s.Time.Before(st.TMin) {
				st.TMin = s.Time
			}
			if st.TMax.IsZero() || s.Time.After(st.TMax) {
				st.TMax = s.Time
			}
		}

		if !valid {
			continue
		}

		if havePrev {
			dt := s.Time.Sub(tPrev).Seconds()
			dist := geo.Haversine(s.Lat, s.Lon, latPrev, lonPrev)

			if isBreak(dt, dist) {
				closeSegment()
				st.NSegments++
			} else {
				st.ContinuousDistanceM += dist
			}

			if !haveSeg || s.Time.Before(segStart) {
				segStart = s.Time
			}
			if !haveSeg || s.Time.After(segEnd) {
				segEnd = s.Time
			}
			haveSeg = true
		} else {
			segStart, segEnd = s.Time, s.Time
			haveSeg = true
		}

		tPrev, latPrev, lonPrev = s.Time, s.Lat, s.Lon
		havePrev = true
	}

	if !st.TMin.IsZero() {
		st.NSegments++
	}
	closeSegment()

	return st
}
