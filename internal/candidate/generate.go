package candidate

import (
	"math"
	"sort"

	"github.com/openbikesensor/obs-core/internal/geo"
	"github.com/openbikesensor/obs-core/internal/track"
	"github.com/openbikesensor/obs-core/internal/way"
	"github.com/openbikesensor/obs-core/internal/wayindex"
)

// Generate returns up to opts.MaxCandidates ways the sample could be
// travelling on, sorted by lateral distance ascending. A sample lacking
// position or course yields an empty list, per spec.
func Generate(store *wayindex.Store, s track.Sample, opts Options) []track.Candidate {
	if !s.HasPosition || !s.HasCourse {
		return nil
	}

	proj := geo.NewEquirectangularFast(s.Lat, s.Lon)
	sLat, sLon := proj.ScaleAt(s.Lat, s.Lon)
	dLat := sLat * opts.DMaxMeters
	dLon := sLon * opts.DMaxMeters

	nearby := store.QueryNear(s.Lat, s.Lon, dLat, dLon)
	if len(nearby) == 0 {
		return nil
	}

	sampleHeadingDeg := courseToHeadingDeg(s.Course)

	out := make([]track.Candidate, 0, len(nearby))
	for _, w := range nearby {
		p := w.ClosestPoint(proj, s.Lat, s.Lon)
		if p.DistMeters > opts.DMaxMeters {
			continue
		}

		angDeg, orientation, ok := angularMatch(w, p.HeadingDeg, sampleHeadingDeg, opts.DPhiMaxDeg)
		if !ok {
			continue
		}

		out = append(out, track.Candidate{
			WayID:          w.ID,
			MatchingID:     w.MatchingID(),
			Lat:            p.Lat,
			Lon:            p.Lon,
			LateralDistM:   p.DistMeters,
			AngularDistRad: angDeg * math.Pi / 180,
			Orientation:    orientation,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].LateralDistM < out[j].LateralDistM })
	if len(out) > opts.MaxCandidates {
		out = out[:opts.MaxCandidates]
	}
	return out
}

// courseToHeadingDeg converts a course in radians CCW from east (the Sample
// convention) to a heading in degrees clockwise from north (the Way
// convention), matching the inverse of the CSV importer's course formula.
func courseToHeadingDeg(courseRad float64) float64 {
	courseDeg := courseRad * 180 / math.Pi
	return math.Mod(90-courseDeg+360, 360)
}

// angularMatch compares the sample heading against the segment's forward
// heading and, for bidirectional ways, its reverse heading too, returning
// the smaller angular distance and which orientation produced it. ok is
// false if the best angular distance exceeds dPhiMaxDeg.
func angularMatch(w *way.Way, segHeadingDeg, sampleHeadingDeg, dPhiMaxDeg float64) (deg float64, orientation int8, ok bool) {
	forwardDiff := wrappedDiffDeg(segHeadingDeg, sampleHeadingDeg)
	reverseDiff := wrappedDiffDeg(math.Mod(segHeadingDeg+180, 360), sampleHeadingDeg)

	switch w.Direction {
	case way.ForwardOnly:
		deg, orientation = forwardDiff, 1
	case way.BackwardOnly:
		deg, orientation = reverseDiff, -1
	default:
		if forwardDiff <= reverseDiff {
			deg, orientation = forwardDiff, 1
		} else {
			deg, orientation = reverseDiff, -1
		}
	}

	return deg, orientation, deg <= dPhiMaxDeg
}

// wrappedDiffDeg returns the absolute angular distance between two bearings
// in degrees, wrapped to [0, 180].
func wrappedDiffDeg(a, b float64) float64 {
	d := math.Mod(a-b, 360)
	if d < 0 {
		d += 360
	}
	if d > 180 {
		d = 360 - d
	}
	return d
}
