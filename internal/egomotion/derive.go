// Package egomotion fills in a sample's missing course/speed from its
// immediate neighbors when they were recorded exactly one second apart.
package egomotion

import (
	"math"
	"time"

	"github.com/openbikesensor/obs-core/internal/geo"
	"github.com/openbikesensor/obs-core/internal/track"
)

// Derive fills course and/or speed for any sample in samples that's missing
// one of them, using a 3-point finite difference over its immediate
// neighbors, in place. A sample is only touched when both neighbors have a
// valid position and sit exactly one second to either side of it.
func Derive(samples []track.Sample) {
	for i := 1; i < len(samples)-1; i++ {
		cur := &samples[i]
		if cur.HasCourse && cur.HasSpeed {
			continue
		}

		prev := samples[i-1]
		next := samples[i+1]

		if !prev.HasPosition || !cur.HasPosition || !next.HasPosition {
			continue
		}
		if cur.Time.Sub(prev.Time) != time.Second || next.Time.Sub(cur.Time) != time.Second {
			continue
		}

		proj := geo.NewEquirectangularFast(cur.Lat, cur.Lon)
		x0, y0 := proj.ToLocal(prev.Lat, prev.Lon)
		x2, y2 := proj.ToLocal(next.Lat, next.Lon)

		vx := 0.5 * (x2 - x0)
		vy := 0.5 * (y2 - y0)

		if !cur.HasCourse {
			course := math.Atan2(vy, vx)
			cur.Course = math.Mod(course+2*math.Pi, 2*math.Pi)
			cur.HasCourse = true
		}
		if !cur.HasSpeed {
			cur.Speed = math.Hypot(vx, vy)
			cur.HasSpeed = true
		}
		cur.EgomotionDerived = true
	}
}
