package filter

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"math/rand"

	"github.com/samber/lo"

	"github.com/openbikesensor/obs-core/internal/geo"
	"github.com/openbikesensor/obs-core/internal/track"
)

// PrivacyZone is a circular exclusion zone: any sample within RadiusM of
// (Lat, Lon) is dropped.
type PrivacyZone struct {
	Lat, Lon float64
	RadiusM  float64

	// JitterPct, if non-zero, moves the zone center by a deterministic
	// pseudo-random bearing and distance (0..RadiusM*JitterPct/100) before
	// filtering, seeded from (Lat, Lon, Secret) so repeated runs with the
	// same secret produce the same effective center.
	JitterPct float64
	Secret    string
}

// Resolve applies the zone's jitter, if any, returning the effective center
// to filter against.
func (z PrivacyZone) Resolve() (lat, lon float64) {
	if z.JitterPct == 0 {
		return z.Lat, z.Lon
	}

	r := rand.New(rand.NewSource(jitterSeed(z.Lat, z.Lon, z.Secret)))
	bearing := r.Float64() * 360.0
	dist := r.Float64() * z.RadiusM * z.JitterPct / 100.0
	return moveLatLon(z.Lat, z.Lon, bearing, dist)
}

func jitterSeed(lat, lon float64, secret string) int64 {
	h := sha256.New()
	fmt.Fprintf(h, "%.8f,%.8f,%s", lat, lon, secret)
	sum := h.Sum(nil)
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

// moveLatLon returns the destination point reached by travelling distM
// meters from (lat, lon) along bearingDeg (clockwise from north).
func moveLatLon(lat, lon, bearingDeg, distM float64) (float64, float64) {
	const earthRadiusMeters = 6_371_000.0

	lat1 := lat * math.Pi / 180
	lon1 := lon * math.Pi / 180
	bearing := bearingDeg * math.Pi / 180
	d := distM / earthRadiusMeters

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(d) + math.Cos(lat1)*math.Sin(d)*math.Cos(bearing))
	lon2 := lon1 + math.Atan2(
		math.Sin(bearing)*math.Sin(d)*math.Cos(lat1),
		math.Cos(d)-math.Sin(lat1)*math.Sin(lat2),
	)

	return lat2 * 180 / math.Pi, lon2 * 180 / math.Pi
}

// PrivacyZones drops any sample within radius of any zone's (possibly
// jittered) center.
type PrivacyZones struct {
	Zones []PrivacyZone
}

func (f PrivacyZones) Apply(samples []track.Sample, logger *log.Logger) []track.Sample {
	centers := make([][2]float64, len(f.Zones))
	for i, z := range f.Zones {
		lat, lon := z.Resolve()
		centers[i] = [2]float64{lat, lon}
	}

	kept := lo.Filter(samples, func(s track.Sample, _ int) bool {
		if !s.HasPosition {
			return true
		}
		for i, z := range f.Zones {
			if geo.Haversine(s.Lat, s.Lon, centers[i][0], centers[i][1]) <= z.RadiusM {
				return false
			}
		}
		return true
	})
	logRemoved(logger, "privacy_zones", len(samples), len(kept))
	return kept
}
