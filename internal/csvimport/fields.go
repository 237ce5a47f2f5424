package csvimport

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const v1DateTimeLayout = "02.01.2006 15:04:05"

// parseDateTime parses the "Date"/"Time" column pair into a UTC instant, the
// way ImportMeasurementsCsv's time extractor does: strptime with
// '%d.%m.%Y %H:%M:%S', tagged UTC.
func parseDateTime(date, clock string) (time.Time, bool) {
	t, err := time.ParseInLocation(v1DateTimeLayout, date+" "+clock, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseLatLon parses the Latitude/Longitude column pair, rejecting
// out-of-range values and the exact (0, 0) sentinel bug.
func parseLatLon(latRaw, lonRaw string) (lat, lon float64, ok bool) {
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(latRaw), 64)
	lon, err2 := strconv.ParseFloat(strings.TrimSpace(lonRaw), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return 0, 0, false
	}
	if math.Abs(lat) > 90.0 || math.Abs(lon) > 180.0 {
		return 0, 0, false
	}
	if lat == 0.0 && lon == 0.0 {
		return 0, 0, false
	}
	return lat, lon, true
}

// parseCourseDegrees converts a heading in degrees (clockwise from north,
// the device's native convention) into radians counter-clockwise from east.
func parseCourseDegrees(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	rad := math.Mod(math.Pi/180.0*(90.0-v), 2*math.Pi)
	if rad < 0 {
		rad += 2 * math.Pi
	}
	if !math.IsInf(rad, 0) && !math.IsNaN(rad) {
		return rad, true
	}
	return 0, false
}

// parseSpeedKMH converts a km/h reading to m/s.
func parseSpeedKMH(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	v /= 3.6
	if v < 0 {
		return 0, false
	}
	return v, true
}

// parseConfirmed reports whether the Confirmed column value is truthy.
func parseConfirmed(raw string) (bool, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return false, false
	}
	return v > 0, true
}

// parsePrivacyFlag reports whether the insidePrivacyArea/InsidePrivacyArea
// column is set.
func parsePrivacyFlag(raw string) (bool, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return false, false
	}
	return v == 1, true
}

// sentinelSet is the set of raw integer readings that mean "no echo" for a
// given format generation: v1 only recognizes 255, v2 recognizes 255 and
// 999 both.
type sentinelSet map[int]bool

var sentinelsV1 = sentinelSet{255: true}
var sentinelsV2 = sentinelSet{255: true, 999: true}

// parseDistanceCM converts a raw centimeter reading into meters, treating
// the format's sentinel values as "missing".
func parseDistanceCM(raw string, sentinels sentinelSet) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(raw); err == nil && sentinels[n] {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	v *= 1e-2
	if v < 0 {
		return 0, false
	}
	return v, true
}
