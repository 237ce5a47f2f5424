package csvimport

import "time"

// leapSecondEpochs maps the UTC instant each leap second took effect to the
// cumulative GPS-UTC offset (seconds) valid from that point forward. GPS
// time has no leap seconds; it has been a flat 19 seconds behind TAI since
// its 1980 epoch, so converting a GPS-time to UTC means subtracting
// (19 + leap seconds since 1980 - 19) = the cumulative offset below.
var leapSecondEpochs = []struct {
	since  time.Time
	offset int
}{
	{time.Date(1980, 1, 6, 0, 0, 0, 0, time.UTC), 0},
	{time.Date(1981, 7, 1, 0, 0, 0, 0, time.UTC), 1},
	{time.Date(1982, 7, 1, 0, 0, 0, 0, time.UTC), 2},
	{time.Date(1983, 7, 1, 0, 0, 0, 0, time.UTC), 3},
	{time.Date(1985, 7, 1, 0, 0, 0, 0, time.UTC), 4},
	{time.Date(1988, 1, 1, 0, 0, 0, 0, time.UTC), 5},
	{time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), 6},
	{time.Date(1991, 1, 1, 0, 0, 0, 0, time.UTC), 7},
	{time.Date(1992, 7, 1, 0, 0, 0, 0, time.UTC), 8},
	{time.Date(1993, 7, 1, 0, 0, 0, 0, time.UTC), 9},
	{time.Date(1994, 7, 1, 0, 0, 0, 0, time.UTC), 10},
	{time.Date(1996, 1, 1, 0, 0, 0, 0, time.UTC), 11},
	{time.Date(1997, 7, 1, 0, 0, 0, 0, time.UTC), 12},
	{time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC), 13},
	{time.Date(2006, 1, 1, 0, 0, 0, 0, time.UTC), 14},
	{time.Date(2009, 1, 1, 0, 0, 0, 0, time.UTC), 15},
	{time.Date(2012, 7, 1, 0, 0, 0, 0, time.UTC), 16},
	{time.Date(2015, 7, 1, 0, 0, 0, 0, time.UTC), 17},
	{time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC), 18},
}

// gpsOffsetAt returns the GPS-UTC offset in effect at the given (GPS-frame)
// instant, i.e. how many seconds ahead of UTC the device's GPS-time column
// is at that date.
func gpsOffsetAt(t time.Time) int {
	offset := 0
	for _, e := range leapSecondEpochs {
		if !t.Before(e.since) {
			offset = e.offset
		}
	}
	return offset
}

// gpsToUTC converts a timestamp interpreted as GPS time into UTC by
// subtracting the leap-second offset accumulated since the GPS epoch.
func gpsToUTC(t time.Time) time.Time {
	return t.Add(-time.Duration(gpsOffsetAt(t)) * time.Second)
}
