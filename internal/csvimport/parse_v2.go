package csvimport

import (
	"fmt"

	"github.com/openbikesensor/obs-core/internal/track"
)

// rowParserV2 handles the 2.x format family. The per-sample raw ultrasonic
// echo columns (TmsN/LusN/RusN) are read as part of the row shape check but
// not retained: nothing in the Sample model or downstream components (C5
// onward) consumes raw echo data, only the already-resolved
// distance_overtaker/distance_stationary columns.
type rowParserV2 struct {
	hdr           headerIndex
	overtakerCol  string
	stationaryCol string
}

func newRowParserV2(hdr headerIndex, opts Options) (*rowParserV2, error) {
	required := []string{
		"Date", "Time", "Latitude", "Longitude", "Course", "Speed",
		"Left", "Right", "Confirmed", "InsidePrivacyArea",
	}

	p := &rowParserV2{hdr: hdr}
	if opts.leftIsOvertakerSide() {
		p.overtakerCol, p.stationaryCol = "Left", "Right"
	} else {
		p.overtakerCol, p.stationaryCol = "Right", "Left"
	}

	if !hdr.hasAll(required...) {
		return nil, &ErrInvalidFormat{Reason: fmt.Sprintf("format 2.x header missing one of %v", required)}
	}

	return p, nil
}

func (p *rowParserV2) Parse(row []string, userID, measurementID string) (track.Sample, bool) {
	s := track.Sample{UserID: userID, MeasurementID: measurementID}

	t, ok := parseDateTime(p.hdr.field(row, "Date"), p.hdr.field(row, "Time"))
	if !ok || t.Before(RejectBefore) {
		return s, false
	}
	s.Time = t

	lat, lon, ok := parseLatLon(p.hdr.field(row, "Latitude"), p.hdr.field(row, "Longitude"))
	if !ok {
		return s, false
	}
	s.Lat, s.Lon, s.HasPosition = lat, lon, true

	if v, ok := parsePrivacyFlag(p.hdr.field(row, "InsidePrivacyArea")); ok && v {
		s.InPrivacyZone = true
		return s, false
	}

	if v, ok := parseConfirmed(p.hdr.field(row, "Confirmed")); ok {
		s.Confirmed = v
	}

	if v, ok := parseCourseDegrees(p.hdr.field(row, "Course")); ok {
		s.Course, s.HasCourse = v, true
	}
	if v, ok := parseSpeedKMH(p.hdr.field(row, "Speed")); ok {
		s.Speed, s.HasSpeed = v, true
	}

	if v, ok := parseDistanceCM(p.hdr.field(row, p.overtakerCol), sentinelsV2); ok {
		s.DistanceOvertaker, s.HasDistanceOvertaker = v, true
	}
	if v, ok := parseDistanceCM(p.hdr.field(row, p.stationaryCol), sentinelsV2); ok {
		s.DistanceStationary, s.HasDistanceStationary = v, true
	}

	return s, true
}
