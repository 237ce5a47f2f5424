package csvimport

import (
	"fmt"

	"github.com/openbikesensor/obs-core/internal/track"
)

// rowParserV1 handles format versions 1.0 through 1.3.
type rowParserV1 struct {
	hdr       headerIndex
	format    string
	hasCourse bool

	overtakerCol   string
	stationaryCol  string
	hasPrivacyFlag bool

	opts Options
}

func newRowParserV1(hdr headerIndex, format string, opts Options) (*rowParserV1, error) {
	required := []string{"Date", "Time", "Latitude", "Longitude", "Confirmed"}
	if format != "1.0" {
		required = append(required, "Course", "Speed")
	}

	p := &rowParserV1{hdr: hdr, format: format, hasCourse: format != "1.0", opts: opts}

	switch format {
	case "1.0", "1.1":
		if opts.caseIsOvertakerSide() {
			p.overtakerCol, p.stationaryCol = "Case", "Lid"
		} else {
			p.overtakerCol, p.stationaryCol = "Lid", "Case"
		}
		required = append(required, "Case", "Lid")
	case "1.2", "1.3":
		if opts.leftIsOvertakerSide() {
			p.overtakerCol, p.stationaryCol = "Left", "Right"
		} else {
			p.overtakerCol, p.stationaryCol = "Right", "Left"
		}
		required = append(required, "Left", "Right")
	}

	if format == "1.3" {
		required = append(required, "insidePrivacyArea")
		p.hasPrivacyFlag = true
	}

	if !hdr.hasAll(required...) {
		return nil, &ErrInvalidFormat{Reason: fmt.Sprintf("format %s header missing one of %v", format, required)}
	}

	return p, nil
}

// Parse converts one CSV row into a Sample. keep is false when the row must
// be dropped outright (bad/old timestamp, bad position, or in a privacy
// zone); a false return for a single optional field just leaves that field
// unset on the Sample.
func (p *rowParserV1) Parse(row []string, userID, measurementID string) (track.Sample, bool) {
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

	if p.hasPrivacyFlag {
		if v, ok := parsePrivacyFlag(p.hdr.field(row, "insidePrivacyArea")); ok && v {
			s.InPrivacyZone = true
			return s, false
		}
	}

	if v, ok := parseConfirmed(p.hdr.field(row, "Confirmed")); ok {
		s.Confirmed = v
	}

	if p.hasCourse {
		if v, ok := parseCourseDegrees(p.hdr.field(row, "Course")); ok {
			s.Course, s.HasCourse = v, true
		}
		if v, ok := parseSpeedKMH(p.hdr.field(row, "Speed")); ok {
			s.Speed, s.HasSpeed = v, true
		}
	}

	if v, ok := parseDistanceCM(p.hdr.field(row, p.overtakerCol), sentinelsV1); ok {
		s.DistanceOvertaker, s.HasDistanceOvertaker = v, true
	}
	if v, ok := parseDistanceCM(p.hdr.field(row, p.stationaryCol), sentinelsV1); ok {
		s.DistanceStationary, s.HasDistanceStationary = v, true
	}

	return s, true
}
