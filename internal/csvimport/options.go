// Package csvimport parses OBS measurement CSV files (formats 1.0 through
// 2.x) into track.Sample rows, and computes the per-file statistics the
// worker pool stores alongside a track record.
package csvimport

import "time"

// RejectBefore is the cutoff below which a row's timestamp is considered
// an uninitialized device clock and the row is dropped.
var RejectBefore = time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)

// Options configures how ambiguous columns are interpreted. The defaults
// match a right-hand-traffic device with no sensor swap, i.e. "Left"/"Case"
// is the overtaker-side sensor.
type Options struct {
	RightHandTraffic bool
	LeftRightSwapped bool
	CaseIsLeft       bool
	CorrectGPSTime   bool // metadata declares TimeZone=GPS
}

// DefaultOptions returns the common right-hand-traffic configuration.
func DefaultOptions() Options {
	return Options{
		RightHandTraffic: true,
		LeftRightSwapped: false,
		CaseIsLeft:       true,
	}
}

// leftIsOvertakerSide mirrors ImportMeasurementsCsv.left_is_overtaker_side:
// left_right_is_swapped != right_hand_traffic.
func (o Options) leftIsOvertakerSide() bool {
	return o.LeftRightSwapped != o.RightHandTraffic
}

// caseIsOvertakerSide mirrors ImportMeasurementsCsv.case_is_overtaker_side:
// case_is_left == right_hand_traffic.
func (o Options) caseIsOvertakerSide() bool {
	return o.CaseIsLeft == o.RightHandTraffic
}
