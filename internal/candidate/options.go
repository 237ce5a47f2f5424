// Package candidate implements C6: given a Sample with position and course,
// finds nearby ways it could be travelling on.
package candidate

// Options configures the candidate search. The zero value is not usable;
// start from DefaultOptions.
type Options struct {
	// DMaxMeters is both the spatial-index query half-width and the lateral
	// distance cutoff for a candidate.
	DMaxMeters float64

	// DPhiMaxDeg is the maximum angular distance, in degrees, between a
	// sample's course and a matched segment's heading.
	DPhiMaxDeg float64

	// MaxCandidates caps how many candidates are returned per sample.
	MaxCandidates int
}

func DefaultOptions() Options {
	return Options{
		DMaxMeters:    40.0,
		DPhiMaxDeg:    90.0,
		MaxCandidates: 3,
	}
}
