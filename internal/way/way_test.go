package way

import (
	"testing"

	"github.com/paulmach/osm"

	"github.com/openbikesensor/obs-core/internal/geo"
)

func straightWay(id int64, tags osm.Tags) *Way {
	return New(id, [][2]float64{
		{1.3500, 103.8200},
		{1.3600, 103.8200},
	}, tags)
}

func TestDirectionalityFromTags(t *testing.T) {
	tests := []struct {
		name string
		tags osm.Tags
		want Directionality
	}{
		{"no tag", osm.Tags{}, Bidirectional},
		{"oneway yes", osm.Tags{{Key: "oneway", Value: "yes"}}, ForwardOnly},
		{"oneway -1", osm.Tags{{Key: "oneway", Value: "-1"}}, BackwardOnly},
		{"oneway no", osm.Tags{{Key: "oneway", Value: "no"}}, Bidirectional},
		{"roundabout", osm.Tags{{Key: "junction", Value: "roundabout"}}, ForwardOnly},
		{"motorway", osm.Tags{{Key: "highway", Value: "motorway"}}, ForwardOnly},
		{"motorway with explicit oneway no", osm.Tags{{Key: "highway", Value: "motorway"}, {Key: "oneway", Value: "no"}}, Bidirectional},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := straightWay(1, tt.tags)
			if w.Direction != tt.want {
				t.Errorf("Direction = %v, want %v", w.Direction, tt.want)
			}
		})
	}
}

func TestMatchingID(t *testing.T) {
	named := straightWay(42, osm.Tags{{Key: "name", Value: "Bras Basah Road"}})
	if got := named.MatchingID(); got != "Bras Basah Road" {
		t.Errorf("MatchingID = %q, want %q", got, "Bras Basah Road")
	}

	unnamed := straightWay(42, osm.Tags{})
	if got := unnamed.MatchingID(); got != "42" {
		t.Errorf("MatchingID = %q, want %q", got, "42")
	}
}

func TestClosestPoint(t *testing.T) {
	w := straightWay(1, osm.Tags{})
	proj := geo.NewEquirectangularFast(1.3550, 103.8200)

	p := w.ClosestPoint(proj, 1.3550, 103.8210)

	if p.SegmentIndex != 0 {
		t.Errorf("SegmentIndex = %d, want 0", p.SegmentIndex)
	}
	if p.Ratio < 0.45 || p.Ratio > 0.55 {
		t.Errorf("Ratio = %f, want ~0.5", p.Ratio)
	}
	if p.DistMeters <= 0 || p.DistMeters > 200 {
		t.Errorf("DistMeters = %f, want in (0, 200]", p.DistMeters)
	}
	// heading is due north for this segment.
	if p.HeadingDeg > 1 && p.HeadingDeg < 359 {
		t.Errorf("HeadingDeg = %f, want ~0", p.HeadingDeg)
	}
}

func TestOrientationFor(t *testing.T) {
	if got := OrientationFor(0, 10); got != 1 {
		t.Errorf("OrientationFor(0, 10) = %d, want 1", got)
	}
	if got := OrientationFor(0, 170); got != -1 {
		t.Errorf("OrientationFor(0, 170) = %d, want -1", got)
	}
}
