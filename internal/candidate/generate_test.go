package candidate

import (
	"math"
	"testing"

	"github.com/paulmach/osm"

	"github.com/openbikesensor/obs-core/internal/track"
	"github.com/openbikesensor/obs-core/internal/way"
	"github.com/openbikesensor/obs-core/internal/wayindex"
)

func newStoreWith(ways ...*way.Way) *wayindex.Store {
	s := wayindex.New()
	for _, w := range ways {
		s.Insert(w)
	}
	return s
}

func TestGenerateSingleBidirectionalWayMatch(t *testing.T) {
	w := way.New(1, [][2]float64{{48.7700, 9.1800}, {48.7705, 9.1810}}, way.TagsFromMap(map[string]string{"highway": "residential"}))
	store := newStoreWith(w)

	s := track.Sample{
		Lat: 48.77025, Lon: 9.18050, HasPosition: true,
		Course: math.Atan2(1, 1), HasCourse: true,
	}

	cands := Generate(store, s, DefaultOptions())
	if len(cands) != 1 {
		t.Fatalf("got %d candidates, want 1", len(cands))
	}

	c := cands[0]
	if c.WayID != 1 {
		t.Errorf("WayID = %d, want 1", c.WayID)
	}
	if c.Orientation != 1 {
		t.Errorf("Orientation = %d, want +1", c.Orientation)
	}
	if c.LateralDistM >= 5 {
		t.Errorf("LateralDistM = %v, want < 5", c.LateralDistM)
	}
	if deg := c.AngularDistRad * 180 / math.Pi; deg >= 30 {
		t.Errorf("angular distance = %v deg, want < 30", deg)
	}
}

func TestGenerateEmptyWithoutPositionOrCourse(t *testing.T) {
	w := way.New(1, [][2]float64{{48.7700, 9.1800}, {48.7705, 9.1810}}, osm.Tags{})
	store := newStoreWith(w)

	noPos := track.Sample{HasCourse: true}
	if cands := Generate(store, noPos, DefaultOptions()); cands != nil {
		t.Errorf("expected nil candidates without position, got %v", cands)
	}

	noCourse := track.Sample{Lat: 48.77, Lon: 9.18, HasPosition: true}
	if cands := Generate(store, noCourse, DefaultOptions()); cands != nil {
		t.Errorf("expected nil candidates without course, got %v", cands)
	}
}

func TestGenerateDiscardsFarCandidates(t *testing.T) {
	w := way.New(1, [][2]float64{{48.7700, 9.1800}, {48.7705, 9.1810}}, osm.Tags{})
	store := newStoreWith(w)

	s := track.Sample{
		Lat: 48.80, Lon: 9.30, HasPosition: true, // far away
		Course: 0, HasCourse: true,
	}

	if cands := Generate(store, s, DefaultOptions()); len(cands) != 0 {
		t.Errorf("got %d candidates, want 0 (out of range)", len(cands))
	}
}

func TestGenerateDirectionalWayOrientation(t *testing.T) {
	// Heading due north (0 deg); oneway=yes means only forward (+1) allowed.
	w := way.New(1, [][2]float64{{48.7700, 9.1800}, {48.7710, 9.1800}}, way.TagsFromMap(map[string]string{"oneway": "yes"}))
	store := newStoreWith(w)

	// Course pointing due north: atan2(north, east) with north-only component.
	s := track.Sample{Lat: 48.7705, Lon: 9.18001, HasPosition: true, Course: math.Pi / 2, HasCourse: true}

	cands := Generate(store, s, DefaultOptions())
	if len(cands) != 1 {
		t.Fatalf("got %d candidates, want 1", len(cands))
	}
	if cands[0].Orientation != 1 {
		t.Errorf("Orientation = %d, want +1 for forward travel on a oneway=yes way", cands[0].Orientation)
	}
}

func TestGenerateCapsAtMaxCandidates(t *testing.T) {
	ways := make([]*way.Way, 0, 5)
	for i := int64(1); i <= 5; i++ {
		offset := float64(i) * 0.00002
		ways = append(ways, way.New(i, [][2]float64{
			{48.7700 + offset, 9.1800},
			{48.7705 + offset, 9.1810},
		}, osm.Tags{}))
	}
	store := newStoreWith(ways...)

	s := track.Sample{Lat: 48.77025, Lon: 9.18050, HasPosition: true, Course: math.Atan2(1, 1), HasCourse: true}
	opts := DefaultOptions()
	cands := Generate(store, s, opts)
	if len(cands) > opts.MaxCandidates {
		t.Fatalf("got %d candidates, want <= %d", len(cands), opts.MaxCandidates)
	}
	for i := 1; i < len(cands); i++ {
		if cands[i-1].LateralDistM > cands[i].LateralDistM {
			t.Errorf("candidates not sorted by lateral distance ascending: %v", cands)
		}
	}
}
