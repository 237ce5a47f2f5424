package chain

import (
	"testing"
	"time"

	"github.com/openbikesensor/obs-core/internal/track"
)

func TestSplitByUserID(t *testing.T) {
	base := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	samples := []track.Sample{
		{UserID: "a", Time: base, Lat: 48.77, Lon: 9.18, HasPosition: true},
		{UserID: "a", Time: base.Add(time.Second), Lat: 48.7701, Lon: 9.1801, HasPosition: true},
		{UserID: "b", Time: base.Add(2 * time.Second), Lat: 48.7702, Lon: 9.1802, HasPosition: true},
	}

	chains := Split(samples)
	if len(chains) != 2 {
		t.Fatalf("got %d chains, want 2", len(chains))
	}
	if chains[0].UserID != "a" || len(chains[0].Indices) != 2 {
		t.Errorf("chain[0] = %+v", chains[0])
	}
	if chains[1].UserID != "b" || len(chains[1].Indices) != 1 {
		t.Errorf("chain[1] = %+v", chains[1])
	}
}

// A time gap or implausible implied speed between two fixes of the same
// user/device does NOT split the chain: the solver is trusted to let the
// unary/pairwise potentials sort it out, matching add_osm_way_id_filtered's
// disabled discontinuity check in the original implementation.
func TestSplitDoesNotBreakOnTimeGapOrImpliedSpeed(t *testing.T) {
	base := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	samples := []track.Sample{
		{UserID: "a", Time: base, Lat: 48.77, Lon: 9.18, HasPosition: true},
		{UserID: "a", Time: base.Add(90 * time.Second), Lat: 48.82, Lon: 9.18, HasPosition: true},
	}

	chains := Split(samples)
	if len(chains) != 1 || len(chains[0].Indices) != 2 {
		t.Fatalf("got %+v, want a single 2-sample chain", chains)
	}
}

func TestSplitKeepsNormalMotionInOneChain(t *testing.T) {
	base := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	samples := []track.Sample{
		{UserID: "a", Time: base, Lat: 48.7700, Lon: 9.1800, HasPosition: true},
		{UserID: "a", Time: base.Add(time.Second), Lat: 48.77001, Lon: 9.1800, HasPosition: true},
		{UserID: "a", Time: base.Add(2 * time.Second), Lat: 48.77002, Lon: 9.1800, HasPosition: true},
	}

	chains := Split(samples)
	if len(chains) != 1 || len(chains[0].Indices) != 3 {
		t.Fatalf("got %+v, want one chain of 3", chains)
	}
}
