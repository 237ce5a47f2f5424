package chain

import (
	"testing"

	"github.com/openbikesensor/obs-core/internal/track"
)

func TestSolveChainLengthOnePicksSmallestLateral(t *testing.T) {
	c := track.Chain{UserID: "a", Indices: []int{0}}
	annotated := []track.Annotated{
		{Candidates: []track.Candidate{
			{WayID: 1, MatchingID: "Main", LateralDistM: 5.0},
			{WayID: 2, MatchingID: "Side", LateralDistM: 2.0},
		}},
	}

	Solve(c, annotated)

	if annotated[0].Chosen != 1 {
		t.Fatalf("Chosen = %d, want 1 (smallest lateral distance)", annotated[0].Chosen)
	}
}

func TestSolveZeroCandidatesClearsChosen(t *testing.T) {
	c := track.Chain{UserID: "a", Indices: []int{0}}
	annotated := []track.Annotated{{Candidates: nil}}

	Solve(c, annotated)

	if annotated[0].Chosen != -1 {
		t.Fatalf("Chosen = %d, want -1 for an unmatched sample", annotated[0].Chosen)
	}
}

// TestSolvePrefersSameName mirrors the "chain prefers same name" scenario:
// two parallel ways 8m apart, W1 named "Main" and W2 named "Side". The
// middle sample is closer to W2 by lateral distance alone (3.9m vs 4.1m),
// but both neighbors only see W1 ("Main"), so the strong pairwise bonus for
// matching names must pull the middle sample onto W1 too.
func TestSolvePrefersSameName(t *testing.T) {
	c := track.Chain{UserID: "a", Indices: []int{0, 1, 2}}
	annotated := []track.Annotated{
		{Candidates: []track.Candidate{{WayID: 1, MatchingID: "Main", LateralDistM: 2.0}}},
		{Candidates: []track.Candidate{
			{WayID: 1, MatchingID: "Main", LateralDistM: 4.1},
			{WayID: 2, MatchingID: "Side", LateralDistM: 3.9},
		}},
		{Candidates: []track.Candidate{{WayID: 1, MatchingID: "Main", LateralDistM: 2.0}}},
	}

	Solve(c, annotated)

	for i, a := range annotated {
		cc := a.ChosenCandidate()
		if cc == nil || cc.MatchingID != "Main" {
			t.Errorf("sample %d chose %+v, want Main", i, cc)
		}
	}
}

func TestSolveDisconnectedMiddleSampleFallsBackToLateral(t *testing.T) {
	c := track.Chain{UserID: "a", Indices: []int{0, 1, 2}}
	annotated := []track.Annotated{
		{Candidates: []track.Candidate{{WayID: 1, MatchingID: "Main", LateralDistM: 1.0}}},
		{Candidates: nil},
		{Candidates: []track.Candidate{{WayID: 1, MatchingID: "Main", LateralDistM: 1.0}}},
	}

	Solve(c, annotated)

	if annotated[0].Chosen != 0 || annotated[2].Chosen != 0 {
		t.Errorf("endpoints should still resolve to their only candidate: %+v", annotated)
	}
	if annotated[1].Chosen != -1 {
		t.Errorf("middle sample with zero candidates should stay unmatched, got %d", annotated[1].Chosen)
	}
}
