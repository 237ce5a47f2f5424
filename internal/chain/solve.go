package chain

import (
	"math"

	"github.com/openbikesensor/obs-core/internal/track"
)

// unaryScaleMeters is "a" in phi_i(k) ∝ exp(-d_ik / a).
const unaryScaleMeters = 100.0

const (
	pSame   = 0.999
	pChange = 0.001
)

// Solve runs forward-backward max-product over one chain and writes the
// chosen candidate index into each Annotated's Chosen field (-1 if the
// sample had no candidates).
func Solve(chain track.Chain, annotated []track.Annotated) {
	n := len(chain.Indices)
	if n == 0 {
		return
	}
	if n == 1 {
		idx := chain.Indices[0]
		annotated[idx].Chosen = argmaxLateral(annotated[idx].Candidates)
		return
	}

	unary := make([][]float64, n) // log-space
	for i, idx := range chain.Indices {
		unary[i] = logUnary(annotated[idx].Candidates)
	}

	// Forward pass: msg[i][k] is the max log-probability of the best path
	// through samples 0..i ending at candidate k of sample i.
	msg := make([][]float64, n)
	back := make([][]int, n) // back[i][k] = candidate index at i-1 chosen for that path

	msg[0] = append([]float64(nil), unary[0]...)
	back[0] = nil

	for i := 1; i < n; i++ {
		prevCands := annotated[chain.Indices[i-1]].Candidates
		curCands := annotated[chain.Indices[i]].Candidates

		msg[i] = make([]float64, len(curCands))
		back[i] = make([]int, len(curCands))

		for k := range curCands {
			best := math.Inf(-1)
			bestJ := -1
			for j := range prevCands {
				psi := pairwiseLog(prevCands[j], curCands[k])
				score := msg[i-1][j] + psi
				if score > best || (score == best && j < bestJ) {
					best = score
					bestJ = j
				}
			}
			if bestJ < 0 {
				// No predecessor candidates at all: fall back to unary only.
				best = 0
			}
			msg[i][k] = unary[i][k] + best
			back[i][k] = bestJ
		}
	}

	// Backward: pick the best final candidate, then walk back.
	lastIdx := chain.Indices[n-1]
	chosen := make([]int, n)
	chosen[n-1] = argmaxLog(msg[n-1])
	if len(annotated[lastIdx].Candidates) == 0 {
		chosen[n-1] = -1
	}

	for i := n - 1; i > 0; i-- {
		if chosen[i] < 0 || back[i] == nil || chosen[i] >= len(back[i]) {
			chosen[i-1] = argmaxLateral(annotated[chain.Indices[i-1]].Candidates)
			continue
		}
		chosen[i-1] = back[i][chosen[i]]
	}

	for i, idx := range chain.Indices {
		c := chosen[i]
		if c < 0 || c >= len(annotated[idx].Candidates) {
			annotated[idx].Chosen = -1
			continue
		}
		annotated[idx].Chosen = c
	}
}

// logUnary computes log(phi_i(k)) for every candidate, normalized so the
// underlying phi sums to 1 across k.
func logUnary(cands []track.Candidate) []float64 {
	if len(cands) == 0 {
		return nil
	}

	raw := make([]float64, len(cands))
	var sum float64
	for i, c := range cands {
		raw[i] = math.Exp(-c.LateralDistM / unaryScaleMeters)
		sum += raw[i]
	}

	out := make([]float64, len(cands))
	for i, v := range raw {
		out[i] = math.Log(v / sum)
	}
	return out
}

func pairwiseLog(a, b track.Candidate) float64 {
	if a.MatchingID == b.MatchingID {
		return math.Log(pSame)
	}
	return math.Log(pChange)
}

// argmaxLog returns the index of the largest value, breaking ties by the
// lower index. Returns -1 for an empty slice.
func argmaxLog(v []float64) int {
	if len(v) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}

// argmaxLateral picks the candidate with the smallest lateral distance,
// used for chains of length 1 and as a tie-break fallback.
func argmaxLateral(cands []track.Candidate) int {
	if len(cands) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(cands); i++ {
		if cands[i].LateralDistM < cands[best].LateralDistM {
			best = i
		}
	}
	return best
}
