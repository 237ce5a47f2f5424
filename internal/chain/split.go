// Package chain groups annotated samples into HMM chains and solves each
// one for a single chosen candidate per sample (C7).
package chain

import (
	"github.com/openbikesensor/obs-core/internal/track"
)

// Split partitions samples into contiguous runs (by index) that share one
// user/device id. A new chain starts whenever the id changes between
// consecutive samples.
func Split(samples []track.Sample) []track.Chain {
	var chains []track.Chain

	var cur track.Chain
	for i, s := range samples {
		if i == 0 {
			cur = track.Chain{UserID: s.UserID, Indices: []int{0}}
			continue
		}

		if samples[i-1].UserID != s.UserID {
			chains = append(chains, cur)
			cur = track.Chain{UserID: s.UserID, Indices: []int{i}}
			continue
		}
		cur.Indices = append(cur.Indices, i)
	}
	if len(cur.Indices) > 0 {
		chains = append(chains, cur)
	}

	return chains
}
