// Package wayindex holds the in-memory Way store: an id-indexed map plus an
// AABB tree for bounding-box queries, guarded by a single mutex.
package wayindex

import (
	"sync"

	"github.com/tidwall/rtree"

	"github.com/openbikesensor/obs-core/internal/way"
)

// Store is the way lookup used by the candidate generator (C6) and the map
// loader (C3). Safe for concurrent use: writers take an exclusive lock,
// readers a shared one, so insertion never blocks a reader for longer than
// a single Way's insert.
type Store struct {
	mu   sync.RWMutex
	tree rtree.RTreeG[*way.Way]
	byID map[int64]*way.Way
}

func New() *Store {
	return &Store{byID: make(map[int64]*way.Way)}
}

// Insert adds or replaces a way. Replacing requires removing the stale
// entry from the tree first, since the tree is keyed by bounding box, not
// by id.
func (s *Store) Insert(w *way.Way) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.byID[w.ID]; ok {
		b := old.Bound()
		s.tree.Delete([2]float64{b.Min[0], b.Min[1]}, [2]float64{b.Max[0], b.Max[1]}, old)
	}

	b := w.Bound()
	s.tree.Insert([2]float64{b.Min[0], b.Min[1]}, [2]float64{b.Max[0], b.Max[1]}, w)
	s.byID[w.ID] = w
}

// Get returns the way with the given id, if loaded.
func (s *Store) Get(id int64) (*way.Way, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.byID[id]
	return w, ok
}

// Len reports how many ways are loaded.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// QueryNear returns every way whose bounding box overlaps the box of
// half-widths dLat and dLon (in degrees) around (lat, lon). This is
// an over-approximation by design: find_near_candidates in the reference
// implementation does the same and leaves the precise distance check to the
// caller (internal/candidate).
func (s *Store) QueryNear(lat, lon float64, dLat, dLon float64) []*way.Way {
	s.mu.RLock()
	defer s.mu.RUnlock()

	min := [2]float64{lon - dLon, lat - dLat}
	max := [2]float64{lon + dLon, lat + dLat}

	var out []*way.Way
	s.tree.Search(min, max, func(_, _ [2]float64, w *way.Way) bool {
		out = append(out, w)
		return true
	})
	return out
}

// All returns every loaded way, for bulk export paths (e.g. re-indexing).
func (s *Store) All() []*way.Way {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*way.Way, 0, len(s.byID))
	for _, w := range s.byID {
		out = append(out, w)
	}
	return out
}
