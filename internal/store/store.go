// Package store persists track records and their overtaking events. It is
// the C11 worker pool's external collaborator: an opaque queue of tracks in
// state created/queued/processing/complete/error, claimed one at a time in
// FIFO order by processing_queued_at.
package store

import (
	"context"
	"errors"

	"github.com/openbikesensor/obs-core/internal/track"
)

// ErrNoTrackQueued is returned by ClaimNext when no track is waiting.
var ErrNoTrackQueued = errors.New("store: no track queued")

// ErrStoreConflict is returned when a commit targets a track that is no
// longer in the expected state (e.g. claimed by a run that has since been
// released, or already completed).
var ErrStoreConflict = errors.New("store: conflicting track state")

// TrackStore is the worker pool's view of the track queue. Implementations
// must give at-most-one-claimant semantics for ClaimNext even under
// concurrent callers.
type TrackStore interface {
	// ClaimNext atomically picks the oldest queued track, marks it
	// processing, and returns it. Returns ErrNoTrackQueued if none is
	// waiting.
	ClaimNext(ctx context.Context) (*track.Record, error)

	// Release rolls a claimed track back to queued without recording any
	// result, for cooperative shutdown mid-track.
	Release(ctx context.Context, id int64) error

	// CommitSuccess marks a track complete, stores its denormalized
	// stats, and replaces its overtaking events and road-usage segments
	// (clear then reinsert, so re-running a track is idempotent).
	CommitSuccess(ctx context.Context, id int64, stats track.Record, events []track.OvertakingEvent, usage []track.RoadUsageSegment) error

	// CommitError marks a track errored and records a human-readable
	// log message; no events are touched.
	CommitError(ctx context.Context, id int64, message string) error

	// Enqueue creates a new track row in state queued, used by importers
	// and tests. Returns the assigned id.
	Enqueue(ctx context.Context, rec track.Record) (int64, error)
}
