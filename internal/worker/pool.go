package worker

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/alitto/pond"

	"github.com/openbikesensor/obs-core/internal/store"
	"github.com/openbikesensor/obs-core/internal/track"
)

// Pool runs the C11 claim loop: N workers share one store.TrackStore,
// each picking the oldest queued track, running it through ProcessTrack,
// and committing the result.
type Pool struct {
	store     store.TrackStore
	deps      Dependencies
	pollDelay time.Duration
	pool      *pond.WorkerPool
}

// NewPool builds a pool of n workers against st, sharing deps across every
// claimed track. pollDelay is how long a worker sleeps after finding the
// queue empty before trying again.
func NewPool(n int, st store.TrackStore, deps Dependencies, pollDelay time.Duration) *Pool {
	return &Pool{
		store:     st,
		deps:      deps,
		pollDelay: pollDelay,
		pool:      pond.New(n, 0, pond.MinWorkers(n)),
	}
}

// Run claims and processes tracks until ctx is cancelled. It then waits for
// in-flight tracks to finish (StopAndWait) before returning ctx.Err().
func (p *Pool) Run(ctx context.Context) error {
	defer p.pool.StopAndWait()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rec, err := p.store.ClaimNext(ctx)
		if errors.Is(err, store.ErrNoTrackQueued) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.pollDelay):
			}
			continue
		}
		if err != nil {
			log.Printf("worker: claim: %v", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.pollDelay):
			}
			continue
		}

		p.pool.Submit(func() { p.runOne(ctx, rec) })
	}
}

// runOne processes one claimed track. If ctx is already cancelled when the
// task starts running (queued behind slower siblings during shutdown), the
// track is released back to queued rather than processed, per the
// cooperative-shutdown contract: finish what's running, don't start what
// isn't.
func (p *Pool) runOne(ctx context.Context, rec *track.Record) {
	if ctx.Err() != nil {
		p.release(rec.ID)
		return
	}

	f, err := os.Open(rec.OriginalFilePath)
	if err != nil {
		p.commitError(rec.ID, err.Error())
		return
	}
	defer f.Close()

	outcome, err := ProcessTrack(ctx, p.deps, f, *rec)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			p.release(rec.ID)
			return
		}
		p.commitError(rec.ID, err.Error())
		return
	}

	// Commits run against a fresh context: a track that finished
	// processing should not lose its result just because shutdown fired
	// in the meantime.
	if err := p.store.CommitSuccess(context.Background(), rec.ID, outcome.Stats, outcome.Events, outcome.RoadUsage); err != nil {
		log.Printf("worker: commit success for track %d: %v", rec.ID, err)
	}
}

func (p *Pool) release(id int64) {
	if err := p.store.Release(context.Background(), id); err != nil {
		log.Printf("worker: release track %d: %v", id, err)
	}
}

func (p *Pool) commitError(id int64, message string) {
	if err := p.store.CommitError(context.Background(), id, message); err != nil {
		log.Printf("worker: commit error for track %d: %v", id, err)
	}
}
