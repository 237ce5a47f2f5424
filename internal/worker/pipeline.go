// Package worker wraps the per-track C4→C9 pipeline and the C11 worker
// pool that runs it against a queue of claimed tracks.
package worker

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/openbikesensor/obs-core/internal/annotate"
	"github.com/openbikesensor/obs-core/internal/candidate"
	"github.com/openbikesensor/obs-core/internal/chain"
	"github.com/openbikesensor/obs-core/internal/csvimport"
	"github.com/openbikesensor/obs-core/internal/egomotion"
	"github.com/openbikesensor/obs-core/internal/emit"
	"github.com/openbikesensor/obs-core/internal/filter"
	"github.com/openbikesensor/obs-core/internal/mapsource"
	"github.com/openbikesensor/obs-core/internal/track"
	"github.com/openbikesensor/obs-core/internal/wayindex"
)

// Dependencies are the shared, long-lived collaborators every track job
// uses. WayStore and TileLoader are safe for concurrent use by multiple
// workers; CandidateOptions/AnnotateOptions/privacy settings are plain
// config, copied per job.
type Dependencies struct {
	WayStore   *wayindex.Store
	TileLoader *mapsource.TileLoader // nil skips ensure-coverage, for tests against a pre-populated WayStore

	CSVOptions       csvimport.Options
	CandidateOptions candidate.Options
	AnnotateOptions  annotate.Options

	PrivacyZones  []filter.PrivacyZone
	Pseudonymizer *filter.Pseudonymization

	OutputDir string
}

// Outcome is what one successful track run produces for the store and the
// output directory.
type Outcome struct {
	Stats     track.Record
	Events    []track.OvertakingEvent
	RoadUsage []track.RoadUsageSegment
}

// ProcessTrack runs C4 through C9 over one track's original CSV file,
// writes its C12 artifacts to deps.OutputDir, and returns the denormalized
// stats and event/road-usage rows the caller should persist. It does not
// touch the store itself; the worker pool owns the claim/commit lifecycle.
func ProcessTrack(ctx context.Context, deps Dependencies, r io.Reader, rec track.Record) (Outcome, error) {
	imported, err := csvimport.Import(r, rec.AuthorID, rec.Slug, deps.CSVOptions)
	if err != nil {
		return Outcome{}, fmt.Errorf("worker: import: %w", err)
	}
	samples := imported.Samples

	egomotion.Derive(samples)

	if deps.TileLoader != nil {
		var lats, lons []float64
		for _, s := range samples {
			if s.HasPosition {
				lats = append(lats, s.Lat)
				lons = append(lons, s.Lon)
			}
		}
		if err := deps.TileLoader.EnsureCoverage(ctx, lats, lons); err != nil {
			return Outcome{}, fmt.Errorf("worker: ensure coverage: %w", err)
		}
	}

	annotated := make([]track.Annotated, len(samples))
	for i, s := range samples {
		annotated[i] = track.Annotated{
			Sample:     s,
			Candidates: candidate.Generate(deps.WayStore, s, deps.CandidateOptions),
			Chosen:     -1,
		}
	}

	for _, c := range chain.Split(samples) {
		chain.Solve(c, annotated)
	}

	for i := range annotated {
		annotate.Annotate(deps.WayStore, &annotated[i], deps.AnnotateOptions)
		samples[i] = annotated[i].Sample
	}

	base := filter.RequiredFields{}.Apply(samples, nil)
	if len(deps.PrivacyZones) > 0 {
		base = filter.PrivacyZones{Zones: deps.PrivacyZones}.Apply(base, nil)
	}
	if deps.Pseudonymizer != nil {
		base = deps.Pseudonymizer.Apply(base, nil)
	}

	eventSamples := filter.Chain{Filters: []filter.Filter{filter.DistanceMeasured{}, filter.Confirmed{}}}.Apply(base, nil)
	events := buildEvents(eventSamples)
	usage := roadUsageSegments(base)

	if err := os.MkdirAll(deps.OutputDir, 0o755); err != nil {
		return Outcome{}, fmt.Errorf("worker: prepare output dir: %w", err)
	}
	if err := emit.WriteAll(deps.OutputDir, rec.AuthorID, emit.Artifacts{
		Samples: base,
		Events:  events,
		Slug:    rec.Slug,
	}); err != nil {
		return Outcome{}, fmt.Errorf("worker: emit artifacts: %w", err)
	}

	stats := track.Record{
		RecordedAt:      imported.Stats.TMin,
		RecordedUntil:   imported.Stats.TMax,
		DurationS:       imported.Stats.ContinuousDurationS,
		LengthM:         imported.Stats.ContinuousDistanceM,
		Segments:        imported.Stats.NSegments,
		NumEvents:       len(events),
		NumMeasurements: imported.Stats.NMeasurements,
		NumValid:        imported.Stats.NValid,
	}

	return Outcome{Stats: stats, Events: events, RoadUsage: usage}, nil
}

func buildEvents(samples []track.Sample) []track.OvertakingEvent {
	seen := make(map[string]bool)
	var events []track.OvertakingEvent
	for _, s := range samples {
		hash := eventHexHash(s.Lat, s.Lon, s.Time)
		if seen[hash] {
			continue // first event of a hash collision wins, matching the original importer
		}
		seen[hash] = true

		events = append(events, track.OvertakingEvent{
			HexHash:               hash,
			WayID:                 s.WayID,
			HasWayID:              s.HasWayID,
			DirectionReversed:     s.WayOrientation < 0,
			Lat:                   s.Lat,
			Lon:                   s.Lon,
			Time:                  s.Time,
			HasDistanceOvertaker:  s.HasDistanceOvertaker,
			DistanceOvertaker:     s.DistanceOvertaker,
			HasDistanceStationary: s.HasDistanceStationary,
			DistanceStationary:    s.DistanceStationary,
			HasCourse:             s.HasCourse,
			Course:                s.Course,
			HasSpeed:              s.HasSpeed,
			Speed:                 s.Speed,
		})
	}
	return events
}
