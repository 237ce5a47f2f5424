// Package filter implements C9: composable, stateless filters over a slice
// of samples, each with an optional log sink for per-stage counts.
package filter

import (
	"log"

	"github.com/samber/lo"

	"github.com/openbikesensor/obs-core/internal/track"
)

// Filter narrows a sample slice, optionally reporting what it removed.
type Filter interface {
	Apply(samples []track.Sample, logger *log.Logger) []track.Sample
}

// RequiredFields drops rows missing time, longitude, or latitude.
type RequiredFields struct{}

func (RequiredFields) Apply(samples []track.Sample, logger *log.Logger) []track.Sample {
	kept := lo.Filter(samples, func(s track.Sample, _ int) bool {
		return !s.Time.IsZero() && s.HasPosition
	})
	logRemoved(logger, "required_fields", len(samples), len(kept))
	return kept
}

// DistanceMeasured keeps rows where at least one overtaker/stationary
// distance is present.
type DistanceMeasured struct{}

func (DistanceMeasured) Apply(samples []track.Sample, logger *log.Logger) []track.Sample {
	kept := lo.Filter(samples, func(s track.Sample, _ int) bool {
		return s.HasDistanceOvertaker || s.HasDistanceStationary
	})
	logRemoved(logger, "distance_measured", len(samples), len(kept))
	return kept
}

// Confirmed keeps rows with Confirmed == true.
type Confirmed struct{}

func (Confirmed) Apply(samples []track.Sample, logger *log.Logger) []track.Sample {
	kept := lo.Filter(samples, func(s track.Sample, _ int) bool { return s.Confirmed })
	logRemoved(logger, "confirmed", len(samples), len(kept))
	return kept
}

// Chain applies child filters in order, logging per-stage counts.
type Chain struct {
	Filters []Filter
}

func (c Chain) Apply(samples []track.Sample, logger *log.Logger) []track.Sample {
	for _, f := range c.Filters {
		samples = f.Apply(samples, logger)
	}
	return samples
}

func logRemoved(logger *log.Logger, stage string, before, after int) {
	if logger == nil {
		return
	}
	logger.Printf("filter %s: removed %d, kept %d", stage, before-after, after)
}
