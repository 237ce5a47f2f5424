package emit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openbikesensor/obs-core/internal/track"
)

// Artifacts bundles everything one track run produces for C12.
type Artifacts struct {
	Samples []track.Sample
	Events  []track.OvertakingEvent
	Slug    string
}

// WriteAll writes measurements.json, overtakingEvents.json, track.json,
// trackRaw.json, and track.gpx to <outputDir>/<authorID>/<slug>/, creating
// directories as needed. Each file is written fresh (no merge with a prior
// run); a reader gates on the track's status rather than partial-write
// visibility of these files.
func WriteAll(outputDir, authorID string, a Artifacts) error {
	dir := filepath.Join(outputDir, authorID, a.Slug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("emit: create output dir %s: %w", dir, err)
	}

	points := Points(a.Samples)
	events := Events(a.Events)
	trackLine := TrackLine(a.Samples)
	rawLine := RawTrackLine(a.Samples)

	files := []struct {
		name string
		v    interface{}
	}{
		{"measurements.json", points},
		{"overtakingEvents.json", events},
		{"track.json", trackLine},
		{"trackRaw.json", rawLine},
	}
	for _, f := range files {
		if err := writeJSON(filepath.Join(dir, f.name), f.v); err != nil {
			return err
		}
	}

	gpx, err := GPX(a.Samples, a.Slug)
	if err != nil {
		return fmt.Errorf("emit: build gpx: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "track.gpx"), gpx, 0o644); err != nil {
		return fmt.Errorf("emit: write track.gpx: %w", err)
	}

	return nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("emit: marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("emit: write %s: %w", path, err)
	}
	return nil
}
