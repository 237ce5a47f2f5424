package emit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/openbikesensor/obs-core/internal/track"
)

func sampleSet() []track.Sample {
	t0 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return []track.Sample{
		{Time: t0, Lat: 48.77, Lon: 9.18, HasPosition: true, HasDistanceOvertaker: true, DistanceOvertaker: 1.2},
		{Time: t0.Add(time.Second), Lat: 48.771, Lon: 9.181, HasPosition: true, Confirmed: false},
		{Time: t0.Add(2 * time.Second), Lat: 0, Lon: 0, HasPosition: false}, // missing position, dropped by RequiredFields
	}
}

func TestPointsKeepsOnlyDistanceOrConfirmed(t *testing.T) {
	fc := Points(sampleSet())
	if len(fc.Features) != 1 {
		t.Fatalf("got %d features, want 1", len(fc.Features))
	}
	if fc.Features[0].Properties["distance_overtaker"] != 1.2 {
		t.Errorf("properties missing distance_overtaker: %+v", fc.Features[0].Properties)
	}
}

func TestEventsBuildsPointPerEvent(t *testing.T) {
	events := []track.OvertakingEvent{
		{HexHash: "h1", Lat: 48.77, Lon: 9.18, Time: time.Now(), HasDistanceOvertaker: true, DistanceOvertaker: 1.1},
	}
	fc := Events(events)
	if len(fc.Features) != 1 {
		t.Fatalf("got %d features, want 1", len(fc.Features))
	}
	if fc.Features[0].Properties["hex_hash"] != "h1" {
		t.Errorf("unexpected properties: %+v", fc.Features[0].Properties)
	}
}

func TestTrackLineNeedsAtLeastTwoPoints(t *testing.T) {
	fc := TrackLine(sampleSet()[:1])
	if len(fc.Features) != 0 {
		t.Fatalf("got %d features for a single point, want 0", len(fc.Features))
	}

	fc = TrackLine(sampleSet())
	if len(fc.Features) != 1 {
		t.Fatalf("got %d features, want 1", len(fc.Features))
	}
}

func TestGPXRendersOnePointPerPositionedSample(t *testing.T) {
	data, err := GPX(sampleSet(), "my-ride")
	if err != nil {
		t.Fatalf("GPX: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, "<trk>") || !strings.Contains(s, "<trkpt") {
		t.Errorf("gpx output missing expected elements: %s", s)
	}
	if n := strings.Count(s, "<trkpt"); n != 2 {
		t.Errorf("got %d <trkpt> elements, want 2 (one per positioned sample)", n)
	}
}

func TestWriteAllCreatesExpectedFiles(t *testing.T) {
	dir := t.TempDir()
	a := Artifacts{
		Samples: sampleSet(),
		Events:  []track.OvertakingEvent{{HexHash: "h1", Lat: 48.77, Lon: 9.18, Time: time.Now()}},
		Slug:    "ride-1",
	}
	if err := WriteAll(dir, "alice", a); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	outDir := filepath.Join(dir, "alice", "ride-1")
	for _, name := range []string{"measurements.json", "overtakingEvents.json", "track.json", "trackRaw.json", "track.gpx"} {
		path := filepath.Join(outDir, name)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected file %s: %v", path, err)
		}
	}

	var fc map[string]interface{}
	data, err := os.ReadFile(filepath.Join(outDir, "measurements.json"))
	if err != nil {
		t.Fatalf("read measurements.json: %v", err)
	}
	if err := json.Unmarshal(data, &fc); err != nil {
		t.Fatalf("unmarshal measurements.json: %v", err)
	}
	if fc["type"] != "FeatureCollection" {
		t.Errorf("measurements.json type = %v, want FeatureCollection", fc["type"])
	}
}
