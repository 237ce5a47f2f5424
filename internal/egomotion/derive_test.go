package egomotion

import (
	"math"
	"testing"
	"time"

	"github.com/openbikesensor/obs-core/internal/track"
)

func sampleAt(t time.Time, lat, lon float64) track.Sample {
	return track.Sample{Time: t, Lat: lat, Lon: lon, HasPosition: true}
}

func TestDeriveFillsCourseAndSpeed(t *testing.T) {
	base := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	samples := []track.Sample{
		sampleAt(base, 52.5200, 13.4050),
		sampleAt(base.Add(time.Second), 52.5201, 13.4050),
		sampleAt(base.Add(2*time.Second), 52.5202, 13.4050),
	}

	Derive(samples)

	mid := samples[1]
	if !mid.HasSpeed || mid.Speed <= 0 {
		t.Fatalf("expected derived speed > 0, got %v (has=%v)", mid.Speed, mid.HasSpeed)
	}
	if !mid.HasCourse {
		t.Fatalf("expected derived course to be set")
	}
	if !mid.EgomotionDerived {
		t.Fatalf("expected EgomotionDerived = true")
	}
	// Moving due north: course should be close to pi/2 (CCW from east).
	if diff := math.Abs(mid.Course - math.Pi/2); diff > 0.05 {
		t.Errorf("course = %v, want ~pi/2", mid.Course)
	}
}

func TestDeriveDoesNotOverwritePresentValues(t *testing.T) {
	base := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	samples := []track.Sample{
		sampleAt(base, 52.5200, 13.4050),
		sampleAt(base.Add(time.Second), 52.5201, 13.4050),
		sampleAt(base.Add(2*time.Second), 52.5202, 13.4050),
	}
	samples[1].HasCourse = true
	samples[1].Course = 1.23
	samples[1].HasSpeed = true
	samples[1].Speed = 9.87

	Derive(samples)

	if samples[1].Course != 1.23 || samples[1].Speed != 9.87 {
		t.Fatalf("existing course/speed got overwritten: %+v", samples[1])
	}
	if samples[1].EgomotionDerived {
		t.Errorf("EgomotionDerived should stay false when nothing was derived")
	}
}

func TestDeriveSkipsNonOneSecondGaps(t *testing.T) {
	base := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	samples := []track.Sample{
		sampleAt(base, 52.5200, 13.4050),
		sampleAt(base.Add(3*time.Second), 52.5201, 13.4050),
		sampleAt(base.Add(4*time.Second), 52.5202, 13.4050),
	}

	Derive(samples)

	if samples[1].HasCourse || samples[1].HasSpeed || samples[1].EgomotionDerived {
		t.Fatalf("expected no derivation across a non-1s gap, got %+v", samples[1])
	}
}

func TestDeriveSkipsMissingPosition(t *testing.T) {
	base := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	samples := []track.Sample{
		sampleAt(base, 52.5200, 13.4050),
		{Time: base.Add(time.Second)}, // no position
		sampleAt(base.Add(2*time.Second), 52.5202, 13.4050),
	}

	Derive(samples)

	if samples[1].HasCourse || samples[1].HasSpeed {
		t.Fatalf("expected no derivation when the sample itself lacks a position")
	}
}
