package csvimport

import (
	"strings"
	"testing"
)

func TestImportV1_1(t *testing.T) {
	csv := "" +
		"Date;Time;Latitude;Longitude;Course;Speed;Case;Lid;Confirmed\n" +
		"15.03.2021;08:00:00;52.5200;13.4050;90;18.0;120;255;1\n" +
		"15.03.2021;08:00:01;52.5201;13.4051;90;18.0;255;150;0\n"

	res, err := Import(strings.NewReader(csv), "user1", "ds1", DefaultOptions())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.FormatID != "1.1" {
		t.Fatalf("FormatID = %q, want 1.1", res.FormatID)
	}
	if len(res.Samples) != 2 {
		t.Fatalf("got %d samples, want 2", len(res.Samples))
	}

	first := res.Samples[0]
	if !first.HasDistanceOvertaker || first.DistanceOvertaker != 1.2 {
		t.Errorf("first.DistanceOvertaker = %v (has=%v), want 1.2", first.DistanceOvertaker, first.HasDistanceOvertaker)
	}
	if first.HasDistanceStationary {
		t.Errorf("first.HasDistanceStationary = true, want false (255 sentinel)")
	}
	if !first.Confirmed {
		t.Errorf("first.Confirmed = false, want true")
	}
}

func TestImportRejectsPreCutoffRows(t *testing.T) {
	csv := "" +
		"Date;Time;Latitude;Longitude;Confirmed;Case;Lid\n" +
		"15.03.2017;08:00:00;52.5200;13.4050;1;120;255\n" +
		"15.03.2021;08:00:00;52.5200;13.4050;1;120;255\n"

	res, err := Import(strings.NewReader(csv), "user1", "ds1", DefaultOptions())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(res.Samples) != 1 {
		t.Fatalf("got %d samples, want 1 (pre-2018 row dropped)", len(res.Samples))
	}
}

func TestImportDropsZeroZeroBug(t *testing.T) {
	csv := "" +
		"Date;Time;Latitude;Longitude;Confirmed;Case;Lid\n" +
		"15.03.2021;08:00:00;0;0;1;120;255\n" +
		"15.03.2021;08:00:01;52.5200;13.4050;1;120;255\n"

	res, err := Import(strings.NewReader(csv), "user1", "ds1", DefaultOptions())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(res.Samples) != 1 {
		t.Fatalf("got %d samples, want 1 (0,0 row dropped)", len(res.Samples))
	}
}

func TestImportV1_3PrivacyZoneDropped(t *testing.T) {
	csv := "" +
		"Date;Time;Latitude;Longitude;Course;Speed;Left;Right;Confirmed;insidePrivacyArea\n" +
		"15.03.2021;08:00:00;52.5200;13.4050;90;18.0;120;255;1;1\n" +
		"15.03.2021;08:00:01;52.5201;13.4051;90;18.0;120;255;1;0\n"

	res, err := Import(strings.NewReader(csv), "user1", "ds1", DefaultOptions())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.FormatID != "1.3" {
		t.Fatalf("FormatID = %q, want 1.3", res.FormatID)
	}
	if len(res.Samples) != 1 {
		t.Fatalf("got %d samples, want 1 (privacy-zoned row dropped)", len(res.Samples))
	}
}

func TestImportUnrecognizedHeaderFails(t *testing.T) {
	csv := "Date;Time;Latitude;Longitude\n15.03.2021;08:00:00;52.52;13.40\n"
	_, err := Import(strings.NewReader(csv), "user1", "ds1", DefaultOptions())
	if err == nil {
		t.Fatal("expected error for unrecognized header")
	}
}

func TestImportV2WithMetadata(t *testing.T) {
	csv := "" +
		"OBSDataFormat=2&MaximumMeasurementsPerLine=1\n" +
		"Date;Time;Latitude;Longitude;Course;Speed;Left;Right;Confirmed;InsidePrivacyArea\n" +
		"15.03.2021;08:00:00;52.5200;13.4050;90;18.0;120;999;1;0\n"

	res, err := Import(strings.NewReader(csv), "user1", "ds1", DefaultOptions())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.FormatID != "2" {
		t.Fatalf("FormatID = %q, want 2", res.FormatID)
	}
	if len(res.Samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(res.Samples))
	}
	if res.Samples[0].HasDistanceStationary {
		t.Errorf("HasDistanceStationary = true, want false (999 sentinel)")
	}
}

func TestNonGzipInputFallsThroughToPlainText(t *testing.T) {
	// Not gzip-compressed, but should fall through to plain-text parsing
	// since the magic-byte sniff only intercepts real gzip streams.
	csv := "Date;Time;Latitude;Longitude;Confirmed;Case;Lid\n15.03.2021;08:00:00;52.52;13.40;1;120;255\n"
	res, err := Import(strings.NewReader(csv), "user1", "ds1", DefaultOptions())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(res.Samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(res.Samples))
	}
}
