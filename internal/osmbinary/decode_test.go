package osmbinary

import (
	"bytes"
	"io"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/project"
	"github.com/vmihailenco/msgpack/v5"
)

func encodeRoadRecord(t *testing.T, wayID int64, name, zone interface{}, directionality int8, oneway bool, wgs84 orb.LineString) []byte {
	t.Helper()

	merc, ok := project.WGS84.ToMercator(wgs84).(orb.LineString)
	if !ok {
		t.Fatalf("projecting fixture line to mercator lost its LineString type")
	}
	geomBytes, err := wkb.Marshal(orb.Geometry(merc))
	if err != nil {
		t.Fatalf("wkb.Marshal: %v", err)
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.EncodeArrayLen(2); err != nil {
		t.Fatalf("encode envelope: %v", err)
	}
	if err := enc.EncodeInt64(TagRoad); err != nil {
		t.Fatalf("encode tag: %v", err)
	}
	if err := enc.EncodeArrayLen(6); err != nil {
		t.Fatalf("encode body: %v", err)
	}
	if err := enc.EncodeInt64(wayID); err != nil {
		t.Fatalf("encode way_id: %v", err)
	}
	if err := enc.Encode(name); err != nil {
		t.Fatalf("encode name: %v", err)
	}
	if err := enc.Encode(zone); err != nil {
		t.Fatalf("encode zone: %v", err)
	}
	if err := enc.EncodeInt8(directionality); err != nil {
		t.Fatalf("encode directionality: %v", err)
	}
	if err := enc.EncodeBool(oneway); err != nil {
		t.Fatalf("encode oneway: %v", err)
	}
	if err := enc.EncodeBytes(geomBytes); err != nil {
		t.Fatalf("encode geometry: %v", err)
	}

	return buf.Bytes()
}

func TestDecoderDecodesRoadRecord(t *testing.T) {
	line := orb.LineString{{13.4050, 52.5200}, {13.4060, 52.5210}}
	raw := encodeRoadRecord(t, 42, "Bahnhofstraße", "urban", 1, true, line)

	dec := NewDecoder(bytes.NewReader(raw))
	rec, err := dec.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}

	road, ok := rec.(*Road)
	if !ok {
		t.Fatalf("Next returned %T, want *Road", rec)
	}
	if road.WayID != 42 {
		t.Errorf("WayID = %d, want 42", road.WayID)
	}
	if !road.HasName || road.Name != "Bahnhofstraße" {
		t.Errorf("Name = %q (has=%v), want Bahnhofstraße", road.Name, road.HasName)
	}
	if !road.HasZone || road.Zone != "urban" {
		t.Errorf("Zone = %q (has=%v), want urban", road.Zone, road.HasZone)
	}
	if road.Directionality != 1 {
		t.Errorf("Directionality = %d, want 1", road.Directionality)
	}
	if len(road.Line) != 2 {
		t.Fatalf("Line has %d points, want 2", len(road.Line))
	}
	if math.Abs(road.Line[0][1]-52.5200) > 1e-6 || math.Abs(road.Line[0][0]-13.4050) > 1e-6 {
		t.Errorf("Line[0] = %v, want (13.4050, 52.5200)", road.Line[0])
	}

	if _, err := dec.Next(); err != io.EOF {
		t.Fatalf("second Next = %v, want io.EOF", err)
	}
}

func TestDecoderHandlesOptionalFieldsAsNil(t *testing.T) {
	line := orb.LineString{{13.4050, 52.5200}, {13.4060, 52.5210}}
	raw := encodeRoadRecord(t, 7, nil, nil, 0, false, line)

	dec := NewDecoder(bytes.NewReader(raw))
	rec, err := dec.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}

	road := rec.(*Road)
	if road.HasName || road.HasZone {
		t.Errorf("expected no name/zone, got HasName=%v HasZone=%v", road.HasName, road.HasZone)
	}
}
