// Package osmbinary decodes the §6 intermediate OSM binary stream: a
// sequence of MessagePack-encoded (type_tag, array) records carrying Road
// and Region geometry in EPSG:3857, reprojected here to WGS84 for storage
// alongside the rest of the Way model.
package osmbinary

import (
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/project"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

const (
	TagRoad   = 0x01
	TagRegion = 0x02
)

// Road is one decoded Road record, reprojected to WGS84.
type Road struct {
	WayID          int64
	Name           string
	HasName        bool
	Zone           string
	HasZone        bool
	Directionality int8
	Oneway         bool
	Line           orb.LineString // WGS84, [lon, lat]
}

// Region is one decoded Region record. The core doesn't route against
// regions; they're carried through so an importer built against this
// stream can also ingest administrative-boundary records without the
// format needing a second decoder.
type Region struct {
	RelationID int64
	Name       string
	AdminLevel int32
	Geometry   orb.Geometry // WGS84
}

// ErrUnknownTag is returned by Decoder.Next for a type_tag this importer
// doesn't recognize. The record body has already been skipped, so callers
// can safely ignore this error and keep reading.
type ErrUnknownTag struct{ Tag int64 }

func (e *ErrUnknownTag) Error() string { return fmt.Sprintf("osmbinary: unknown type_tag %d", e.Tag) }

// Decoder reads a stream of (type_tag, array) MessagePack records.
type Decoder struct {
	dec *msgpack.Decoder
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: msgpack.NewDecoder(r)}
}

// Next decodes one record. It returns a *Road or *Region depending on the
// leading type_tag, io.EOF once the stream is exhausted, or *ErrUnknownTag
// for a record kind this decoder doesn't know (already skipped, safe to
// continue reading).
func (d *Decoder) Next() (interface{}, error) {
	n, err := d.dec.DecodeArrayLen()
	if err != nil {
		return nil, err // propagates io.EOF at end of stream
	}
	if n != 2 {
		return nil, fmt.Errorf("osmbinary: record has %d elements, want 2", n)
	}

	tag, err := d.dec.DecodeInt64()
	if err != nil {
		return nil, fmt.Errorf("osmbinary: decode type_tag: %w", err)
	}

	switch tag {
	case TagRoad:
		rec, err := d.decodeRoad()
		if err != nil {
			return nil, err
		}
		return rec, nil
	case TagRegion:
		rec, err := d.decodeRegion()
		if err != nil {
			return nil, err
		}
		return rec, nil
	default:
		if err := d.dec.Skip(); err != nil {
			return nil, fmt.Errorf("osmbinary: skip unknown record body: %w", err)
		}
		return nil, &ErrUnknownTag{Tag: tag}
	}
}

func (d *Decoder) decodeRoad() (*Road, error) {
	n, err := d.dec.DecodeArrayLen()
	if err != nil {
		return nil, fmt.Errorf("osmbinary: road body: %w", err)
	}
	if n != 6 {
		return nil, fmt.Errorf("osmbinary: road body has %d fields, want 6", n)
	}

	wayID, err := d.dec.DecodeInt64()
	if err != nil {
		return nil, fmt.Errorf("osmbinary: road way_id: %w", err)
	}
	name, hasName, err := d.decodeOptionalString()
	if err != nil {
		return nil, fmt.Errorf("osmbinary: road name: %w", err)
	}
	zone, hasZone, err := d.decodeOptionalString()
	if err != nil {
		return nil, fmt.Errorf("osmbinary: road zone: %w", err)
	}
	directionality, err := d.dec.DecodeInt8()
	if err != nil {
		return nil, fmt.Errorf("osmbinary: road directionality: %w", err)
	}
	oneway, err := d.dec.DecodeBool()
	if err != nil {
		return nil, fmt.Errorf("osmbinary: road oneway: %w", err)
	}
	geomBytes, err := d.dec.DecodeBytes()
	if err != nil {
		return nil, fmt.Errorf("osmbinary: road geometry: %w", err)
	}

	line, err := unmarshalMercatorLineString(geomBytes)
	if err != nil {
		return nil, fmt.Errorf("osmbinary: way %d: %w", wayID, err)
	}

	return &Road{
		WayID:          wayID,
		Name:           name,
		HasName:        hasName,
		Zone:           zone,
		HasZone:        hasZone,
		Directionality: directionality,
		Oneway:         oneway,
		Line:           line,
	}, nil
}

func (d *Decoder) decodeRegion() (*Region, error) {
	n, err := d.dec.DecodeArrayLen()
	if err != nil {
		return nil, fmt.Errorf("osmbinary: region body: %w", err)
	}
	if n != 4 {
		return nil, fmt.Errorf("osmbinary: region body has %d fields, want 4", n)
	}

	relationID, err := d.dec.DecodeInt64()
	if err != nil {
		return nil, fmt.Errorf("osmbinary: region relation_id: %w", err)
	}
	name, err := d.dec.DecodeString()
	if err != nil {
		return nil, fmt.Errorf("osmbinary: region name: %w", err)
	}
	adminLevel, err := d.dec.DecodeInt32()
	if err != nil {
		return nil, fmt.Errorf("osmbinary: region admin_level: %w", err)
	}
	geomBytes, err := d.dec.DecodeBytes()
	if err != nil {
		return nil, fmt.Errorf("osmbinary: region geometry: %w", err)
	}

	geom, err := wkb.Unmarshal(geomBytes)
	if err != nil {
		return nil, fmt.Errorf("osmbinary: relation %d: decode WKB: %w", relationID, err)
	}

	return &Region{
		RelationID: relationID,
		Name:       name,
		AdminLevel: adminLevel,
		Geometry:   project.Mercator.ToWGS84(geom),
	}, nil
}

// decodeOptionalString decodes a MessagePack nil or string, matching the
// §6 `string?` optional fields.
func (d *Decoder) decodeOptionalString() (string, bool, error) {
	code, err := d.dec.PeekCode()
	if err != nil {
		return "", false, err
	}
	if code == msgpcode.Nil {
		if err := d.dec.DecodeNil(); err != nil {
			return "", false, err
		}
		return "", false, nil
	}

	s, err := d.dec.DecodeString()
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}

func unmarshalMercatorLineString(b []byte) (orb.LineString, error) {
	geom, err := wkb.Unmarshal(b)
	if err != nil {
		return nil, fmt.Errorf("decode WKB: %w", err)
	}
	line, ok := geom.(orb.LineString)
	if !ok {
		return nil, fmt.Errorf("geometry is %T, want LineString", geom)
	}

	wgs84, ok := project.Mercator.ToWGS84(line).(orb.LineString)
	if !ok {
		return nil, fmt.Errorf("reprojected geometry lost its LineString type")
	}
	return wgs84, nil
}
