package osmbinary

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
)

// Stats summarizes one Import call.
type Stats struct {
	RoadsUpserted  int
	RegionsSkipped int
	UnknownRecords int
}

// Import reads a §6 binary stream and upserts every Road record into the
// ways table, tagged with group so a later Prune call can remove whatever
// a previous import left behind. Region records are counted but not
// stored; the core has no region-aware component to hand them to.
func Import(ctx context.Context, db *sql.DB, r io.Reader, group string) (Stats, error) {
	dec := NewDecoder(r)
	var stats Stats

	for {
		rec, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		var unknown *ErrUnknownTag
		if errors.As(err, &unknown) {
			stats.UnknownRecords++
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("osmbinary: import: %w", err)
		}

		switch v := rec.(type) {
		case *Road:
			if err := upsertRoad(ctx, db, v, group); err != nil {
				return stats, fmt.Errorf("osmbinary: upsert way %d: %w", v.WayID, err)
			}
			stats.RoadsUpserted++
		case *Region:
			stats.RegionsSkipped++
		}
	}
}

func upsertRoad(ctx context.Context, db *sql.DB, road *Road, group string) error {
	tags := make(map[string]string, 4)
	if road.HasName {
		tags["name"] = road.Name
	}
	if road.HasZone {
		tags["zone:traffic"] = road.Zone
	}
	switch road.Directionality {
	case 1:
		tags["oneway"] = "yes"
	case -1:
		tags["oneway"] = "-1"
	default:
		if road.Oneway {
			tags["oneway"] = "yes"
		}
	}

	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}

	geomBytes, err := wkb.Marshal(orb.Geometry(road.Line))
	if err != nil {
		return fmt.Errorf("encode geometry: %w", err)
	}

	minLat, maxLat, minLon, maxLon := bound(road.Line)

	_, err = db.ExecContext(ctx, `
		INSERT INTO ways (way_id, tags_json, geometry, min_lat, max_lat, min_lon, max_lon, import_group)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(way_id) DO UPDATE SET
			tags_json = excluded.tags_json,
			geometry = excluded.geometry,
			min_lat = excluded.min_lat,
			max_lat = excluded.max_lat,
			min_lon = excluded.min_lon,
			max_lon = excluded.max_lon,
			import_group = excluded.import_group`,
		road.WayID, string(tagsJSON), geomBytes, minLat, maxLat, minLon, maxLon, group,
	)
	return err
}

func bound(line orb.LineString) (minLat, maxLat, minLon, maxLon float64) {
	b := line.Bound() // (lon, lat) order, per the orb.LineString convention
	return b.Min[1], b.Max[1], b.Min[0], b.Max[0]
}

// Prune removes every way whose import_group is neither keepGroup nor
// empty (empty marks ways seeded by another path, e.g. manual test
// fixtures, which Import never touches). This is the "bulk replacement"
// mechanism the format's import_group field exists for: re-import the
// whole region under a fresh group, then prune whatever the previous
// import tagged with its own, now-stale group.
func Prune(ctx context.Context, db *sql.DB, keepGroup string) (int64, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM ways WHERE import_group != ? AND import_group != ''`, keepGroup)
	if err != nil {
		return 0, fmt.Errorf("osmbinary: prune: %w", err)
	}
	return res.RowsAffected()
}
