package mapsource

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"

	"github.com/openbikesensor/obs-core/internal/way"
)

// SQLiteProvider streams ways out of a local mirror populated by
// cmd/obs-import-osm, rather than hitting Overpass live. This is the path a
// worker pool processing many tracks against the same region should use.
type SQLiteProvider struct {
	db *sql.DB
}

func NewSQLiteProvider(db *sql.DB) *SQLiteProvider {
	return &SQLiteProvider{db: db}
}

func (p *SQLiteProvider) LoadTile(ctx context.Context, zoom, x, y int) ([]*way.Way, error) {
	south, west, north, east := tileBound(zoom, x, y)

	rows, err := p.db.QueryContext(ctx, `
		SELECT way_id, tags_json, geometry
		FROM ways
		WHERE max_lon >= ? AND min_lon <= ? AND max_lat >= ? AND min_lat <= ?`,
		west, east, south, north,
	)
	if err != nil {
		return nil, fmt.Errorf("mapsource: query ways for tile %d/%d/%d: %w", zoom, x, y, err)
	}
	defer rows.Close()

	var ways []*way.Way
	for rows.Next() {
		var (
			id      int64
			tagsRaw string
			geomRaw []byte
		)
		if err := rows.Scan(&id, &tagsRaw, &geomRaw); err != nil {
			return nil, fmt.Errorf("mapsource: scan way row: %w", err)
		}

		tagsMap := make(map[string]string)
		if err := json.Unmarshal([]byte(tagsRaw), &tagsMap); err != nil {
			return nil, fmt.Errorf("mapsource: decode tags for way %d: %w", id, err)
		}

		geom, err := wkb.Unmarshal(geomRaw)
		if err != nil {
			return nil, fmt.Errorf("mapsource: decode geometry for way %d: %w", id, err)
		}
		line, ok := geom.(orb.LineString)
		if !ok || len(line) < 2 {
			continue
		}

		coords := make([][2]float64, len(line))
		for i, pt := range line {
			coords[i] = [2]float64{pt[1], pt[0]} // lat, lon
		}

		ways = append(ways, way.New(id, coords, way.TagsFromMap(tagsMap)))
	}

	return ways, rows.Err()
}
