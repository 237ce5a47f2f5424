// Package mapsource loads OSM ways in slippy-map tiles, either live from
// Overpass or from a locally mirrored SQLite table, and keeps track of which
// tiles have already been fetched so a long-running worker never re-asks
// for the same patch of map twice.
package mapsource

import "math"

// carHighways is the set of highway= values worth indexing for bicycle
// track matching: trunk roads down to service/track, but not footpaths or
// cycleways (those are matched separately, out of this spec's scope).
var carHighways = map[string]bool{
	"trunk":          true,
	"primary":        true,
	"secondary":      true,
	"tertiary":       true,
	"unclassified":   true,
	"residential":    true,
	"trunk_link":     true,
	"primary_link":   true,
	"secondary_link": true,
	"tertiary_link":  true,
	"living_street":  true,
	"service":        true,
	"track":          true,
	"road":           true,
}

// IsCarHighway reports whether a highway= tag value belongs to the set of
// road types this pipeline matches tracks against.
func IsCarHighway(highway string) bool {
	return carHighways[highway]
}

// tile identifies one slippy-map tile at a given zoom level.
type tile struct {
	Zoom, X, Y int
}

// latLonToTile converts a coordinate to the tile containing it at the given
// zoom, using the standard OSM slippy-map projection.
func latLonToTile(zoom int, lat, lon float64) (x, y int) {
	latRad := lat * math.Pi / 180
	n := math.Exp2(float64(zoom))
	x = int((lon + 180.0) / 360.0 * n)
	y = int((1.0 - math.Asinh(math.Tan(latRad))/math.Pi) / 2.0 * n)
	return x, y
}

// tileToLatLon returns the lat/lon of a tile's northwest corner.
func tileToLatLon(zoom, x, y int) (lat, lon float64) {
	n := math.Exp2(float64(zoom))
	lon = float64(x)/n*360.0 - 180.0
	latRad := math.Atan(math.Sinh(math.Pi * (1 - 2*float64(y)/n)))
	lat = latRad * 180 / math.Pi
	return lat, lon
}

// tileBound returns (south, west, north, east) for a tile, the bbox order
// Overpass QL expects.
func tileBound(zoom, x, y int) (south, west, north, east float64) {
	south, east = tileToLatLon(zoom, x+1, y+1)
	north, west = tileToLatLon(zoom, x, y)
	return south, west, north, east
}

// requiredTiles returns the set of distinct tiles covering the given points
// at the given zoom, skipping any point outside the valid lat/lon range.
func requiredTiles(zoom int, lats, lons []float64) []tile {
	seen := make(map[tile]bool)
	var out []tile
	for i := range lats {
		lat, lon := lats[i], lons[i]
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			continue
		}
		x, y := latLonToTile(zoom, lat, lon)
		t := tile{zoom, x, y}
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
