package worker

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"time"
)

// eventHexHash mirrors the original importer's positional hash variant
// (sha256 over packed latitude, longitude, unix-timestamp), which the spec
// prescribes over the alternative track_id-based variant because two events
// recorded in the same second of one track still get distinct hashes when
// their positions differ.
func eventHexHash(lat, lon float64, t time.Time) string {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, lat)
	binary.Write(&buf, binary.BigEndian, lon)
	binary.Write(&buf, binary.BigEndian, uint64(t.Unix()))
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:])
}

// roadUsageHexHash hashes a road-usage segment by way id and its midpoint
// time, grounded on the original's import_road_usages.
func roadUsageHexHash(wayID int64, mid time.Time) string {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, wayID)
	binary.Write(&buf, binary.BigEndian, uint64(mid.Unix()))
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:])
}
