// Command obs-import-osm loads a §6 intermediate OSM binary stream (a
// MessagePack-encoded sequence of Road/Region records, typically produced
// by an out-of-band Overpass/.pbf extraction step) into the SQLite ways
// table obs-worker reads from, and prunes whatever a previous import left
// behind once the new one lands cleanly.
package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/openbikesensor/obs-core/internal/osmbinary"
	"github.com/openbikesensor/obs-core/internal/store"
)

func main() {
	dbPath := flag.String("db", "obs.sqlite3", "Path to the SQLite ways store")
	inputPath := flag.String("input", "", "Path to the MessagePack OSM binary stream (required)")
	group := flag.String("group", "", "Import group id; defaults to the current unix timestamp")
	prune := flag.Bool("prune", true, "Remove ways left behind by a previous import group after this one succeeds")
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("obs-import-osm: -input is required")
	}

	importGroup := *group
	if importGroup == "" {
		importGroup = strconv.FormatInt(time.Now().Unix(), 10)
	}

	db, err := sql.Open("sqlite", *dbPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer db.Close()

	if err := store.MigrateUp(db); err != nil {
		log.Fatalf("migrate store: %v", err)
	}

	f, err := os.Open(*inputPath)
	if err != nil {
		log.Fatalf("open input: %v", err)
	}
	defer f.Close()

	ctx := context.Background()
	start := time.Now()
	stats, err := osmbinary.Import(ctx, db, f, importGroup)
	if err != nil {
		log.Fatalf("import: %v", err)
	}
	log.Printf("imported %d roads (%d regions skipped, %d unrecognized records) as group %q in %s",
		stats.RoadsUpserted, stats.RegionsSkipped, stats.UnknownRecords, importGroup, time.Since(start).Round(time.Millisecond))

	if *prune {
		n, err := osmbinary.Prune(ctx, db, importGroup)
		if err != nil {
			log.Fatalf("prune: %v", err)
		}
		log.Printf("pruned %d stale way(s) from earlier import groups", n)
	}
}
