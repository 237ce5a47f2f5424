// Command obs-worker runs the C11 track-processing pool: it claims queued
// tracks from a SQLite-backed store, runs each through the C4→C9 pipeline,
// and writes GeoJSON/GPX artifacts plus overtaking-event and road-usage
// rows back to the store.
package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/openbikesensor/obs-core/internal/annotate"
	"github.com/openbikesensor/obs-core/internal/candidate"
	"github.com/openbikesensor/obs-core/internal/csvimport"
	"github.com/openbikesensor/obs-core/internal/filter"
	"github.com/openbikesensor/obs-core/internal/mapsource"
	"github.com/openbikesensor/obs-core/internal/store"
	"github.com/openbikesensor/obs-core/internal/wayindex"
	"github.com/openbikesensor/obs-core/internal/worker"
)

func main() {
	dbPath := flag.String("db", "obs.sqlite3", "Path to the SQLite track/way store")
	outputDir := flag.String("output-dir", "./output", "Directory to write per-track artifacts into")
	workers := flag.Int("workers", 4, "Number of concurrent track jobs")
	pollDelay := flag.Duration("poll-delay", 5*time.Second, "How long a worker sleeps after finding the queue empty")
	rightHandTraffic := flag.Bool("right-hand-traffic", true, "Whether recordings come from right-hand-traffic jurisdictions")
	pseudonymizeUsers := flag.Bool("pseudonymize-users", false, "Hash user_id in emitted artifacts")
	salt := flag.String("pseudonymization-salt", "", "Salt for hashed pseudonymization modes")
	flag.Parse()

	db, err := sql.Open("sqlite", *dbPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer db.Close()

	if err := store.MigrateUp(db); err != nil {
		log.Fatalf("migrate store: %v", err)
	}

	wayStore := wayindex.New()
	provider := mapsource.NewSQLiteProvider(db)
	tileLoader := mapsource.NewTileLoader(provider, wayStore)

	deps := worker.Dependencies{
		WayStore:         wayStore,
		TileLoader:       tileLoader,
		CSVOptions:       csvimport.Options{RightHandTraffic: *rightHandTraffic, CaseIsLeft: true},
		CandidateOptions: candidate.DefaultOptions(),
		AnnotateOptions:  annotate.Options{},
		OutputDir:        *outputDir,
	}

	if *pseudonymizeUsers {
		p, err := filter.NewPseudonymization(filter.ModeHashed, filter.ModeKeep, *salt)
		if err != nil {
			log.Fatalf("configure pseudonymization: %v", err)
		}
		deps.Pseudonymizer = p
	}

	pool := worker.NewPool(*workers, store.NewSQLiteStore(db), deps, *pollDelay)

	ctx, cancel := context.WithCancel(context.Background())
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-stop
		log.Printf("received %s, waiting for in-flight tracks to finish...", sig)
		cancel()
	}()

	log.Printf("obs-worker: %d workers against %s, writing to %s", *workers, *dbPath, *outputDir)
	if err := pool.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("worker pool stopped: %v", err)
	}
	log.Println("obs-worker: shut down cleanly")
}
