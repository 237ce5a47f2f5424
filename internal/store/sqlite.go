package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/openbikesensor/obs-core/internal/track"
)

// SQLiteStore is a modernc.org/sqlite-backed TrackStore. SQLite has no
// `SELECT ... FOR UPDATE SKIP LOCKED`; a `BEGIN IMMEDIATE` transaction takes
// the database's single reserved-write lock up front, so two goroutines
// racing ClaimNext serialize on the lock rather than both claiming the same
// row. That gives the same at-most-once-claim guarantee SKIP LOCKED would,
// for the single-process worker pool this store serves.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) ClaimNext(ctx context.Context) (*track.Record, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: acquire conn: %w", err)
	}
	defer conn.Close()

	// BEGIN IMMEDIATE takes the write lock immediately rather than on
	// first write, so a second claimant blocks here instead of racing
	// the UPDATE below. database/sql's own BeginTx has no hook for the
	// IMMEDIATE keyword, so the transaction is driven by hand on a
	// single pinned connection.
	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return nil, fmt.Errorf("store: begin immediate: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			conn.ExecContext(ctx, "ROLLBACK")
		}
	}()

	var rec track.Record
	var status string
	var queuedAt, recordedAt, recordedUntil sql.NullTime
	row := conn.QueryRowContext(ctx, `
		SELECT id, slug, author_id, status, processing_queued_at,
		       recorded_at, recorded_until, duration_s, length_m, segments,
		       num_events, num_measurements, num_valid,
		       original_file_path, file_sha512
		FROM tracks
		WHERE status = ?
		ORDER BY processing_queued_at ASC
		LIMIT 1`, track.StatusQueued)

	if err := row.Scan(&rec.ID, &rec.Slug, &rec.AuthorID, &status, &queuedAt,
		&recordedAt, &recordedUntil, &rec.DurationS, &rec.LengthM, &rec.Segments,
		&rec.NumEvents, &rec.NumMeasurements, &rec.NumValid,
		&rec.OriginalFilePath, &rec.FileSHA512); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNoTrackQueued
		}
		return nil, fmt.Errorf("store: claim scan: %w", err)
	}

	if _, err := conn.ExecContext(ctx, `UPDATE tracks SET status = ? WHERE id = ? AND status = ?`,
		track.StatusProcessing, rec.ID, track.StatusQueued); err != nil {
		return nil, fmt.Errorf("store: claim update: %w", err)
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return nil, fmt.Errorf("store: claim commit: %w", err)
	}
	committed = true

	rec.Status = track.StatusProcessing
	if queuedAt.Valid {
		rec.ProcessingQueuedAt = queuedAt.Time
	}
	if recordedAt.Valid {
		rec.RecordedAt = recordedAt.Time
	}
	if recordedUntil.Valid {
		rec.RecordedUntil = recordedUntil.Time
	}
	return &rec, nil
}

func (s *SQLiteStore) Release(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE tracks SET status = ? WHERE id = ? AND status = ?`,
		track.StatusQueued, id, track.StatusProcessing)
	if err != nil {
		return fmt.Errorf("store: release: %w", err)
	}
	return checkRowAffected(res)
}

func (s *SQLiteStore) CommitSuccess(ctx context.Context, id int64, stats track.Record, events []track.OvertakingEvent, usage []track.RoadUsageSegment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin commit tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE tracks SET
			status = ?, processing_log = '',
			recorded_at = ?, recorded_until = ?, duration_s = ?, length_m = ?,
			segments = ?, num_events = ?, num_measurements = ?, num_valid = ?
		WHERE id = ? AND status = ?`,
		track.StatusComplete, stats.RecordedAt, stats.RecordedUntil, stats.DurationS, stats.LengthM,
		stats.Segments, stats.NumEvents, stats.NumMeasurements, stats.NumValid,
		id, track.StatusProcessing)
	if err != nil {
		return fmt.Errorf("store: commit success update: %w", err)
	}
	if err := checkRowAffected(res); err != nil {
		return err
	}

	// Clear then reinsert: re-running the same track must produce an
	// identical event set, not an ever-growing one.
	if _, err := tx.ExecContext(ctx, `DELETE FROM overtaking_events WHERE track_id = ?`, id); err != nil {
		return fmt.Errorf("store: clear events: %w", err)
	}

	for _, ev := range events {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO overtaking_events (
				track_id, hex_hash, way_id, has_way_id, direction_reversed,
				latitude, longitude, time, distance_overtaker, distance_stationary,
				course, speed
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, ev.HexHash, ev.WayID, ev.HasWayID, ev.DirectionReversed,
			ev.Lat, ev.Lon, ev.Time, nullableFloat(ev.HasDistanceOvertaker, ev.DistanceOvertaker),
			nullableFloat(ev.HasDistanceStationary, ev.DistanceStationary),
			nullableFloat(ev.HasCourse, ev.Course), nullableFloat(ev.HasSpeed, ev.Speed),
		); err != nil {
			return fmt.Errorf("store: insert event %s: %w", ev.HexHash, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM road_usage WHERE track_id = ?`, id); err != nil {
		return fmt.Errorf("store: clear road usage: %w", err)
	}

	for _, u := range usage {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO road_usage (
				track_id, hex_hash, way_id, direction_reversed, start_time, end_time, length_m
			) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, u.HexHash, u.WayID, u.Direction == 1, u.StartTime, u.EndTime, u.LengthM,
		); err != nil {
			return fmt.Errorf("store: insert road usage %s: %w", u.HexHash, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit success: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CommitError(ctx context.Context, id int64, message string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tracks SET status = ?, processing_log = ? WHERE id = ? AND status = ?`,
		track.StatusError, message, id, track.StatusProcessing)
	if err != nil {
		return fmt.Errorf("store: commit error: %w", err)
	}
	return checkRowAffected(res)
}

func (s *SQLiteStore) Enqueue(ctx context.Context, rec track.Record) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tracks (slug, author_id, status, processing_queued_at, original_file_path, file_sha512)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Slug, rec.AuthorID, track.StatusQueued, rec.ProcessingQueuedAt, rec.OriginalFilePath, rec.FileSHA512)
	if err != nil {
		return 0, fmt.Errorf("store: enqueue: %w", err)
	}
	return res.LastInsertId()
}

func checkRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: rows affected: %w", err)
	}
	if n == 0 {
		return ErrStoreConflict
	}
	return nil
}

func nullableFloat(has bool, v float64) interface{} {
	if !has {
		return nil
	}
	return v
}
