package track

import "time"

// Status is the processing lifecycle state of a Record, read and written
// atomically by the worker pool (C11).
type Status string

const (
	StatusCreated    Status = "created"
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusComplete   Status = "complete"
	StatusError      Status = "error"
)

// Record is the external track entity the worker pool claims and updates:
// an opaque identity plus denormalized stats derived from the last
// successful run.
type Record struct {
	ID       int64
	Slug     string
	AuthorID string
	Status   Status

	ProcessingQueuedAt time.Time
	ProcessingLog      string

	RecordedAt    time.Time
	RecordedUntil time.Time
	DurationS     float64
	LengthM       float64
	Segments      int
	NumEvents     int
	NumMeasurements int
	NumValid      int

	OriginalFilePath string
	FileSHA512       string
}
