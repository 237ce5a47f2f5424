package filter

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"log"
	"strings"

	"github.com/openbikesensor/obs-core/internal/track"
)

// AnonymizationMode selects how a pseudonymizable field is treated.
type AnonymizationMode string

const (
	ModeKeep   AnonymizationMode = "keep"
	ModeRemove AnonymizationMode = "remove"
	ModeHashed AnonymizationMode = "hashed"
)

// ErrMissingSalt is returned when a hashed mode is requested without a salt.
var ErrMissingSalt = errors.New("pseudonymization: hashed mode requires a non-empty salt")

// Pseudonymization replaces or removes user_id/measurement_id according to
// the configured modes.
type Pseudonymization struct {
	UserIDMode        AnonymizationMode
	MeasurementIDMode AnonymizationMode
	Salt              string
}

// NewPseudonymization validates that hashed modes have a salt.
func NewPseudonymization(userMode, measurementMode AnonymizationMode, salt string) (*Pseudonymization, error) {
	if (userMode == ModeHashed || measurementMode == ModeHashed) && salt == "" {
		return nil, ErrMissingSalt
	}
	return &Pseudonymization{UserIDMode: userMode, MeasurementIDMode: measurementMode, Salt: salt}, nil
}

func (p *Pseudonymization) Apply(samples []track.Sample, logger *log.Logger) []track.Sample {
	out := make([]track.Sample, len(samples))
	for i, s := range samples {
		switch p.UserIDMode {
		case ModeHashed:
			s.UserID = "user_" + hashHalf(p.Salt, s.UserID)
		case ModeRemove:
			s.UserID = ""
		case ModeKeep:
		}

		switch p.MeasurementIDMode {
		case ModeHashed:
			s.MeasurementID = hashMeasurementID(p.Salt, s.MeasurementID)
		case ModeRemove:
			s.MeasurementID = ""
		case ModeKeep:
		}

		out[i] = s
	}
	logRemoved(logger, "pseudonymization", len(samples), len(out))
	return out
}

// hashMeasurementID hashes only the dataset-id portion (before the last
// ':'), keeping the per-row line suffix intact so individual rows stay
// distinguishable without identifying the dataset.
func hashMeasurementID(salt, measurementID string) string {
	ix := strings.LastIndex(measurementID, ":")
	if ix == -1 {
		return hashHalf(salt, measurementID)
	}
	return hashHalf(salt, measurementID[:ix]) + measurementID[ix:]
}

// hashHalf returns the first half of hex-sha512(salt || value), per spec.
func hashHalf(salt, value string) string {
	sum := sha512.Sum512([]byte(salt + value))
	full := hex.EncodeToString(sum[:])
	return full[:len(full)/2]
}
