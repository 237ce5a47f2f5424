package csvimport

import (
	"bufio"
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/openbikesensor/obs-core/internal/track"
)

// rowParser converts one data row into a Sample, given a stable user and
// measurement id.
type rowParser interface {
	Parse(row []string, userID, measurementID string) (track.Sample, bool)
}

// Result is everything C4 produces for one file.
type Result struct {
	Samples  []track.Sample
	Stats    Stats
	FormatID string
}

// Import reads one OBS measurement CSV (optionally gzip-compressed) and
// returns its kept samples plus file statistics. measurementIDPrefix is
// combined with the 1-based line number to build each sample's
// measurement_id, mirroring dataset_id + ":" + line_count.
func Import(r io.Reader, userID, measurementIDPrefix string, opts Options) (*Result, error) {
	br := bufio.NewReader(r)
	peek, err := br.Peek(2)
	if err == nil && len(peek) == 2 && peek[0] == 0x1f && peek[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, &ErrInvalidFormat{Reason: "corrupt gzip stream: " + err.Error()}
		}
		defer gz.Close()
		return importPlain(gz, userID, measurementIDPrefix, opts)
	}
	return importPlain(br, userID, measurementIDPrefix, opts)
}

func importPlain(r io.Reader, userID, measurementIDPrefix string, opts Options) (*Result, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1 // tolerate ragged lines; header-index lookups guard out-of-range access

	var (
		md       metadata
		mdSeen   bool
		header   []string
		parser   rowParser
		formatID string
		samples  []track.Sample
		lineNum  int
	)

	for {
		line, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ErrInvalidFormat{Reason: fmt.Sprintf("malformed CSV at line %d: %v", lineNum+1, err)}
		}
		lineNum++

		if parser == nil {
			if !mdSeen {
				mdSeen = true
				if m, ok := parseMetadataLine(line); ok {
					md = m
					continue
				}
				md = metadata{}
			}

			header = line
			id, err := identifyFormat(header, md)
			if err != nil {
				return nil, err
			}
			formatID = id

			switch id {
			case "1.0", "1.1", "1.2", "1.3":
				parser, err = newRowParserV1(newHeaderIndex(header), id, opts)
			case "2":
				if _, merr := maximumMeasurementsPerLine(md); merr != nil {
					return nil, merr
				}
				parser, err = newRowParserV2(newHeaderIndex(header), opts)
			default:
				return nil, &ErrInvalidFormat{Reason: "unsupported OBSDataFormat " + id}
			}
			if err != nil {
				return nil, err
			}
			continue
		}

		measurementID := fmt.Sprintf("%s:%d", measurementIDPrefix, lineNum)
		sample, keep := parser.Parse(line, userID, measurementID)
		if !keep {
			continue
		}

		if opts.CorrectGPSTime {
			sample.Time = gpsToUTC(sample.Time)
		}

		samples = append(samples, sample)
	}

	if parser == nil {
		return nil, &ErrInvalidFormat{Reason: "file contains no header row"}
	}

	return &Result{
		Samples:  samples,
		Stats:    computeStatistics(samples),
		FormatID: formatID,
	}, nil
}
