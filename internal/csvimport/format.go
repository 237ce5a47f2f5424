package csvimport

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ErrInvalidFormat is returned when neither metadata nor a recognizable
// header is present, or a mandatory column is missing.
type ErrInvalidFormat struct {
	Reason string
}

func (e *ErrInvalidFormat) Error() string {
	return fmt.Sprintf("csvimport: invalid format: %s", e.Reason)
}

// metadata is the key=value line preceding the header in format 2.x files
// (and optionally earlier ones).
type metadata map[string]string

// parseMetadataLine attempts to interpret a raw CSV line's first field as a
// URL-encoded query string, the way ImportMeasurementsCsv.read_csv calls
// urllib.parse.parse_qs(line[0], strict_parsing=True). A line without any
// "=" is not metadata; it's the header.
func parseMetadataLine(line []string) (metadata, bool) {
	if len(line) == 0 || !strings.Contains(line[0], "=") {
		return nil, false
	}
	values, err := url.ParseQuery(line[0])
	if err != nil || len(values) == 0 {
		return nil, false
	}
	m := make(metadata, len(values))
	for k, v := range values {
		if len(v) > 0 {
			m[k] = v[0]
		}
	}
	return m, true
}

func containsAll(header []string, cols ...string) bool {
	for _, c := range cols {
		if !contains(header, c) {
			return false
		}
	}
	return true
}

func contains(header []string, col string) bool {
	for _, h := range header {
		if h == col {
			return true
		}
	}
	return false
}

// identifyFormat mirrors ImportMeasurementsCsv.identify_format: metadata's
// OBSDataFormat wins if present, else the header shape decides between
// 1.0/1.1/1.2/1.3.
func identifyFormat(header []string, md metadata) (string, error) {
	if v, ok := md["OBSDataFormat"]; ok {
		return v, nil
	}

	switch {
	case containsAll(header, "Case", "Lid"):
		if !containsAll(header, "Course", "Speed") {
			return "1.0", nil
		}
		return "1.1", nil
	case containsAll(header, "Left", "Right"):
		if !contains(header, "insidePrivacyArea") {
			return "1.2", nil
		}
		return "1.3", nil
	default:
		return "", &ErrInvalidFormat{Reason: "unrecognized header, no Case/Lid or Left/Right columns"}
	}
}

func maximumMeasurementsPerLine(md metadata) (int, error) {
	raw, ok := md["MaximumMeasurementsPerLine"]
	if !ok {
		return 0, &ErrInvalidFormat{Reason: "format 2.x metadata missing MaximumMeasurementsPerLine"}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ErrInvalidFormat{Reason: "MaximumMeasurementsPerLine is not an integer: " + raw}
	}
	return n, nil
}
