package csvimport

// headerIndex maps a CSV column name to its position, built once per file.
type headerIndex struct {
	cols map[string]int
}

func newHeaderIndex(header []string) headerIndex {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	return headerIndex{cols: cols}
}

func (h headerIndex) has(name string) bool {
	_, ok := h.cols[name]
	return ok
}

func (h headerIndex) hasAll(names ...string) bool {
	for _, n := range names {
		if !h.has(n) {
			return false
		}
	}
	return true
}

// field reads column `name` from `row`, returning "" if the column isn't
// present in this file's header or the row is short (ragged line).
func (h headerIndex) field(row []string, name string) string {
	i, ok := h.cols[name]
	if !ok || i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
