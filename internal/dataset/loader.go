package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// customerColumn is matched literally against the header row.
const customerColumn = "customer_id"

// Field is one projected column of a source row.
type Field struct {
	Column string
	Value  string
}

// Record is a single source row after projection, in whitelist order.
// Columns absent from the source row are omitted, never null-filled.
type Record []Field

// Load reads the spec's CSV under dir, filters rows to the given customer
// identifier and projects each row to the family whitelist.
//
// Filtering is string equality on the raw cell. When the source has no
// customer_id column, every row passes through unfiltered. Any read or
// parse failure is returned to the caller; the aggregation step decides
// whether it is fatal.
func Load(dir string, spec Spec, customerID string) ([]Record, error) {
	f, err := os.Open(filepath.Join(dir, spec.SourceFile))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", spec.SourceFile, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	// Sources are exported by hand from several systems; ragged rows are
	// expected and handled during projection.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", spec.SourceFile, err)
	}

	customerIdx := -1
	columnIdx := make(map[string]int, len(header))
	for i, name := range header {
		if _, seen := columnIdx[name]; !seen {
			columnIdx[name] = i
		}
		if name == customerColumn && customerIdx < 0 {
			customerIdx = i
		}
	}

	whitelist := spec.Family.Columns()
	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", spec.SourceFile, err)
		}
		if customerIdx >= 0 {
			if customerIdx >= len(row) || row[customerIdx] != customerID {
				continue
			}
		}
		records = append(records, project(row, columnIdx, whitelist))
	}
	return records, nil
}

// project restricts a row to the whitelist columns present in the source,
// preserving whitelist order.
func project(row []string, columnIdx map[string]int, whitelist []string) Record {
	rec := make(Record, 0, len(whitelist))
	for _, col := range whitelist {
		idx, ok := columnIdx[col]
		if !ok || idx >= len(row) {
			continue
		}
		rec = append(rec, Field{Column: col, Value: row[idx]})
	}
	return rec
}
