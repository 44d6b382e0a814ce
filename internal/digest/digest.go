// Package digest renders a customer's aggregated records into the bounded
// text block embedded in the recommendation prompt.
package digest

import (
	"fmt"
	"strings"

	"github.com/tavanbogd/nextaction/internal/dataset"
)

// maxRecordsPerBlock bounds each block to the most recent rows by source order.
const maxRecordsPerBlock = 10

// DatasetRecords pairs one registry entry with its filtered rows.
type DatasetRecords struct {
	Label   string
	Source  string
	Records []dataset.Record
}

// Context is the per-request aggregation across all registry datasets,
// in registry order.
type Context []DatasetRecords

// Empty reports whether every dataset yielded zero records.
func (c Context) Empty() bool {
	for _, ds := range c {
		if len(ds.Records) > 0 {
			return false
		}
	}
	return true
}

// Build renders the digest. Datasets with zero records contribute no block.
// Output is byte-deterministic for identical input.
func Build(c Context) string {
	var b strings.Builder
	for _, ds := range c {
		if len(ds.Records) == 0 {
			continue
		}
		records := ds.Records
		if len(records) > maxRecordsPerBlock {
			records = records[len(records)-maxRecordsPerBlock:]
		}
		fmt.Fprintf(&b, "\n[%s - %s]\n", ds.Label, ds.Source)
		for i, rec := range records {
			fmt.Fprintf(&b, "%d. %s\n", i+1, renderRecord(rec))
		}
	}
	return b.String()
}

func renderRecord(rec dataset.Record) string {
	parts := make([]string, 0, len(rec))
	for _, f := range rec {
		parts = append(parts, f.Column+": "+f.Value)
	}
	return strings.Join(parts, ", ")
}
