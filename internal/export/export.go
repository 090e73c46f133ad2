// Package export serializes lookup results to JSON and CSV files.
//
// Both formats are lossless projections of a lookup.Result: every
// requested record type appears, either with its normalized entries or
// with an explicit status marker, together with the domain and the
// capture timestamp. A consumer can reconstruct the full outcome set
// without re-querying.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jroosing/hydradig/internal/lookup"
)

// Options controls serialization details.
type Options struct {
	// JSONIndent is the number of spaces per indent level (0 = compact).
	JSONIndent int
	// CSVDelimiter separates CSV fields; defaults to ','.
	CSVDelimiter rune
	// IncludeTimestamp adds the capture timestamp to the output.
	IncludeTimestamp bool
}

// DefaultOptions matches the default config file settings.
func DefaultOptions() Options {
	return Options{JSONIndent: 2, CSVDelimiter: ',', IncludeTimestamp: true}
}

// Document is the exported JSON shape.
type Document struct {
	Domain    string                    `json:"domain"`
	Timestamp *time.Time                `json:"timestamp,omitempty"`
	Records   map[string]lookup.Outcome `json:"records"`
}

// NewDocument projects a Result into the export shape.
func NewDocument(res lookup.Result, opts Options) Document {
	doc := Document{
		Domain:  res.Domain.String(),
		Records: make(map[string]lookup.Outcome, len(res.Outcomes)),
	}
	if opts.IncludeTimestamp {
		ts := res.Time
		doc.Timestamp = &ts
	}
	for rt, outcome := range res.Outcomes {
		doc.Records[string(rt)] = outcome
	}
	return doc
}

// WriteJSON writes the result as a JSON document.
func WriteJSON(w io.Writer, res lookup.Result, opts Options) error {
	enc := json.NewEncoder(w)
	if opts.JSONIndent > 0 {
		enc.SetIndent("", strings.Repeat(" ", opts.JSONIndent))
	}
	if err := enc.Encode(NewDocument(res, opts)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// WriteCSV writes the result flattened to one row per record-type/entry
// pair. Types without data get a single row carrying the status marker.
func WriteCSV(w io.Writer, res lookup.Result, opts Options) error {
	cw := csv.NewWriter(w)
	if opts.CSVDelimiter != 0 {
		cw.Comma = opts.CSVDelimiter
	}

	header := []string{"Record Type", "Value", "Additional Info"}
	if opts.IncludeTimestamp {
		header = append(header, "Timestamp")
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	ts := res.Time.Format(time.RFC3339)
	writeRow := func(rtype lookup.RecordType, value, info string) error {
		row := []string{string(rtype), value, info}
		if opts.IncludeTimestamp {
			row = append(row, ts)
		}
		return cw.Write(row)
	}

	for _, rt := range res.Types {
		outcome := res.Outcomes[rt]
		if outcome.Status != lookup.StatusSuccess {
			info := string(outcome.Status)
			if outcome.Err != "" {
				info += ": " + outcome.Err
			}
			if err := writeRow(rt, "", info); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
			continue
		}
		for _, entry := range outcome.Entries {
			if err := writeRow(rt, entry.Value, entryInfo(rt, entry)); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveJSON writes the JSON document to a file.
func SaveJSON(path string, res lookup.Result, opts Options) error {
	return saveFile(path, res, opts, WriteJSON)
}

// SaveCSV writes the flattened CSV to a file.
func SaveCSV(path string, res lookup.Result, opts Options) error {
	return saveFile(path, res, opts, WriteCSV)
}

func saveFile(path string, res lookup.Result, opts Options, write func(io.Writer, lookup.Result, Options) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f, res, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// entryInfo renders the type-specific extra column of an entry.
func entryInfo(rtype lookup.RecordType, e lookup.Entry) string {
	switch rtype {
	case lookup.TypeMX:
		return fmt.Sprintf("Priority: %d", e.Priority)
	case lookup.TypeSOA:
		if e.SOA != nil {
			return fmt.Sprintf("Serial: %d", e.SOA.Serial)
		}
	}
	return ""
}
