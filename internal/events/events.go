// Package events appends run records to an event log so rewritten
// graphs can be inspected after the fact. Records are msgpack framed,
// one after another, and identified by a run id.
package events

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/l3aro/go-frame-rewrite/pkg/graph"
)

// Record is one rewrite run: identity, timing, size deltas and the
// resulting graph.
type Record struct {
	ID               string       `msgpack:"id"`
	WallTime         int64        `msgpack:"wall_time"`
	Source           string       `msgpack:"source,omitempty"`
	NodesBefore      int          `msgpack:"nodes_before"`
	NodesAfter       int          `msgpack:"nodes_after"`
	Iterations       int          `msgpack:"iterations"`
	TransformedCalls int          `msgpack:"transformed_calls"`
	Graph            *graph.Graph `msgpack:"graph,omitempty"`
}

// NewRecord stamps a fresh record with a run id and the current time.
func NewRecord(source string) *Record {
	return &Record{
		ID:       uuid.NewString(),
		WallTime: time.Now().Unix(),
		Source:   source,
	}
}

// Writer appends records to an event log file.
type Writer struct {
	path string
}

// NewWriter creates a writer for the given log path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Append encodes the record onto the end of the log.
func (w *Writer) Append(rec *Record) error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open event log %s: %w", w.path, err)
	}
	defer f.Close()

	if err := msgpack.NewEncoder(f).Encode(rec); err != nil {
		return fmt.Errorf("failed to append event record: %w", err)
	}
	return nil
}

// ReadAll decodes every record in the log, oldest first.
func ReadAll(path string) ([]*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open event log %s: %w", path, err)
	}
	defer f.Close()

	var records []*Record
	dec := msgpack.NewDecoder(f)
	for {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to decode event record: %w", err)
		}
		records = append(records, &rec)
	}
	return records, nil
}
