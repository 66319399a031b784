package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/fastpitchtools/fastpitch-events/internal/event"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteOutput writes the snapshot in the specified format
func WriteOutput(w io.Writer, snapshot *event.Snapshot, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, snapshot)
	case FormatText:
		return writeText(w, snapshot)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs the full snapshot as JSON
func writeJSON(w io.Writer, snapshot *event.Snapshot) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(snapshot)
}

// writeText outputs a human-readable summary grouped by sanction
func writeText(w io.Writer, snapshot *event.Snapshot) error {
	if snapshot.Count == 0 {
		fmt.Fprintln(w, "No events found.")
		return nil
	}

	bySanction := make(map[string]int)
	for _, evt := range snapshot.Events {
		bySanction[evt.Sanction]++
	}

	sanctions := make([]string, 0, len(bySanction))
	for sanction := range bySanction {
		sanctions = append(sanctions, sanction)
	}
	sort.Strings(sanctions)

	fmt.Fprintf(w, "Scraped %d events.\n", snapshot.Count)
	for _, sanction := range sanctions {
		fmt.Fprintf(w, "  %s: %d\n", sanction, bySanction[sanction])
	}

	return nil
}
