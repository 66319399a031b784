package event

import "time"

// NA is the sentinel stored in any canonical scalar field for which no source
// value could be found. Scalar fields are never empty.
const NA = "N/A"

// Header lists the six canonical scalar fields in the order they appear in
// tabular exports.
var Header = []string{"event_name", "start_date", "end_date", "location", "sanction", "link"}

// CanonicalEvent is the normalized record shape every source is mapped into.
// Each scalar field holds either a real value or NA, never the empty string,
// so every event produces a uniform tabular row.
type CanonicalEvent struct {
	EventName    string   `json:"event_name"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Location     string   `json:"location"`
	Sanction     string   `json:"sanction"`
	Link         string   `json:"link"`
	AgeDivisions []string `json:"age_divisions"`
}

// Row returns the six scalar fields in Header order.
func (e CanonicalEvent) Row() []string {
	return []string{e.EventName, e.StartDate, e.EndDate, e.Location, e.Sanction, e.Link}
}

// RawRecord is the heterogeneous key/value shape one adapter extraction
// produces. Records live only until normalized; adapters never share them.
type RawRecord map[string]any

// Snapshot is the complete output of one aggregation run. Each run's snapshot
// fully supersedes the previous one; no history is kept.
type Snapshot struct {
	Count      int              `json:"count"`
	Events     []CanonicalEvent `json:"events"`
	CapturedAt time.Time        `json:"captured_at"`
}

// NewSnapshot returns an empty snapshot with a non-nil event list.
func NewSnapshot() *Snapshot {
	return &Snapshot{Events: []CanonicalEvent{}}
}

// CreateSnapshot builds a snapshot from an ordered event list, stamping the
// capture time.
func CreateSnapshot(events []CanonicalEvent) *Snapshot {
	if events == nil {
		events = []CanonicalEvent{}
	}
	return &Snapshot{
		Count:      len(events),
		Events:     events,
		CapturedAt: time.Now().UTC(),
	}
}
