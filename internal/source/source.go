package source

import (
	"context"
	"errors"

	"github.com/fastpitchtools/fastpitch-events/internal/event"
)

// Extraction failure causes. Every adapter converts these into an empty yield
// at the aggregation boundary; they exist so the controller can tell a failed
// source apart from one that legitimately listed nothing.
var (
	// ErrNoMatch means no candidate selector matched any element.
	ErrNoMatch = errors.New("no candidate selector matched")
	// ErrUnrecognizedShape means a structured payload had none of the known
	// container keys.
	ErrUnrecognizedShape = errors.New("unrecognized payload shape")
	// ErrMarkerNotFound means no script block carried the inline data marker.
	ErrMarkerNotFound = errors.New("inline data marker not found")
	// ErrMalformedPayload means a payload was found but could not be parsed.
	ErrMalformedPayload = errors.New("malformed inline payload")
)

// Adapter extracts raw records from one upstream tournament site. Extract
// returns the records in page order; on any failure it returns a nil or empty
// slice together with the cause — it never panics and never returns partial
// garbage.
type Adapter interface {
	// Name is the short source identifier used in logs and metrics.
	Name() string
	// Aliases is the table mapping this adapter's raw keys onto the canonical
	// schema.
	Aliases() event.AliasTable
	// Extract fetches the source and extracts its raw records.
	Extract(ctx context.Context) ([]event.RawRecord, error)
}
