package event

import (
	"strconv"
	"strings"
)

// AliasTable maps each canonical field to an ordered list of raw key names.
// Lookups take the first key present with a non-empty value, so historically
// used field names stay supported without branching logic: adding a source is
// a data change, not a code change.
type AliasTable struct {
	EventName    []string
	StartDate    []string
	EndDate      []string
	Location     []string
	Sanction     []string
	Link         []string
	AgeDivisions []string
}

// DefaultAliases covers the key spellings seen across every source to date.
// Adapters that emit canonical keys directly normalize through this table.
func DefaultAliases() AliasTable {
	return AliasTable{
		EventName:    []string{"event_name", "name", "Name"},
		StartDate:    []string{"start_date", "startDate", "StartDate"},
		EndDate:      []string{"end_date", "endDate", "EndDate"},
		Location:     []string{"location", "Location", "city"},
		Sanction:     []string{"sanction", "source"},
		Link:         []string{"link", "url", "link_url"},
		AgeDivisions: []string{"age_divisions", "age"},
	}
}

// Normalize maps a raw record onto the canonical schema using the table's
// alias order. It is total: any record, including nil, yields a valid event
// with every scalar field populated (real value or NA) and a non-nil
// age-division list.
func Normalize(raw RawRecord, aliases AliasTable) CanonicalEvent {
	return CanonicalEvent{
		EventName:    firstString(raw, aliases.EventName),
		StartDate:    firstString(raw, aliases.StartDate),
		EndDate:      firstString(raw, aliases.EndDate),
		Location:     firstString(raw, aliases.Location),
		Sanction:     firstString(raw, aliases.Sanction),
		Link:         firstString(raw, aliases.Link),
		AgeDivisions: firstStrings(raw, aliases.AgeDivisions),
	}
}

// firstString returns the first non-empty value among the aliased keys, or NA.
func firstString(raw RawRecord, keys []string) string {
	for _, key := range keys {
		if s := stringValue(raw[key]); s != "" {
			return s
		}
	}
	return NA
}

// firstStrings returns the first non-empty list among the aliased keys, or an
// empty list. A bare string value counts as a single-element list.
func firstStrings(raw RawRecord, keys []string) []string {
	for _, key := range keys {
		value, ok := raw[key]
		if !ok {
			continue
		}
		var out []string
		switch v := value.(type) {
		case []string:
			for _, item := range v {
				if s := strings.TrimSpace(item); s != "" {
					out = append(out, s)
				}
			}
		case []any:
			for _, item := range v {
				if s := stringValue(item); s != "" {
					out = append(out, s)
				}
			}
		default:
			if s := stringValue(value); s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return []string{}
}

// stringValue renders a raw value as a trimmed string. JSON decoding hands
// numbers over as float64, and sources have shipped numeric IDs and ages, so
// numbers are formatted rather than dropped.
func stringValue(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
