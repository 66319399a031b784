package event

import (
	"reflect"
	"testing"
)

func TestNormalizeAliasOrder(t *testing.T) {
	tests := []struct {
		name string
		raw  RawRecord
		want CanonicalEvent
	}{
		{
			name: "canonical keys pass through",
			raw: RawRecord{
				"event_name": "Spring Slam",
				"start_date": "2026-04-10",
				"end_date":   "2026-04-12",
				"location":   "Mesa, AZ",
				"sanction":   "USSSA",
				"link":       "https://example.com/t/1",
			},
			want: CanonicalEvent{
				EventName:    "Spring Slam",
				StartDate:    "2026-04-10",
				EndDate:      "2026-04-12",
				Location:     "Mesa, AZ",
				Sanction:     "USSSA",
				Link:         "https://example.com/t/1",
				AgeDivisions: []string{},
			},
		},
		{
			name: "camelCase and PascalCase aliases",
			raw: RawRecord{
				"Name":      "Summer Classic",
				"startDate": "2026-06-01",
				"EndDate":   "2026-06-02",
				"city":      "Tulsa",
				"url":       "https://example.com/t/2",
			},
			want: CanonicalEvent{
				EventName:    "Summer Classic",
				StartDate:    "2026-06-01",
				EndDate:      "2026-06-02",
				Location:     "Tulsa",
				Sanction:     NA,
				Link:         "https://example.com/t/2",
				AgeDivisions: []string{},
			},
		},
		{
			name: "earlier alias wins over later",
			raw: RawRecord{
				"event_name": "Preferred",
				"name":       "Ignored",
				"link":       "https://example.com/a",
				"url":        "https://example.com/b",
			},
			want: CanonicalEvent{
				EventName:    "Preferred",
				StartDate:    NA,
				EndDate:      NA,
				Location:     NA,
				Sanction:     NA,
				Link:         "https://example.com/a",
				AgeDivisions: []string{},
			},
		},
		{
			name: "empty values skipped in favor of later aliases",
			raw: RawRecord{
				"event_name": "   ",
				"name":       "Fallback Cup",
			},
			want: CanonicalEvent{
				EventName:    "Fallback Cup",
				StartDate:    NA,
				EndDate:      NA,
				Location:     NA,
				Sanction:     NA,
				Link:         NA,
				AgeDivisions: []string{},
			},
		},
		{
			name: "empty record is all sentinels",
			raw:  RawRecord{},
			want: CanonicalEvent{
				EventName:    NA,
				StartDate:    NA,
				EndDate:      NA,
				Location:     NA,
				Sanction:     NA,
				Link:         NA,
				AgeDivisions: []string{},
			},
		},
		{
			name: "nil record is all sentinels",
			raw:  nil,
			want: CanonicalEvent{
				EventName:    NA,
				StartDate:    NA,
				EndDate:      NA,
				Location:     NA,
				Sanction:     NA,
				Link:         NA,
				AgeDivisions: []string{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw, DefaultAliases())
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalizeScalarFieldsNeverEmpty(t *testing.T) {
	records := []RawRecord{
		nil,
		{},
		{"unrelated": "value"},
		{"name": "", "url": "", "city": ""},
		{"event_name": "Real", "start_date": 20260410.0},
		{"Name": true, "age": 12},
	}

	for i, raw := range records {
		evt := Normalize(raw, DefaultAliases())
		for j, field := range evt.Row() {
			if field == "" {
				t.Errorf("record %d: scalar field %q is empty", i, Header[j])
			}
		}
		if evt.AgeDivisions == nil {
			t.Errorf("record %d: age divisions should never be nil", i)
		}
	}
}

func TestNormalizeAgeDivisions(t *testing.T) {
	tests := []struct {
		name string
		raw  RawRecord
		want []string
	}{
		{"string slice", RawRecord{"age_divisions": []string{"10U", "12U"}}, []string{"10U", "12U"}},
		{"decoded JSON slice", RawRecord{"age_divisions": []any{"14U", "16U"}}, []string{"14U", "16U"}},
		{"numeric elements", RawRecord{"age_divisions": []any{float64(12), float64(14)}}, []string{"12", "14"}},
		{"bare string via age alias", RawRecord{"age": "18U"}, []string{"18U"}},
		{"absent", RawRecord{}, []string{}},
		{"empty slice falls through to alias", RawRecord{"age_divisions": []any{}, "age": "8U"}, []string{"8U"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw, DefaultAliases())
			if !reflect.DeepEqual(got.AgeDivisions, tt.want) {
				t.Errorf("AgeDivisions = %v, want %v", got.AgeDivisions, tt.want)
			}
		})
	}
}

func TestCreateSnapshot(t *testing.T) {
	events := []CanonicalEvent{
		{EventName: "A", StartDate: NA, EndDate: NA, Location: NA, Sanction: NA, Link: NA},
		{EventName: "B", StartDate: NA, EndDate: NA, Location: NA, Sanction: NA, Link: NA},
	}

	snap := CreateSnapshot(events)
	if snap.Count != 2 {
		t.Errorf("expected count 2, got %d", snap.Count)
	}
	if snap.CapturedAt.IsZero() {
		t.Error("expected captured_at to be stamped")
	}
	if snap.Events[0].EventName != "A" || snap.Events[1].EventName != "B" {
		t.Error("expected event order to be preserved")
	}

	empty := CreateSnapshot(nil)
	if empty.Count != 0 || empty.Events == nil {
		t.Errorf("expected empty snapshot with non-nil events, got %+v", empty)
	}
}
