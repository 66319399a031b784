package source

import (
	"context"
	"errors"
	"testing"

	"github.com/fastpitchtools/fastpitch-events/internal/event"
)

func TestScriptAdapterExtract(t *testing.T) {
	srv := serveHTML(t, `<html><body>
<script>analytics.init();</script>
<script>
var schedule = {"events":[
  {"name":"Night Owl Shootout","startDate":"2026-07-18","city":"Boise"},
  {"name":"Lakeside Open","startDate":"2026-08-01","city":"Coeur d'Alene"}
]};
</script>
</body></html>`)

	site := ScriptSite{
		Name:          "inline",
		URL:           srv.URL,
		Sanction:      "TEST",
		Marker:        "schedule",
		ContainerKeys: []string{"events"},
	}
	adapter := NewScriptAdapter(testFetcher(), site)

	raws, err := adapter.Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(raws) != 2 {
		t.Fatalf("expected 2 records, got %d", len(raws))
	}

	first := event.Normalize(raws[0], adapter.Aliases())
	if first.EventName != "Night Owl Shootout" {
		t.Errorf("unexpected name: %q", first.EventName)
	}
	if first.Location != "Boise" {
		t.Errorf("unexpected location: %q", first.Location)
	}
	if first.Sanction != "TEST" {
		t.Errorf("unexpected sanction: %q", first.Sanction)
	}
}

func TestScriptAdapterMarkerAbsent(t *testing.T) {
	srv := serveHTML(t, `<html><body><script>var other = 1;</script></body></html>`)

	site := ScriptSite{
		Name:          "inline",
		URL:           srv.URL,
		Sanction:      "TEST",
		Marker:        "schedule",
		ContainerKeys: []string{"events"},
	}

	raws, err := NewScriptAdapter(testFetcher(), site).Extract(context.Background())
	if !errors.Is(err, ErrMarkerNotFound) {
		t.Fatalf("expected ErrMarkerNotFound, got %v", err)
	}
	if len(raws) != 0 {
		t.Errorf("expected no records, got %d", len(raws))
	}
}

func TestBoundedPayload(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr error
	}{
		{
			name: "object payload",
			text: `var data = {"events":[1,2]};`,
			want: `{"events":[1,2]}`,
		},
		{
			name: "array payload",
			text: `schedule.load([{"a":1},{"a":2}]);`,
			want: `[{"a":1},{"a":2}]`,
		},
		{
			name: "array opens before object",
			text: `init([{"a":1}], {"flag":true});`,
			want: `[{"a":1}]`,
		},
		{
			name:    "no brackets",
			text:    `var x = 1;`,
			wantErr: ErrMalformedPayload,
		},
		{
			name:    "unbalanced",
			text:    `var data = {"events":[1,2`,
			wantErr: ErrMalformedPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := boundedPayload(tt.text)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v (payload %q)", tt.wantErr, err, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("boundedPayload failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("boundedPayload = %q, want %q", got, tt.want)
			}
		})
	}
}
