package source

import (
	"strings"

	"github.com/fastpitchtools/fastpitch-events/internal/event"
	"github.com/fastpitchtools/fastpitch-events/internal/fetch"
	"github.com/tidwall/gjson"
)

// Site endpoints. USSSA exposes the fastpitch search endpoint its own site
// calls; the rest are scraped listing pages.
const (
	USSSAEndpoint        = "https://usssa.com/api/tournaments/searchFastpitch"
	USSSATournamentBase  = "https://usssa.com/tournament/"
	USFAURL              = "https://usfastpitch.com/tournaments"
	PGFURL               = "https://pgfusa.com/tournaments"
	BullpenURL           = "https://play.bullpentournaments.com/events"
	SoftballConnectedURL = "https://softballconnected.com/tournaments"
)

// DefaultAdapters returns the production source set in registration order.
// Aggregation output concatenates in this order, so it is part of the
// contract of a run.
func DefaultAdapters(f *fetch.Fetcher) []Adapter {
	return []Adapter{
		NewAPIAdapter(f, USSSA()),
		NewSelectorAdapter(f, USFA()),
		NewSelectorAdapter(f, PGF()),
		NewSelectorAdapter(f, Bullpen()),
		NewSelectorAdapter(f, SoftballConnected()),
	}
}

// USSSA blocks datacenter IPs, so its endpoint is fetched relay-preferred.
// The container key and record field spellings have all shifted historically;
// the alias lists cover every shape seen so far.
func USSSA() APISite {
	return APISite{
		Name:          "usssa",
		URL:           USSSAEndpoint,
		Sanction:      "USSSA",
		ContainerKeys: []string{"tournaments", "Items", "items"},
		Marker:        "tournaments",
		MapItem:       usssaItem,
	}
}

// usssaItem maps one USSSA tournament item to a raw record. The listing link
// is synthesized from the tournament ID because the API omits a URL.
func usssaItem(item gjson.Result) event.RawRecord {
	raw := event.RawRecord{}

	if name := firstResult(item, "name", "Name", "TournamentName"); name != "" {
		raw["event_name"] = name
	}
	if start := firstResult(item, "startDate", "StartDate", "Start"); start != "" {
		raw["start_date"] = start
	}
	if end := firstResult(item, "endDate", "EndDate"); end != "" {
		raw["end_date"] = end
	}

	city := firstResult(item, "city", "City")
	state := firstResult(item, "state", "State")
	if location := strings.Trim(city+", "+state, ", "); location != "" {
		raw["location"] = location
	}

	if id := firstResult(item, "tournamentID", "TournamentID", "id"); id != "" {
		raw["link"] = USSSATournamentBase + id
	} else if link := firstResult(item, "link"); link != "" {
		raw["link"] = link
	}

	return raw
}

// firstResult returns the first non-empty value among the keys.
func firstResult(item gjson.Result, keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(item.Get(key).String()); value != "" {
			return value
		}
	}
	return ""
}

// USFA lists tournaments as cards. The date field is a single combined range
// string, so it feeds both start and end dates.
func USFA() SelectorSite {
	dates := []string{".date", ".dates", ".t-date"}
	return SelectorSite{
		Name:     "usfa",
		URL:      USFAURL,
		Sanction: "USFA",
		Containers: []string{
			".tournament-card",
			".card.tournament",
			".event",
			".tournaments-list .tournament",
		},
		Fields: []FieldSelectors{
			{Key: "event_name", Selectors: []string{".title", "h3", "a"}},
			{Key: "start_date", Selectors: dates},
			{Key: "end_date", Selectors: dates},
			{Key: "location", Selectors: []string{".location", ".place", ".t-location"}},
			{Key: "link", Selectors: []string{"a"}, Attr: "href"},
		},
	}
}

func PGF() SelectorSite {
	dates := []string{".t-date", ".date"}
	return SelectorSite{
		Name:     "pgf",
		URL:      PGFURL,
		Sanction: "PGF",
		Containers: []string{
			".tourney-box",
			".tournament",
			".event-card",
			".t-list-item",
		},
		Fields: []FieldSelectors{
			{Key: "event_name", Selectors: []string{".t-title", "h3", ".title"}},
			{Key: "start_date", Selectors: dates},
			{Key: "end_date", Selectors: dates},
			{Key: "location", Selectors: []string{".t-loc", ".location"}},
			{Key: "link", Selectors: []string{"a"}, Attr: "href"},
		},
	}
}

// Bullpen sometimes presents events as a plain table, so "table tr" closes
// the container fallback chain.
func Bullpen() SelectorSite {
	dates := []string{".dates", ".date", "td.date"}
	return SelectorSite{
		Name:     "bullpen",
		URL:      BullpenURL,
		Sanction: "Bullpen",
		Containers: []string{
			".event-row",
			".event",
			".event-card",
			"table tr",
		},
		Fields: []FieldSelectors{
			{Key: "event_name", Selectors: []string{".name", "h3", "td a"}},
			{Key: "start_date", Selectors: dates},
			{Key: "end_date", Selectors: dates},
			{Key: "location", Selectors: []string{".location", "td.location"}},
			{Key: "link", Selectors: []string{"a"}, Attr: "href"},
		},
	}
}

func SoftballConnected() SelectorSite {
	dates := []string{".date", ".dates"}
	return SelectorSite{
		Name:     "softballconnected",
		URL:      SoftballConnectedURL,
		Sanction: "Softball Connected",
		Containers: []string{
			".tournament-card",
			".card",
			".tournament",
		},
		Fields: []FieldSelectors{
			{Key: "event_name", Selectors: []string{".title", "h3", ".name"}},
			{Key: "start_date", Selectors: dates},
			{Key: "end_date", Selectors: dates},
			{Key: "location", Selectors: []string{".location", ".place"}},
			{Key: "link", Selectors: []string{"a"}, Attr: "href"},
		},
	}
}
