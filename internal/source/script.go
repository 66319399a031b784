package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fastpitchtools/fastpitch-events/internal/event"
	"github.com/fastpitchtools/fastpitch-events/internal/fetch"
	"github.com/tidwall/gjson"
)

// ScriptSite describes a site whose listing data ships inline in a script
// block rather than in markup or behind an endpoint. The block containing
// Marker is located, the array or object substring between the first and last
// matching bracket is cut out, and the result is parsed like a structured API
// response.
type ScriptSite struct {
	Name          string
	URL           string
	Sanction      string
	Marker        string
	ContainerKeys []string
	MapItem       func(item gjson.Result) event.RawRecord
}

type scriptAdapter struct {
	site    ScriptSite
	fetcher *fetch.Fetcher
}

// NewScriptAdapter builds an embedded-script adapter for one site.
func NewScriptAdapter(f *fetch.Fetcher, site ScriptSite) Adapter {
	return &scriptAdapter{site: site, fetcher: f}
}

func (a *scriptAdapter) Name() string { return a.site.Name }

func (a *scriptAdapter) Aliases() event.AliasTable { return event.DefaultAliases() }

func (a *scriptAdapter) Extract(ctx context.Context) ([]event.RawRecord, error) {
	body, err := a.fetcher.Fetch(ctx, a.site.URL, true)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", a.site.Name, err)
	}

	payload, err := inlinePayload(body, a.site.Marker)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.site.Name, err)
	}

	items, err := containerItems(payload, a.site.ContainerKeys)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.site.Name, err)
	}

	records := make([]event.RawRecord, 0, len(items))
	for _, item := range items {
		var raw event.RawRecord
		if a.site.MapItem != nil {
			raw = a.site.MapItem(item)
		} else {
			raw = flattenItem(item)
		}
		if raw == nil {
			continue
		}
		raw["sanction"] = a.site.Sanction
		records = append(records, raw)
	}

	return records, nil
}

// inlinePayload scans the document's script blocks for the marker and returns
// the bounded structured payload from the first block carrying it.
func inlinePayload(body, marker string) (string, error) {
	if marker == "" {
		return "", ErrMarkerNotFound
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parsing page: %w", err)
	}

	var payload string
	var payloadErr error
	found := false

	doc.Find("script").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		text := sel.Text()
		if !strings.Contains(text, marker) {
			return true
		}
		found = true
		payload, payloadErr = boundedPayload(text)
		return false
	})

	if !found {
		return "", ErrMarkerNotFound
	}
	if payloadErr != nil {
		return "", payloadErr
	}
	return payload, nil
}

// boundedPayload cuts the substring delimited by the first opening bracket and
// the last matching closing bracket, preferring whichever of '{' or '[' opens
// first, and validates that the cut parses as structured data.
func boundedPayload(text string) (string, error) {
	objStart := strings.IndexByte(text, '{')
	arrStart := strings.IndexByte(text, '[')

	start, closer := objStart, byte('}')
	if objStart < 0 || (arrStart >= 0 && arrStart < objStart) {
		start, closer = arrStart, ']'
	}
	if start < 0 {
		return "", ErrMalformedPayload
	}

	end := strings.LastIndexByte(text, closer)
	if end <= start {
		return "", ErrMalformedPayload
	}

	payload := text[start : end+1]
	if !gjson.Valid(payload) {
		return "", ErrMalformedPayload
	}
	return payload, nil
}
