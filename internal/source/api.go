package source

import (
	"context"
	"fmt"

	"github.com/fastpitchtools/fastpitch-events/internal/event"
	"github.com/fastpitchtools/fastpitch-events/internal/fetch"
	"github.com/fastpitchtools/fastpitch-events/internal/logger"
	"github.com/tidwall/gjson"
)

// APISite describes a site exposing a structured endpoint. ContainerKeys is
// the ordered alias set of historically used record-container names; the first
// key present wins, and a bare top-level array is accepted as-is. When the
// endpoint answers with HTML instead of JSON (relay services sometimes render
// the page), the adapter falls back to scanning script blocks for the inline
// payload identified by Marker.
type APISite struct {
	Name          string
	URL           string
	Sanction      string
	ContainerKeys []string
	Marker        string
	// MapItem converts one container item into a raw record. Nil flattens the
	// item's top-level keys unchanged.
	MapItem func(item gjson.Result) event.RawRecord
}

type apiAdapter struct {
	site    APISite
	fetcher *fetch.Fetcher
}

// NewAPIAdapter builds a structured-API adapter for one site.
func NewAPIAdapter(f *fetch.Fetcher, site APISite) Adapter {
	return &apiAdapter{site: site, fetcher: f}
}

func (a *apiAdapter) Name() string { return a.site.Name }

func (a *apiAdapter) Aliases() event.AliasTable { return event.DefaultAliases() }

func (a *apiAdapter) Extract(ctx context.Context) ([]event.RawRecord, error) {
	body, err := a.fetcher.Fetch(ctx, a.site.URL, true)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", a.site.Name, err)
	}

	payload := body
	if !gjson.Valid(body) {
		// Relay responses occasionally wrap the data in a rendered page.
		payload, err = inlinePayload(body, a.site.Marker)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", a.site.Name, err)
		}
		logger.Debug("recovered inline payload from rendered page", logger.Fields{
			"source": a.site.Name,
			"bytes":  len(payload),
		})
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

// containerItems locates the record list inside a structured payload: a bare
// array is used directly, an object is probed with the container-key aliases
// in order, anything else is an unrecognized shape.
func containerItems(payload string, containerKeys []string) ([]gjson.Result, error) {
	parsed := gjson.Parse(payload)

	if parsed.IsArray() {
		return parsed.Array(), nil
	}

	if parsed.IsObject() {
		for _, key := range containerKeys {
			value := parsed.Get(key)
			if !value.Exists() {
				continue
			}
			if value.IsArray() {
				return value.Array(), nil
			}
		}
	}

	return nil, ErrUnrecognizedShape
}

// flattenItem copies an object item's top-level keys into a raw record.
func flattenItem(item gjson.Result) event.RawRecord {
	if !item.IsObject() {
		return nil
	}
	raw := event.RawRecord{}
	item.ForEach(func(key, value gjson.Result) bool {
		raw[key.String()] = value.Value()
		return true
	})
	return raw
}
