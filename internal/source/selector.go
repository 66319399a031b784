package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fastpitchtools/fastpitch-events/internal/event"
	"github.com/fastpitchtools/fastpitch-events/internal/fetch"
	"github.com/fastpitchtools/fastpitch-events/internal/logger"
)

// FieldSelectors maps one raw record key to an ordered list of candidate
// sub-selectors tried within a matched container. When Attr is set the
// attribute value is taken instead of the element text.
type FieldSelectors struct {
	Key       string
	Selectors []string
	Attr      string
}

// SelectorSite describes a site scraped by CSS selection. Containers is an
// ordered fallback chain: the first selector yielding a non-empty match set
// wins, so a markup change upstream degrades to the next candidate instead of
// breaking the source.
type SelectorSite struct {
	Name       string
	URL        string
	Sanction   string
	Containers []string
	Fields     []FieldSelectors
}

type selectorAdapter struct {
	site    SelectorSite
	fetcher *fetch.Fetcher
}

// NewSelectorAdapter builds a selector-based adapter for one site.
func NewSelectorAdapter(f *fetch.Fetcher, site SelectorSite) Adapter {
	return &selectorAdapter{site: site, fetcher: f}
}

func (a *selectorAdapter) Name() string { return a.site.Name }

func (a *selectorAdapter) Aliases() event.AliasTable { return event.DefaultAliases() }

func (a *selectorAdapter) Extract(ctx context.Context) ([]event.RawRecord, error) {
	body, err := a.fetcher.Fetch(ctx, a.site.URL, true)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", a.site.Name, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing %s HTML: %w", a.site.Name, err)
	}

	containers, selector := firstMatch(doc, a.site.Containers)
	if containers == nil {
		return nil, fmt.Errorf("%s: %w", a.site.Name, ErrNoMatch)
	}
	logger.Debug("container selector matched", logger.Fields{
		"source":   a.site.Name,
		"selector": selector,
		"matches":  containers.Length(),
	})

	records := make([]event.RawRecord, 0, containers.Length())
	containers.Each(func(i int, sel *goquery.Selection) {
		raw := event.RawRecord{}
		for _, field := range a.site.Fields {
			if value := firstField(sel, field); value != "" {
				raw[field.Key] = value
			}
		}
		raw["sanction"] = a.site.Sanction
		records = append(records, raw)
	})

	return records, nil
}

// firstMatch walks the candidate chain and returns the first non-empty match
// set along with the selector that produced it.
func firstMatch(doc *goquery.Document, candidates []string) (*goquery.Selection, string) {
	for _, candidate := range candidates {
		if sel := doc.Find(candidate); sel.Length() > 0 {
			return sel, candidate
		}
	}
	return nil, ""
}

// firstField tries each candidate sub-selector within a container and returns
// the first non-empty text or attribute value.
func firstField(container *goquery.Selection, field FieldSelectors) string {
	for _, candidate := range field.Selectors {
		target := container.Find(candidate).First()
		if target.Length() == 0 {
			continue
		}
		if field.Attr != "" {
			if value, ok := target.Attr(field.Attr); ok && strings.TrimSpace(value) != "" {
				return strings.TrimSpace(value)
			}
			continue
		}
		if text := strings.TrimSpace(target.Text()); text != "" {
			return text
		}
	}
	return ""
}
