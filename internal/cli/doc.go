// Package cli wires the scraping pipeline into the fastpitch-scrape command:
// flag handling, configuration, a single aggregation run, persistence, and
// text or JSON output.
package cli
