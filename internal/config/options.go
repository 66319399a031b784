package config

import "github.com/fastpitchtools/fastpitch-events/internal/fetch"

// FetchOptions translates the configuration into fetcher options. Zero-valued
// tuning fields fall back to the fetcher's defaults.
func (c Config) FetchOptions() fetch.Options {
	return fetch.Options{
		RelayKey:      c.RelayKey,
		RelayRetries:  c.RelayRetries,
		DirectRetries: c.DirectRetries,
		RelayTimeout:  c.RelayTimeout,
		DirectTimeout: c.DirectTimeout,
	}
}
