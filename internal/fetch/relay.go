package fetch

import (
	"context"

	"github.com/dghubble/sling"
)

// DefaultRelayBaseURL is the relay/proxy service endpoint. HTTPS is required
// by the service.
const DefaultRelayBaseURL = "https://api.scraperapi.com"

// relayParams is the relay service query contract: the credential, the target
// URL, US geo-targeting for better results, client-side rendering, and header
// passthrough.
type relayParams struct {
	APIKey      string `url:"api_key"`
	URL         string `url:"url"`
	Country     string `url:"country"`
	Render      bool   `url:"render"`
	KeepHeaders bool   `url:"keep_headers"`
}

// relayAttempt performs one GET through the relay service for the target URL.
func (f *Fetcher) relayAttempt(ctx context.Context, targetURL string) (string, *Error) {
	req, err := sling.New().
		Base(f.opts.RelayBaseURL).
		QueryStruct(&relayParams{
			APIKey:      f.opts.RelayKey,
			URL:         targetURL,
			Country:     "us",
			Render:      true,
			KeepHeaders: true,
		}).
		Request()
	if err != nil {
		return "", &Error{URL: targetURL, Kind: KindNetwork, Err: err}
	}
	req = req.WithContext(ctx)
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Connection", "keep-alive")

	return f.do(f.relayClient, req, targetURL)
}
