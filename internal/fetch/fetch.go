package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fastpitchtools/fastpitch-events/internal/logger"
)

const (
	// DefaultUserAgent mimics a desktop browser; several upstream sites block
	// obvious bot agents outright.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/120.0 Safari/537.36"

	DefaultRelayRetries  = 3
	DefaultDirectRetries = 2
	DefaultRelayTimeout  = 30 * time.Second
	DefaultDirectTimeout = 20 * time.Second
	DefaultRelayBackoff  = 1 * time.Second
	DefaultDirectBackoff = 800 * time.Millisecond
)

// Kind classifies why a fetch attempt, or an entire fetch, failed.
type Kind string

const (
	KindNoCredential Kind = "no_credential"
	KindNetwork      Kind = "network"
	KindBadStatus    Kind = "bad_status"
	KindEmptyBody    Kind = "empty_body"
	KindExhausted    Kind = "exhausted"
)

// Error is the result of a failed fetch. Attempts counts every try across the
// relay and direct paths; Err holds the last underlying failure.
type Error struct {
	URL      string
	Kind     Kind
	Attempts int
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s failed after %d attempts (%s): %v", e.URL, e.Attempts, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch %s failed after %d attempts (%s)", e.URL, e.Attempts, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Options configures a Fetcher. The zero value is usable: no relay credential
// means direct-only fetching with the default retry policy.
type Options struct {
	// RelayKey is the relay service credential. Empty disables the relay path;
	// direct retrieval still runs.
	RelayKey string
	// RelayBaseURL overrides the relay endpoint, used by tests.
	RelayBaseURL string
	// RelayRetries and DirectRetries are total attempt counts per path.
	RelayRetries  int
	DirectRetries int
	// Per-attempt timeouts. A timed-out attempt counts as a failed attempt.
	RelayTimeout  time.Duration
	DirectTimeout time.Duration
	// Initial backoff delays; each subsequent attempt doubles the delay and
	// adds bounded random jitter.
	RelayBackoff  time.Duration
	DirectBackoff time.Duration
	UserAgent     string
}

func (o Options) withDefaults() Options {
	if o.RelayBaseURL == "" {
		o.RelayBaseURL = DefaultRelayBaseURL
	}
	if o.RelayRetries <= 0 {
		o.RelayRetries = DefaultRelayRetries
	}
	if o.DirectRetries <= 0 {
		o.DirectRetries = DefaultDirectRetries
	}
	if o.RelayTimeout <= 0 {
		o.RelayTimeout = DefaultRelayTimeout
	}
	if o.DirectTimeout <= 0 {
		o.DirectTimeout = DefaultDirectTimeout
	}
	if o.RelayBackoff <= 0 {
		o.RelayBackoff = DefaultRelayBackoff
	}
	if o.DirectBackoff <= 0 {
		o.DirectBackoff = DefaultDirectBackoff
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	return o
}

// Fetcher retrieves URL bodies, preferring a relay service when credentialed
// and falling back to direct retrieval. It never panics; every failure is
// retried or reported as an *Error.
type Fetcher struct {
	opts         Options
	relayClient  *http.Client
	directClient *http.Client
}

// New creates a Fetcher from options, applying defaults for unset fields.
func New(opts Options) *Fetcher {
	opts = opts.withDefaults()
	return &Fetcher{
		opts:         opts,
		relayClient:  &http.Client{Timeout: opts.RelayTimeout},
		directClient: &http.Client{Timeout: opts.DirectTimeout},
	}
}

// RelayEnabled reports whether a relay credential is configured.
func (f *Fetcher) RelayEnabled() bool { return f.opts.RelayKey != "" }

// Fetch retrieves the body at targetURL. When a relay credential is configured
// and preferRelay is set, the relay path is tried first with its own retry
// budget; on exhaustion the direct path runs with a separate budget. The first
// non-empty successful body wins. An *Error is returned only after every
// attempt on both paths has failed.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string, preferRelay bool) (string, error) {
	attempts := 0

	if preferRelay && f.RelayEnabled() {
		body, n, err := f.retryLoop(ctx, targetURL, f.opts.RelayRetries, f.opts.RelayBackoff, f.relayAttempt)
		attempts += n
		if err == nil {
			return body, nil
		}
		logger.Warn("relay fetch exhausted, falling back to direct", logger.Fields{
			"url":      targetURL,
			"attempts": n,
		})
		logger.IncrCounter("fetch.relay.exhausted")
	} else if preferRelay {
		logger.Debug("no relay credential configured, fetching direct", logger.Fields{"url": targetURL})
	}

	body, n, err := f.retryLoop(ctx, targetURL, f.opts.DirectRetries, f.opts.DirectBackoff, f.directAttempt)
	attempts += n
	if err == nil {
		return body, nil
	}

	var kind Kind = KindExhausted
	var last error
	if fe, ok := err.(*Error); ok {
		kind = fe.Kind
		last = fe.Err
	} else {
		last = err
	}
	return "", &Error{URL: targetURL, Kind: kind, Attempts: attempts, Err: last}
}

// retryLoop runs one attempt function under exponential backoff until it
// succeeds or the attempt budget is spent. It returns the attempt count along
// with the outcome.
func (f *Fetcher) retryLoop(ctx context.Context, targetURL string, retries int, base time.Duration, attempt func(ctx context.Context, targetURL string) (string, *Error)) (string, int, error) {
	var body string
	var lastErr *Error
	n := 0

	op := func() error {
		n++
		b, aerr := attempt(ctx, targetURL)
		if aerr != nil {
			lastErr = aerr
			logger.Warn("fetch attempt failed", logger.Fields{
				"url":     targetURL,
				"attempt": n,
				"kind":    string(aerr.Kind),
			})
			logger.IncrCounter("fetch.attempt.failures")
			return aerr
		}
		body = b
		return nil
	}

	bo := backoff.WithContext(newBackOff(base), ctx)
	err := backoff.Retry(op, backoff.WithMaxRetries(bo, uint64(retries-1)))
	if err != nil {
		if lastErr != nil {
			return "", n, lastErr
		}
		return "", n, err
	}
	return body, n, nil
}

// newBackOff builds the shared retry policy: delay doubling from base with
// bounded random jitter and no overall deadline (the attempt budget bounds
// the loop instead).
func newBackOff(base time.Duration) *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = base
	bo.Multiplier = 2
	bo.RandomizationFactor = 0.5
	bo.MaxInterval = 2 * time.Minute
	bo.MaxElapsedTime = 0
	return bo
}

// directAttempt performs one plain GET against the target URL.
func (f *Fetcher) directAttempt(ctx context.Context, targetURL string) (string, *Error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", &Error{URL: targetURL, Kind: KindNetwork, Err: err}
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	return f.do(f.directClient, req, targetURL)
}

// do executes a request and applies the shared success criteria: 2xx status
// and a non-empty body.
func (f *Fetcher) do(client *http.Client, req *http.Request, targetURL string) (string, *Error) {
	start := time.Now()
	resp, err := client.Do(req)
	logger.RecordTiming("fetch.attempt", time.Since(start))
	if err != nil {
		return "", &Error{URL: targetURL, Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return "", &Error{URL: targetURL, Kind: KindBadStatus, Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{URL: targetURL, Kind: KindNetwork, Err: err}
	}
	if len(body) == 0 {
		return "", &Error{URL: targetURL, Kind: KindEmptyBody, Err: fmt.Errorf("empty response body")}
	}
	return string(body), nil
}
