// Package fetch issues HTTP GETs against target novel sites through a
// shared, long-lived connection pool, with per-attempt identity rotation.
package fetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"

	"github.com/akshat6745/audiobook-fullstack/metrics"
)

// HeaderSource supplies a fresh outbound header set per attempt.
type HeaderSource interface {
	Headers() http.Header
}

// Options controls one Fetch call.
type Options struct {
	// Attempts bounds the serial retry loop. Zero means DefaultAttempts.
	Attempts int
	// SkipTLSVerify selects the non-verifying transport. Callers decide
	// this per target site, not the fetcher.
	SkipTLSVerify bool
}

// DefaultAttempts is the retry bound used when Options.Attempts is zero.
const DefaultAttempts = 3

// Client is the process-wide fetcher. Both underlying transports are built
// once and shared by all concurrent calls; nothing is mutated after New.
type Client struct {
	verifying *http.Client
	insecure  *http.Client

	verifyingTransport *http.Transport
	insecureTransport  *http.Transport

	headers HeaderSource
	metrics *metrics.Metrics
	log     *slog.Logger
}

// New builds the shared fetcher. The transports are tuned for connection
// reuse and wrapped with the cloudflare bypass round tripper.
func New(headers HeaderSource, timeout time.Duration, m *metrics.Metrics, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	verifyingTransport := newTransport(false)
	insecureTransport := newTransport(true)

	return &Client{
		verifying: &http.Client{
			Timeout:   timeout,
			Transport: cloudflarebp.AddCloudFlareByPass(verifyingTransport),
		},
		insecure: &http.Client{
			Timeout:   timeout,
			Transport: cloudflarebp.AddCloudFlareByPass(insecureTransport),
		},
		verifyingTransport: verifyingTransport,
		insecureTransport:  insecureTransport,
		headers:            headers,
		metrics:            m,
		log:                log,
	}
}

func newTransport(skipVerify bool) *http.Transport {
	t := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxConnsPerHost:     100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		ForceAttemptHTTP2:   true,
	}
	if skipVerify {
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return t
}

// FetchOnce performs exactly one attempt with a fresh identity. Any transport
// error or non-2xx status is returned as a *TransientError.
func (c *Client) FetchOnce(ctx context.Context, url string, skipVerify bool) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &TransientError{URL: url, Err: err}
	}
	if c.headers != nil {
		req.Header = c.headers.Headers()
	}

	client := c.verifying
	if skipVerify {
		client = c.insecure
	}

	start := time.Now()
	resp, err := client.Do(req)
	c.metrics.ObserveFetchDuration(time.Since(start))
	if err != nil {
		c.metrics.IncFetchAttempt("failure")
		return "", &TransientError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.IncFetchAttempt("failure")
		return "", &TransientError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.IncFetchAttempt("failure")
		return "", &TransientError{URL: url, Err: err}
	}

	c.metrics.IncFetchAttempt("success")
	return string(body), nil
}

// Fetch runs the bounded serial retry loop around FetchOnce. Retries are
// deliberately not fanned out: parallel identical requests would amplify
// load and defeat identity rotation. Per-attempt failures are logged, not
// returned; the caller sees one aggregated error.
func (c *Client) Fetch(ctx context.Context, url string, opts Options) (string, error) {
	attempts := opts.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		body, err := c.FetchOnce(ctx, url, opts.SkipTLSVerify)
		if err == nil {
			return body, nil
		}
		c.log.Warn("fetch attempt failed",
			slog.String("url", url),
			slog.Int("attempt", attempt),
			slog.Any("error", err),
		)
		if ctx.Err() != nil {
			break
		}
	}

	return "", fmt.Errorf("fetch %s: all %d attempts failed", url, attempts)
}

// Close releases pooled connections. Call once at shutdown.
func (c *Client) Close() {
	c.verifyingTransport.CloseIdleConnections()
	c.insecureTransport.CloseIdleConnections()
}
