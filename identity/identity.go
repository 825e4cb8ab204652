// Package identity produces plausible, varying browser header sets for
// outbound requests. Rotation is a best-effort evasion aid: when no dynamic
// user-agent pool is available the rotator falls back to a built-in list and
// never fails the request.
package identity

import (
	"net/http"
	"sync"

	browser "github.com/EDDYCJY/fake-useragent"
)

// fallbackAgents is used whenever the dynamic pool yields nothing. The list
// is small but realistic; entries rotate round-robin so consecutive requests
// still vary.
var fallbackAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36 Edg/123.0.2420.81",
}

// Rotator supplies a fresh header set per call.
type Rotator struct {
	source func() string

	mu   sync.Mutex
	next int
}

// NewRotator returns a Rotator backed by the fake-useragent pool.
func NewRotator() *Rotator {
	return &Rotator{source: randomAgent}
}

// NewRotatorWithSource returns a Rotator drawing user agents from source.
// A source returning "" triggers the built-in fallback pool.
func NewRotatorWithSource(source func() string) *Rotator {
	return &Rotator{source: source}
}

func randomAgent() (ua string) {
	// fake-useragent populates its pool from the network on first use;
	// treat any failure as an empty result.
	defer func() {
		if recover() != nil {
			ua = ""
		}
	}()
	return browser.Random()
}

// UserAgent returns the next user-agent string, varying across calls.
func (r *Rotator) UserAgent() string {
	if r.source != nil {
		if ua := r.source(); ua != "" {
			return ua
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	ua := fallbackAgents[r.next%len(fallbackAgents)]
	r.next++
	return ua
}

// Headers returns a complete navigation header set with a fresh user agent.
func (r *Rotator) Headers() http.Header {
	h := http.Header{}
	h.Set("User-Agent", r.UserAgent())
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	// Accept-Encoding is left to the transport: net/http only decompresses
	// gzip transparently when it negotiated the encoding itself.
	h.Set("Connection", "keep-alive")
	h.Set("Upgrade-Insecure-Requests", "1")
	h.Set("Sec-Fetch-Dest", "document")
	h.Set("Sec-Fetch-Mode", "navigate")
	h.Set("Sec-Fetch-Site", "none")
	h.Set("Cache-Control", "no-cache")
	h.Set("Pragma", "no-cache")
	return h
}
