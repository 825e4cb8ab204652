package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaders_CompleteSet(t *testing.T) {
	r := NewRotatorWithSource(func() string { return "test-agent" })

	h := r.Headers()

	assert.Equal(t, "test-agent", h.Get("User-Agent"))
	for _, key := range []string{
		"Accept",
		"Accept-Language",
		"Connection",
		"Upgrade-Insecure-Requests",
		"Sec-Fetch-Dest",
		"Sec-Fetch-Mode",
		"Sec-Fetch-Site",
		"Cache-Control",
		"Pragma",
	} {
		assert.NotEmpty(t, h.Get(key), "header %s should be set", key)
	}
}

func TestHeaders_NoAcceptEncoding(t *testing.T) {
	// Setting Accept-Encoding explicitly disables net/http's transparent
	// gzip decoding, so the header set must never carry it.
	r := NewRotatorWithSource(func() string { return "test-agent" })

	assert.Empty(t, r.Headers().Get("Accept-Encoding"))
}

func TestUserAgent_FallbackRotates(t *testing.T) {
	// An empty dynamic pool must not fail the request; the built-in pool
	// takes over and still varies across calls.
	r := NewRotatorWithSource(func() string { return "" })

	seen := map[string]bool{}
	for i := 0; i < len(fallbackAgents); i++ {
		ua := r.UserAgent()
		require.NotEmpty(t, ua)
		seen[ua] = true
	}

	assert.Len(t, seen, len(fallbackAgents), "fallback pool should rotate through distinct agents")
}

func TestUserAgent_PrefersDynamicSource(t *testing.T) {
	calls := 0
	r := NewRotatorWithSource(func() string {
		calls++
		return "dynamic-agent"
	})

	assert.Equal(t, "dynamic-agent", r.UserAgent())
	assert.Equal(t, "dynamic-agent", r.UserAgent())
	assert.Equal(t, 2, calls, "source should be consulted per call")
}
