// Package tts is a pass-through client for the external audio synthesis
// service. The extraction engine neither calls nor is called by it.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Request is the synthesis payload.
type Request struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// Client posts text to the synthesis endpoint and streams the audio back.
type Client struct {
	http         *http.Client
	endpoint     string
	defaultVoice string
}

// New builds a synthesis client. Synthesis of long chapters is slow, so the
// timeout is generous.
func New(endpoint, defaultVoice string) *Client {
	return &Client{
		http:         &http.Client{Timeout: 2 * time.Minute},
		endpoint:     endpoint,
		defaultVoice: defaultVoice,
	}
}

// DefaultVoice returns the voice used when the caller specifies none.
func (c *Client) DefaultVoice() string {
	return c.defaultVoice
}

// Synthesize converts text to speech. The returned reader streams the audio
// bytes; the caller owns closing it. An empty voice selects the default.
func (c *Client) Synthesize(ctx context.Context, text, voice string) (io.ReadCloser, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("no synthesis endpoint configured")
	}
	if voice == "" {
		voice = c.defaultVoice
	}

	payload, err := json.Marshal(Request{Text: text, Voice: voice})
	if err != nil {
		return nil, fmt.Errorf("encode synthesis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesis request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("synthesis service returned HTTP %d", resp.StatusCode)
	}

	return resp.Body, nil
}
