// Package library lists the available novel names from an external document
// export: a plain-text, newline-delimited listing source.
package library

import (
	"context"
	"fmt"
	"strings"
)

// Fetcher is the subset of the shared fetch client the library needs.
type Fetcher interface {
	FetchOnce(ctx context.Context, url string, skipVerify bool) (string, error)
}

// Client reads the novel listing.
type Client struct {
	fetcher   Fetcher
	exportURL string
}

// New builds a listing client for the given export URL.
func New(fetcher Fetcher, exportURL string) *Client {
	return &Client{fetcher: fetcher, exportURL: exportURL}
}

// Novels fetches the listing and returns the novel names in document order,
// trimmed, with blank lines dropped.
func (c *Client) Novels(ctx context.Context) ([]string, error) {
	if c.exportURL == "" {
		return nil, fmt.Errorf("no novel listing source configured")
	}

	text, err := c.fetcher.FetchOnce(ctx, c.exportURL, false)
	if err != nil {
		return nil, fmt.Errorf("fetch novel listing: %w", err)
	}

	var novels []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			novels = append(novels, line)
		}
	}
	return novels, nil
}
