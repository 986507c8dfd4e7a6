package ical

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"cabinbook/internal/domain/shared/daterange"
)

var ErrFeedNotConfigured = errors.New("ical: feed url not configured")

// FeedClient fetches and parses the upstream busy-calendar feed.
type FeedClient struct {
	Client *http.Client
	URL    string
}

// Fetch downloads the feed and returns its busy events converted to
// inclusive day ranges. The caller bounds the request through ctx; a timeout
// or deadline there aborts the transfer.
func (f *FeedClient) Fetch(ctx context.Context) ([]daterange.Range, error) {
	body, err := f.Raw(ctx)
	if err != nil {
		return nil, err
	}
	events := Parse(string(body))
	ranges := make([]daterange.Range, 0, len(events))
	for _, ev := range events {
		ranges = append(ranges, daterange.FromExclusiveEnd(ev.Start, ev.EndExclusive))
	}
	return ranges, nil
}

// Raw returns the feed body verbatim, for the pass-through proxy endpoint.
func (f *FeedClient) Raw(ctx context.Context) ([]byte, error) {
	if f == nil || f.URL == "" {
		return nil, ErrFeedNotConfigured
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("ical: upstream feed returned %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
