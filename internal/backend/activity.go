package backend

import (
	"context"
	"net/url"
)

// Activity returns audit log entries, optionally filtered by query.
func (c *Client) Activity(ctx context.Context, id *Identity, query string) ([]ActivityEntry, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	var result []ActivityEntry
	if err := c.getJSON(ctx, "activity.list", queryPath("/activity", params), id, &result); err != nil {
		return nil, err
	}
	return result, nil
}
