package backend

import (
	"context"
	"fmt"
	"net/url"
)

// ListOpportunities returns the rep's pipeline.
func (c *Client) ListOpportunities(ctx context.Context, id *Identity) ([]Opportunity, error) {
	var result []Opportunity
	if err := c.getJSON(ctx, "opportunities.list", "/opportunities", id, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetOpportunity fetches one pipeline entry.
func (c *Client) GetOpportunity(ctx context.Context, id *Identity, opportunityID int64) (*Opportunity, error) {
	var result Opportunity
	path := fmt.Sprintf("/opportunities/%d", opportunityID)
	if err := c.getJSON(ctx, "opportunities.get", path, id, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AddOpportunity creates a pipeline entry.
func (c *Client) AddOpportunity(ctx context.Context, id *Identity, opp Opportunity) (*Opportunity, error) {
	var result Opportunity
	if err := c.postJSON(ctx, "opportunities.add", "/opportunities/add", id, opp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateOpportunity replaces an existing pipeline entry.
func (c *Client) UpdateOpportunity(ctx context.Context, id *Identity, opp Opportunity) (*Opportunity, error) {
	var result Opportunity
	path := fmt.Sprintf("/opportunities/%d", opp.ID)
	if err := c.putJSON(ctx, "opportunities.update", path, id, opp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchOpportunities filters the pipeline by client or project name.
func (c *Client) SearchOpportunities(ctx context.Context, id *Identity, query string) ([]Opportunity, error) {
	params := url.Values{"q": {query}}
	var result []Opportunity
	if err := c.getJSON(ctx, "opportunities.search", queryPath("/opportunities/search", params), id, &result); err != nil {
		return nil, err
	}
	return result, nil
}
