package backend

import (
	"context"
	"fmt"
	"io"
)

// UploadRFP submits an RFP document for extraction and matching.
func (c *Client) UploadRFP(ctx context.Context, id *Identity, filename string, file io.Reader) (*Quotation, error) {
	var result Quotation
	if err := c.postMultipart(ctx, "quotation.upload", "/quotation/upload", id, "file", filename, file, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListQuotations returns every quotation visible to the rep.
func (c *Client) ListQuotations(ctx context.Context, id *Identity) ([]Quotation, error) {
	var result []Quotation
	if err := c.getJSON(ctx, "quotation.list", "/quotation/list", id, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetQuotation fetches one quotation with its full content payload.
func (c *Client) GetQuotation(ctx context.Context, id *Identity, quotationID int64) (*Quotation, error) {
	var result Quotation
	path := fmt.Sprintf("/quotation/%d", quotationID)
	if err := c.getJSON(ctx, "quotation.get", path, id, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateQuotation persists pricing and quantity edits.
func (c *Client) UpdateQuotation(ctx context.Context, id *Identity, quotationID int64, params UpdateQuotationParams) (*UpdateQuotationResult, error) {
	var result UpdateQuotationResult
	path := fmt.Sprintf("/quotation/%d/update", quotationID)
	if err := c.postJSON(ctx, "quotation.update", path, id, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RematchQuotation re-runs product matching against edited requirements.
func (c *Client) RematchQuotation(ctx context.Context, id *Identity, quotationID int64, requirements []Requirement) (*RematchResult, error) {
	var result RematchResult
	path := fmt.Sprintf("/quotation/%d/rematch", quotationID)
	body := map[string]any{"requirements": requirements}
	if err := c.postJSON(ctx, "quotation.rematch", path, id, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SetQuotationStatus moves a quotation through its lifecycle.
func (c *Client) SetQuotationStatus(ctx context.Context, id *Identity, quotationID int64, status string) error {
	path := fmt.Sprintf("/quotation/%d/status", quotationID)
	body := map[string]string{"status": status}
	return c.postJSON(ctx, "quotation.status", path, id, body, nil)
}

// SendQuotation emails the finalized quotation to the given recipient.
func (c *Client) SendQuotation(ctx context.Context, id *Identity, quotationID int64, recipient string) error {
	path := fmt.Sprintf("/quotation/%d/send", quotationID)
	body := map[string]string{"email": recipient}
	return c.postJSON(ctx, "quotation.send", path, id, body, nil)
}

// DownloadQuotation fetches the rendered quotation document.
func (c *Client) DownloadQuotation(ctx context.Context, id *Identity, quotationID int64) ([]byte, string, error) {
	path := fmt.Sprintf("/quotation/%d/download", quotationID)
	return c.getBinary(ctx, "quotation.download", path, id)
}
