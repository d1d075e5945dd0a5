package backend

import (
	"context"
	"fmt"
	"io"
	"net/url"
)

// ListItems returns the full product catalog.
func (c *Client) ListItems(ctx context.Context, id *Identity) ([]CatalogItem, error) {
	var result []CatalogItem
	if err := c.getJSON(ctx, "items.list", "/items", id, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// SearchItems runs a semantic search over the catalog.
func (c *Client) SearchItems(ctx context.Context, id *Identity, query string) ([]CatalogItem, error) {
	params := url.Values{"q": {query}}
	var result []CatalogItem
	if err := c.getJSON(ctx, "items.search", queryPath("/items/search", params), id, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// AddItem creates a catalog product.
func (c *Client) AddItem(ctx context.Context, id *Identity, item CatalogItem) (*CatalogItem, error) {
	var result CatalogItem
	if err := c.postJSON(ctx, "items.add", "/items/add", id, item, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateItem replaces a catalog product.
func (c *Client) UpdateItem(ctx context.Context, id *Identity, item CatalogItem) (*CatalogItem, error) {
	var result CatalogItem
	path := fmt.Sprintf("/items/%d", item.ID)
	if err := c.putJSON(ctx, "items.update", path, id, item, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// EmbedAllItems rebuilds catalog embeddings used by matching and search.
func (c *Client) EmbedAllItems(ctx context.Context, id *Identity) error {
	return c.postJSON(ctx, "items.embed_all", "/items/embed_all", id, nil, nil)
}

// UploadItemImage stores a product photo and returns its public URL.
func (c *Client) UploadItemImage(ctx context.Context, id *Identity, itemID int64, filename string, file io.Reader) (string, error) {
	var result struct {
		ImageURL string `json:"image_url"`
	}
	fields := map[string]string{"item_id": fmt.Sprintf("%d", itemID)}
	if err := c.postMultipart(ctx, "items.upload_image", "/items/upload-image", id, "file", filename, file, fields, &result); err != nil {
		return "", err
	}
	return result.ImageURL, nil
}

// VisualSearch ranks catalog items against an uploaded reference image.
func (c *Client) VisualSearch(ctx context.Context, id *Identity, filename string, image io.Reader) ([]VisualMatch, error) {
	var result []VisualMatch
	if err := c.postMultipart(ctx, "visual.search", "/visual-search/search", id, "file", filename, image, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}
