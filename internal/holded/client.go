// Package holded implements the invoicing API client: document listing with
// window pagination, per-id fetch, and product lookup.
package holded

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"vendido/internal/config"
	"vendido/internal/domain"
	"vendido/internal/port"
)

// Client talks to the Holded invoicing API. It implements
// port.DocumentSource and port.ProductSource.
type Client struct {
	http      *http.Client
	baseURL   string
	apiKey    string
	useBearer bool
	pageLimit int
}

// NewClient creates a Client from configuration.
func NewClient(cfg *config.HoldedConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	pageLimit := cfg.PageLimit
	if pageLimit <= 0 {
		pageLimit = 200
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		useBearer: cfg.UseBearer,
		pageLimit: pageLimit,
	}
}

var _ port.DocumentSource = (*Client)(nil)
var _ port.ProductSource = (*Client)(nil)

// ListDocuments walks the paginated document listing for a kind inside the
// given epoch-second window.
func (c *Client) ListDocuments(ctx context.Context, kind domain.DocKind, startEpoch, endEpoch int64) ([]domain.Record, error) {
	var out []domain.Record
	for page := 1; ; page++ {
		params := url.Values{
			"page":     {strconv.Itoa(page)},
			"limit":    {strconv.Itoa(c.pageLimit)},
			"starttmp": {strconv.FormatInt(startEpoch, 10)},
			"endtmp":   {strconv.FormatInt(endEpoch, 10)},
		}
		var batch []map[string]any
		endpoint := fmt.Sprintf("%s/documents/%s", c.baseURL, kind)
		if err := c.getJSON(ctx, endpoint, params, &batch); err != nil {
			return nil, fmt.Errorf("listing %s documents page %d: %w", kind, page, err)
		}
		if len(batch) == 0 {
			break
		}
		for _, m := range batch {
			out = append(out, domain.Record(m))
		}
		if len(batch) < c.pageLimit {
			break
		}
	}
	return out, nil
}

// GetDocument fetches one document by id, falling back to the generic
// documents endpoint when the kind-scoped one has no detail for this tenant.
func (c *Client) GetDocument(ctx context.Context, kind domain.DocKind, id string) (domain.Record, error) {
	var doc map[string]any
	endpoint := fmt.Sprintf("%s/documents/%s/%s", c.baseURL, kind, url.PathEscape(id))
	err := c.getJSON(ctx, endpoint, nil, &doc)
	if errors.Is(err, domain.ErrNotFound) {
		endpoint = fmt.Sprintf("%s/documents/%s", c.baseURL, url.PathEscape(id))
		err = c.getJSON(ctx, endpoint, nil, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching %s %s: %w", kind, id, err)
	}
	return domain.Record(doc), nil
}

// GetProduct fetches a product record by reference. An empty id yields an
// empty record.
func (c *Client) GetProduct(ctx context.Context, id string) (domain.Record, error) {
	if id == "" {
		return domain.Record{}, nil
	}
	var prod map[string]any
	endpoint := fmt.Sprintf("%s/products/%s", c.baseURL, url.PathEscape(id))
	if err := c.getJSON(ctx, endpoint, nil, &prod); err != nil {
		return nil, fmt.Errorf("fetching product %s: %w", id, err)
	}
	return domain.Record(prod), nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.useBearer {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	} else {
		req.Header.Set("key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, body)
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
