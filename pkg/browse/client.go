package browse

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/ibrahimdesign/atelier/app/models"
	httpclient "github.com/ibrahimdesign/atelier/pkg/http"
)

// Client is the HTTP Lister implementation against the catalog list
// endpoint.
type Client struct {
	baseURL string
}

// NewClient takes the server base URL, e.g. "https://shop.example.com".
func NewClient(baseURL string) *Client {
	return &Client{baseURL: baseURL}
}

type listEnvelope struct {
	Success  bool                 `json:"success"`
	Message  string               `json:"message"`
	Products []models.ProductCard `json:"products"`
	Meta     models.PageMeta      `json:"meta"`
}

// List fetches one catalog page.
func (c *Client) List(ctx context.Context, q Query) (Page, error) {
	params := url.Values{}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}

	endpoint := c.baseURL + "/api/shop-products"
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	resp, err := httpclient.Get(endpoint).
		WithContext(ctx).
		Timeout(10 * time.Second).
		Send()
	if err != nil {
		return Page{}, err
	}

	var env listEnvelope
	if err := resp.JSON(&env); err != nil {
		return Page{}, err
	}
	if !resp.OK() || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "request failed"
		}
		return Page{}, fmt.Errorf("catalog list: %s (status %d)", msg, resp.StatusCode)
	}

	return Page{Items: env.Products, Meta: env.Meta}, nil
}
