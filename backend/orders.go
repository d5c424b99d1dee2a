package backend

import (
	"context"
	"net/http"
	"net/url"

	"savefood/models"
)

// ListOrders returns the token holder's orders, optionally filtered by status.
// It makes a single attempt.
func (c *Client) ListOrders(ctx context.Context, accessToken, status string) ([]models.Order, error) {
	path := "/orders"
	if status != "" {
		path += "?" + url.Values{"status": {status}}.Encode()
	}

	var orders []models.Order
	if err := c.do(ctx, request{method: http.MethodGet, path: path, token: accessToken}, &orders); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}
