package backend

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"savefood/models"
)

// ListBags fetches the available bags, retrying per the client's policy.
func (c *Client) ListBags(ctx context.Context) ([]models.Bag, error) {
	var bags []models.Bag
	err := c.retry.Do(ctx, func(ctx context.Context) error {
		bags = nil
		err := c.do(ctx, request{method: http.MethodGet, path: "/bags/"}, &bags)
		if err != nil {
			c.logger.Warn("bag list attempt failed", zap.Error(err))
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if bags == nil {
		bags = []models.Bag{}
	}
	return bags, nil
}

// CreateOrder places an order for quantity units of bagID on behalf of the token holder.
func (c *Client) CreateOrder(ctx context.Context, accessToken string, bagID uuid.UUID, quantity int) (*models.Order, error) {
	req, err := jsonRequest(http.MethodPost, "/orders/", models.OrderRequest{BagID: bagID, Quantity: quantity})
	if err != nil {
		return nil, err
	}
	req.token = accessToken

	var order models.Order
	if err := c.do(ctx, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
