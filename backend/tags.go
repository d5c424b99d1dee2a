package backend

import (
	"context"
	"net/http"

	"savefood/models"
)

func (c *Client) RecommendTags(ctx context.Context, tr models.TagRequest) ([]string, error) {
	req, err := jsonRequest(http.MethodPost, "/bags/tags/recommend", tr)
	if err != nil {
		return nil, err
	}

	var tags []string
	if err := c.do(ctx, req, &tags); err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}
