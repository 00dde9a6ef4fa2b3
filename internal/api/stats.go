package api

import (
	"context"
	"net/http"

	"github.com/iliyamo/vacation-portal/internal/model"
)

func (c *Client) VacationStats(ctx context.Context) (model.VacationStats, error) {
	var out model.VacationStats
	err := c.do(ctx, http.MethodGet, "/vacations/stats", nil, "", &out)
	return out, err
}

func (c *Client) TotalUsers(ctx context.Context) (model.TotalUsers, error) {
	var out model.TotalUsers
	err := c.do(ctx, http.MethodGet, "/users/total", nil, "", &out)
	return out, err
}

func (c *Client) TotalLikes(ctx context.Context) (model.TotalLikes, error) {
	var out model.TotalLikes
	err := c.do(ctx, http.MethodGet, "/likes/total", nil, "", &out)
	return out, err
}

func (c *Client) LikesDistribution(ctx context.Context) ([]model.LikesDistributionItem, error) {
	var out []model.LikesDistributionItem
	err := c.do(ctx, http.MethodGet, "/likes/distribution", nil, "", &out)
	return out, err
}
