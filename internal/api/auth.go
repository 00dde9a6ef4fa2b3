package api

import (
	"context"
	"net/http"

	"github.com/iliyamo/vacation-portal/internal/model"
)

// Login posts credentials to the configured login path.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (model.Principal, error) {
	var p model.Principal
	err := c.do(ctx, http.MethodPost, c.loginPath, creds, "", &p)
	return p, err
}

// Logout ends the server-side session.  It is a no-op for APIs without a
// logout endpoint.
func (c *Client) Logout(ctx context.Context) error {
	if c.logoutPath == "" {
		return nil
	}
	return c.do(ctx, http.MethodPost, c.logoutPath, nil, "", nil)
}

// Register creates an account and returns the new principal.
func (c *Client) Register(ctx context.Context, reg model.Registration) (model.Principal, error) {
	var p model.Principal
	err := c.do(ctx, http.MethodPost, "/users/register", reg, "", &p)
	return p, err
}
