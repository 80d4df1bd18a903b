package client

import (
	"context"
	"net/http"

	"github.com/motogestor/dashclient/internal/client/models"
)

const (
	LoginPath       = "/auth/login"
	DefaultMePath   = "/auth/me"
	TenantThemePath = "/tenant/theme"
)

// HTTPClient implements Client over a Gateway.
type HTTPClient struct {
	gw     *Gateway
	mePath string
}

// NewHTTPClient binds the API endpoints to gw. An empty mePath selects
// DefaultMePath; some deployments serve the profile at /me instead.
func NewHTTPClient(gw *Gateway, mePath string) *HTTPClient {
	if mePath == "" {
		mePath = DefaultMePath
	}
	return &HTTPClient{gw: gw, mePath: mePath}
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	err := c.gw.Request(ctx, LoginPath, RequestOptions{
		Method: http.MethodPost,
		Body:   map[string]string{"email": email, "password": password},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*models.User, error) {
	var u models.User
	if err := c.gw.Request(ctx, c.mePath, RequestOptions{Token: token}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) TenantTheme(ctx context.Context, token string) (*models.TenantTheme, error) {
	var t models.TenantTheme
	if err := c.gw.Request(ctx, TenantThemePath, RequestOptions{Token: token}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}
