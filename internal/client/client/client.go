package client

import (
	"context"

	"github.com/motogestor/dashclient/internal/client/models"
)

// Client is the typed surface of the dashboard API used by the session and
// theme services.
type Client interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	Me(ctx context.Context, token string) (*models.User, error)
	TenantTheme(ctx context.Context, token string) (*models.TenantTheme, error)
}

// LoginResponse is the payload of POST /auth/login.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"user"`
}
