package identity

import (
	"context"

	"github.com/rashad-agri/marketplace/internal/core/domain"
	"github.com/rashad-agri/marketplace/internal/core/ports"
)

// Client is the identity backend as seen by one browser session.
type Client struct {
	sid      string
	provider *Provider
	hub      *Hub
}

var _ ports.AuthBackend = (*Client)(nil)

func NewClient(sid string, provider *Provider, hub *Hub) *Client {
	return &Client{sid: sid, provider: provider, hub: hub}
}

func (c *Client) SignUp(ctx context.Context, email, password string, meta domain.IdentityMetadata) (*domain.Identity, error) {
	return c.provider.SignUp(ctx, email, password, meta)
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	return c.provider.SignIn(ctx, c.sid, email, password)
}

func (c *Client) SignOut(ctx context.Context) error {
	return c.provider.SignOut(ctx, c.sid)
}

func (c *Client) GetUser(ctx context.Context) (*domain.Identity, error) {
	return c.provider.CurrentUser(ctx, c.sid)
}

func (c *Client) UpdateUser(ctx context.Context, changes domain.ProfileChanges) (*domain.Identity, error) {
	return c.provider.UpdateMetadata(ctx, c.sid, changes)
}

func (c *Client) OnAuthStateChange(ctx context.Context) (<-chan domain.AuthEvent, error) {
	return c.hub.Subscribe(ctx, c.sid), nil
}
