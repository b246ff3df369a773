package service

import (
	"context"
	"sync"

	"github.com/rashad-agri/marketplace/internal/core/domain"
	"github.com/rashad-agri/marketplace/internal/core/ports"
)

type navigationKey struct{}

// Navigation records the page a request is on and the redirect, if any,
// requested while serving it.
type Navigation struct {
	mu       sync.Mutex
	current  domain.Route
	redirect domain.Route
}

// WithNavigation attaches a Navigation for current to ctx.
func WithNavigation(ctx context.Context, current domain.Route) (context.Context, *Navigation) {
	n := &Navigation{current: current}
	return context.WithValue(ctx, navigationKey{}, n), n
}

// Redirect returns the last requested page change.
func (n *Navigation) Redirect() (domain.Route, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.redirect, n.redirect != ""
}

// ContextNavigator reads and records navigation on the Navigation carried by
// the request context. Without one it reports the landing page and drops
// navigation requests.
type ContextNavigator struct{}

var _ ports.Navigator = ContextNavigator{}

func (ContextNavigator) CurrentRoute(ctx context.Context) domain.Route {
	if n, ok := ctx.Value(navigationKey{}).(*Navigation); ok {
		n.mu.Lock()
		defer n.mu.Unlock()
		return n.current
	}
	return domain.RouteLanding
}

func (ContextNavigator) Navigate(ctx context.Context, to domain.Route) {
	if n, ok := ctx.Value(navigationKey{}).(*Navigation); ok {
		n.mu.Lock()
		n.redirect = to
		n.mu.Unlock()
	}
}
