package ports

import (
	"context"
	"time"

	"github.com/rashad-agri/marketplace/internal/core/domain"
)

// AuthBackend is the identity side of the hosted backend, bound to one
// browser session.
type AuthBackend interface {
	SignUp(ctx context.Context, email, password string, meta domain.IdentityMetadata) (*domain.Identity, error)
	SignIn(ctx context.Context, email, password string) (*domain.AuthSession, error)
	// SignOut ends the session. Signing out without a session is not an error.
	SignOut(ctx context.Context) error
	// GetUser returns the current identity, or nil when nobody is signed in.
	GetUser(ctx context.Context) (*domain.Identity, error)
	// UpdateUser applies changes to the identity metadata and emits USER_UPDATED.
	UpdateUser(ctx context.Context, changes domain.ProfileChanges) (*domain.Identity, error)
	// OnAuthStateChange streams auth events for the session until ctx is done.
	// Receivers must stop on ctx; the channel is not closed.
	OnAuthStateChange(ctx context.Context) (<-chan domain.AuthEvent, error)
}

// DataBackend is the record store side of the hosted backend. Missing records
// are reported as domain.ErrNotFound.
type DataBackend interface {
	// Select decodes every record matching q into out, a pointer to a slice.
	Select(ctx context.Context, q Query, out any) error
	// Get decodes the record with id into out.
	Get(ctx context.Context, collection, id string, out any) error
	Insert(ctx context.Context, collection string, doc any) error
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Count(ctx context.Context, q Query) (int64, error)
	// Sum adds up field over the records matching q.
	Sum(ctx context.Context, q Query, field string) (float64, error)
}

// ProfileCache mirrors the profile of one session under a fixed key.
type ProfileCache interface {
	Save(ctx context.Context, p *domain.Profile) error
	// Load returns nil without error when nothing is cached. Sessions read it
	// to rehydrate when the profile fetch fails.
	Load(ctx context.Context) (*domain.Profile, error)
	Delete(ctx context.Context) error
}

// UIGate toggles the authenticated and guest chrome.
type UIGate interface {
	Authenticated(p *domain.Profile)
	Guest()
}

// Navigator reads the current page and requests page changes.
type Navigator interface {
	CurrentRoute(ctx context.Context) domain.Route
	Navigate(ctx context.Context, to domain.Route)
}

// BusyIndicator marks a trigger as busy. The returned func restores it.
type BusyIndicator interface {
	Busy(ctx context.Context, trigger string) (restore func())
}

// CallObserver records the outcome of backend client operations.
type CallObserver interface {
	ObserveCall(op string, ok bool, elapsed time.Duration)
}

// SessionObserver records session manager activity.
type SessionObserver interface {
	ObserveAuthEvent(event domain.AuthEventType)
	// ObserveProfileLoad records a profile load outcome: loaded, provisional,
	// cached or failed.
	ObserveProfileLoad(outcome string)
}
