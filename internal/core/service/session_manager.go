package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rashad-agri/marketplace/internal/core/domain"
	"github.com/rashad-agri/marketplace/internal/core/ports"
)

// SessionState is the authentication state of a session.
type SessionState int

const (
	StateUnauthenticated SessionState = iota
	StateAuthenticating
	StateAuthenticated
	// StateProfileLoading is Authenticated with a profile fetch outstanding.
	StateProfileLoading
)

func (s SessionState) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateProfileLoading:
		return "profile_loading"
	default:
		return "unauthenticated"
	}
}

// Profile load outcomes reported to the SessionObserver.
const (
	ProfileLoaded      = "loaded"
	ProfileProvisional = "provisional"
	ProfileCached      = "cached"
	ProfileFailed      = "failed"
)

// SessionDeps are the collaborators of a SessionManager. Observer may be nil.
type SessionDeps struct {
	Client   ports.AccountClient
	Cache    ports.ProfileCache
	Gate     ports.UIGate
	Nav      ports.Navigator
	Observer ports.SessionObserver
}

// RegisterInput is the registration form after validation.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	State     string
	Password  string
	Role      domain.Role
}

// SessionManager owns the identity and profile of one browser session.
// Transitions are serialised on transition; readers use mu.
type SessionManager struct {
	id   string
	deps SessionDeps
	log  zerolog.Logger

	transition sync.Mutex

	mu       sync.RWMutex
	state    SessionState
	identity *domain.Identity
	profile  *domain.Profile
	cancel   context.CancelFunc
	done     chan struct{}

	initOnce sync.Once
	initErr  error
}

func NewSessionManager(id string, deps SessionDeps, log zerolog.Logger) *SessionManager {
	return &SessionManager{
		id:   id,
		deps: deps,
		log:  log.With().Str("component", "session_manager").Str("session_id", id).Logger(),
	}
}

// ── Accessors ────────────────────────────────────────────────────────────────

func (m *SessionManager) ID() string { return m.id }

func (m *SessionManager) State() SessionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Identity returns a copy of the current identity, or nil.
func (m *SessionManager) Identity() *domain.Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.identity == nil {
		return nil
	}
	id := *m.identity
	return &id
}

// Profile returns a copy of the current profile, or nil.
func (m *SessionManager) Profile() *domain.Profile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.profile == nil {
		return nil
	}
	p := *m.profile
	return &p
}

// Snapshot returns copies of the identity and profile read together.
func (m *SessionManager) Snapshot() (*domain.Identity, *domain.Profile) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var (
		id *domain.Identity
		p  *domain.Profile
	)
	if m.identity != nil {
		cp := *m.identity
		id = &cp
	}
	if m.profile != nil {
		cp := *m.profile
		p = &cp
	}
	return id, p
}

// IsAuthenticated reports whether an identity is present.
func (m *SessionManager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity != nil
}

// Role is the profile role, or empty for guests and sessions without a profile.
func (m *SessionManager) Role() domain.Role {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.profile == nil {
		return ""
	}
	return m.profile.Role
}

// ── Lifecycle ────────────────────────────────────────────────────────────────

// Initialize restores the session from the backend and subscribes to auth
// events. Only the first call has any effect.
func (m *SessionManager) Initialize(ctx context.Context) error {
	m.initOnce.Do(func() {
		m.restore(ctx)
		m.initErr = m.subscribe(ctx)
	})
	return m.initErr
}

func (m *SessionManager) restore(ctx context.Context) {
	m.transition.Lock()
	defer m.transition.Unlock()

	res := m.deps.Client.GetCurrentUser(ctx)
	if !res.Success || res.Data == nil {
		if !res.Success {
			m.log.Warn().Str("error", res.Error).Msg("current user lookup failed")
		}
		m.setGuest()
		m.deps.Gate.Guest()
		return
	}
	m.adopt(res.Data)
	m.loadProfile(ctx, res.Data.ID)
	m.deps.Gate.Authenticated(m.Profile())
}

func (m *SessionManager) subscribe(ctx context.Context) error {
	listenCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	events, err := m.deps.Client.OnAuthStateChange(listenCtx)
	if err != nil {
		cancel()
		m.log.Error().Err(err).Msg("auth subscription failed")
		return err
	}
	done := make(chan struct{})
	m.mu.Lock()
	m.cancel, m.done = cancel, done
	m.mu.Unlock()

	go m.listen(listenCtx, events, done)
	return nil
}

// listen handles events one at a time in arrival order.
func (m *SessionManager) listen(ctx context.Context, events <-chan domain.AuthEvent, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			m.HandleEvent(ctx, ev)
		}
	}
}

// Close stops the listener and waits for it to exit.
func (m *SessionManager) Close() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel = nil
	m.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// HandleEvent applies one auth event.
func (m *SessionManager) HandleEvent(ctx context.Context, ev domain.AuthEvent) {
	m.transition.Lock()
	defer m.transition.Unlock()

	if m.deps.Observer != nil {
		m.deps.Observer.ObserveAuthEvent(ev.Type)
	}
	m.log.Debug().Str("event", string(ev.Type)).Msg("auth event")

	switch ev.Type {
	case domain.EventSignedIn:
		if ev.Session == nil {
			return
		}
		m.adopt(&ev.Session.User)
		m.loadProfile(ctx, ev.Session.User.ID)
		m.deps.Gate.Authenticated(m.Profile())
	case domain.EventSignedOut:
		m.clear(ctx)
		m.deps.Gate.Guest()
	case domain.EventUserUpdated:
		m.mu.RLock()
		current := m.identity
		m.mu.RUnlock()
		if current == nil {
			return
		}
		if ev.Session != nil && ev.Session.User.ID == current.ID {
			m.adopt(&ev.Session.User)
		}
		// The chrome follows only a profile that actually reloaded.
		if p := m.loadProfile(ctx, current.ID); p != nil {
			m.deps.Gate.Authenticated(p)
		}
	default:
		m.log.Warn().Str("event", string(ev.Type)).Msg("unknown auth event ignored")
	}
}

// ── Transitions (callers hold transition) ────────────────────────────────────

// adopt makes id current. The profile of a different user is dropped.
func (m *SessionManager) adopt(id *domain.Identity) {
	cp := *id
	m.mu.Lock()
	if m.identity == nil || m.identity.ID != cp.ID {
		m.profile = nil
	}
	m.identity = &cp
	m.state = StateAuthenticated
	m.mu.Unlock()
}

func (m *SessionManager) setGuest() {
	m.mu.Lock()
	m.identity = nil
	m.profile = nil
	m.state = StateUnauthenticated
	m.mu.Unlock()
}

func (m *SessionManager) clear(ctx context.Context) {
	m.setGuest()
	if err := m.deps.Cache.Delete(ctx); err != nil {
		m.log.Warn().Err(err).Msg("profile cache delete failed")
	}
}

func (m *SessionManager) setState(s SessionState) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// loadProfile fetches the profile of id. On failure it synthesises a
// provisional profile from the identity metadata when there is any. Without
// metadata a session holding no profile yet rehydrates the cached profile of
// id; otherwise the current profile is kept and nil is returned.
func (m *SessionManager) loadProfile(ctx context.Context, id string) *domain.Profile {
	if m.State() == StateAuthenticated {
		m.setState(StateProfileLoading)
		defer m.setState(StateAuthenticated)
	}

	res := m.deps.Client.GetUserProfile(ctx, id)
	var p *domain.Profile
	outcome := ProfileLoaded
	switch {
	case res.Success && res.Data != nil:
		p = res.Data
	default:
		m.log.Warn().Str("user_id", id).Str("error", res.Error).Msg("profile fetch failed")
		ident := m.Identity()
		if ident == nil || ident.Metadata.IsZero() {
			if cached := m.rehydrate(ctx, id); cached != nil {
				m.observeProfile(ProfileCached)
				return cached
			}
			m.observeProfile(ProfileFailed)
			return nil
		}
		p = domain.ProvisionalProfile(*ident)
		outcome = ProfileProvisional
	}

	m.mu.Lock()
	m.profile = p
	m.mu.Unlock()
	if err := m.deps.Cache.Save(ctx, p); err != nil {
		m.log.Warn().Err(err).Msg("profile cache write failed")
	}
	m.observeProfile(outcome)
	return m.Profile()
}

// rehydrate adopts the cached profile of id when the session has none.
func (m *SessionManager) rehydrate(ctx context.Context, id string) *domain.Profile {
	if m.Profile() != nil {
		return nil
	}
	p, err := m.deps.Cache.Load(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("profile cache read failed")
		return nil
	}
	if p == nil || p.ID != id {
		return nil
	}
	m.mu.Lock()
	m.profile = p
	m.mu.Unlock()
	return m.Profile()
}

func (m *SessionManager) observeProfile(outcome string) {
	if m.deps.Observer != nil {
		m.deps.Observer.ObserveProfileLoad(outcome)
	}
}

// ── Operations ───────────────────────────────────────────────────────────────

// LoadProfile reloads the profile of id.
func (m *SessionManager) LoadProfile(ctx context.Context, id string) *domain.Profile {
	m.transition.Lock()
	defer m.transition.Unlock()
	return m.loadProfile(ctx, id)
}

// Login signs in and, from the login or register page, redirects to the
// role's dashboard. On failure the previous state is restored and the
// backend error is returned as is.
func (m *SessionManager) Login(ctx context.Context, email, password string) ports.Result[*domain.Profile] {
	m.transition.Lock()
	defer m.transition.Unlock()

	prev := m.State()
	m.setState(StateAuthenticating)

	res := m.deps.Client.SignIn(ctx, email, password)
	if !res.Success || res.Data == nil {
		m.setState(prev)
		m.log.Info().Str("error", res.Error).Msg("login failed")
		if res.Success {
			return ports.Failf[*domain.Profile]("empty session")
		}
		return ports.Failf[*domain.Profile](res.Error)
	}

	m.adopt(&res.Data.User)
	m.loadProfile(ctx, res.Data.User.ID)
	p := m.Profile()
	m.deps.Gate.Authenticated(p)

	var role domain.Role
	if p != nil {
		role = p.Role
	}
	if to, ok := domain.RedirectAfterAuth(m.deps.Nav.CurrentRoute(ctx), role); ok {
		m.deps.Nav.Navigate(ctx, to)
	}
	m.log.Info().Str("user_id", res.Data.User.ID).Str("role", string(role)).Msg("login succeeded")
	return ports.OK(p)
}

// Register creates the identity with the form data as metadata. The profile
// record is written by the backend; side profile rows are best effort.
func (m *SessionManager) Register(ctx context.Context, in RegisterInput) ports.Result[*domain.Identity] {
	meta := domain.IdentityMetadata{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		State:     in.State,
		UserType:  string(in.Role),
	}
	res := m.deps.Client.SignUp(ctx, in.Email, in.Password, meta)
	if !res.Success {
		return res
	}
	if res.Data != nil {
		if rp := m.deps.Client.CreateRoleProfile(ctx, res.Data.ID, in.Role); !rp.Success {
			m.log.Warn().Str("user_id", res.Data.ID).Str("error", rp.Error).Msg("role profile not created")
		}
	}
	return res
}

// Logout signs out, clears local state and goes to the landing page. Calling
// it without a session is harmless.
func (m *SessionManager) Logout(ctx context.Context) ports.Result[struct{}] {
	m.transition.Lock()
	defer m.transition.Unlock()

	res := m.deps.Client.SignOut(ctx)
	if !res.Success {
		return res
	}
	m.clear(ctx)
	m.deps.Gate.Guest()
	m.deps.Nav.Navigate(ctx, domain.RouteLanding)
	return res
}
