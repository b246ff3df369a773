package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rashad-agri/marketplace/internal/core/domain"
	"github.com/rashad-agri/marketplace/internal/core/ports"
	"github.com/rashad-agri/marketplace/internal/core/view"
)

// ---------------------------------------------------------------------------
// In-memory auth backend
// ---------------------------------------------------------------------------

type fakeAccount struct {
	identity domain.Identity
	password string
}

type fakeAuth struct {
	mu           sync.Mutex
	accounts     map[string]*fakeAccount
	current      *domain.Identity
	signInErr    error
	getUserErr   error
	signUps      int
	signOutCalls int
	events       chan domain.AuthEvent
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{
		accounts: make(map[string]*fakeAccount),
		events:   make(chan domain.AuthEvent, 16),
	}
}

func (a *fakeAuth) addAccount(id, email, password string, meta domain.IdentityMetadata) domain.Identity {
	a.mu.Lock()
	defer a.mu.Unlock()
	ident := domain.Identity{ID: id, Email: email, Metadata: meta}
	a.accounts[email] = &fakeAccount{identity: ident, password: password}
	return ident
}

func (a *fakeAuth) signInAs(ident domain.Identity) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = &ident
}

func (a *fakeAuth) SignUp(_ context.Context, email, password string, meta domain.IdentityMetadata) (*domain.Identity, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.signUps++
	if _, ok := a.accounts[email]; ok {
		return nil, domain.ErrUserExists
	}
	ident := domain.Identity{ID: "u-" + email, Email: email, Metadata: meta}
	a.accounts[email] = &fakeAccount{identity: ident, password: password}
	return &ident, nil
}

func (a *fakeAuth) SignIn(_ context.Context, email, password string) (*domain.AuthSession, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.signInErr != nil {
		return nil, a.signInErr
	}
	acc, ok := a.accounts[email]
	if !ok || acc.password != password {
		return nil, domain.ErrInvalidCredentials
	}
	ident := acc.identity
	a.current = &ident
	return &domain.AuthSession{AccessToken: "tok", ExpiresAt: time.Now().Add(time.Hour), User: ident}, nil
}

func (a *fakeAuth) SignOut(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.signOutCalls++
	a.current = nil
	return nil
}

func (a *fakeAuth) GetUser(context.Context) (*domain.Identity, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.getUserErr != nil {
		return nil, a.getUserErr
	}
	if a.current == nil {
		return nil, nil
	}
	ident := *a.current
	return &ident, nil
}

func (a *fakeAuth) UpdateUser(_ context.Context, ch domain.ProfileChanges) (*domain.Identity, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return nil, domain.ErrNotAuthenticated
	}
	if ch.FirstName != nil {
		a.current.Metadata.FirstName = *ch.FirstName
	}
	ident := *a.current
	return &ident, nil
}

func (a *fakeAuth) OnAuthStateChange(context.Context) (<-chan domain.AuthEvent, error) {
	return a.events, nil
}

// ---------------------------------------------------------------------------
// In-memory data backend
// ---------------------------------------------------------------------------

type fakeUpdate struct {
	collection string
	id         string
	fields     map[string]any
}

type fakeData struct {
	mu      sync.Mutex
	rows    map[string]any
	docs    map[string]map[string]any
	counts  map[string]int64
	sum     float64
	err     error
	panics  bool
	calls   int
	queries []ports.Query
	inserts map[string][]any
	updates []fakeUpdate
}

func newFakeData() *fakeData {
	return &fakeData{
		rows:    make(map[string]any),
		docs:    make(map[string]map[string]any),
		counts:  make(map[string]int64),
		inserts: make(map[string][]any),
	}
}

func (d *fakeData) putDoc(collection, id string, doc any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.docs[collection] == nil {
		d.docs[collection] = make(map[string]any)
	}
	d.docs[collection][id] = doc
}

func (d *fakeData) setRows(collection string, rows any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rows[collection] = rows
}

func (d *fakeData) lastQuery() ports.Query {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.queries[len(d.queries)-1]
}

func (d *fakeData) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

func (d *fakeData) enter() error {
	d.calls++
	if d.panics {
		panic("transport exploded")
	}
	return d.err
}

func roundTrip(src, out any) error {
	b, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func (d *fakeData) Select(_ context.Context, q ports.Query, out any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queries = append(d.queries, q)
	if err := d.enter(); err != nil {
		return err
	}
	rows, ok := d.rows[q.Collection]
	if !ok {
		return nil
	}
	return roundTrip(rows, out)
}

func (d *fakeData) Get(_ context.Context, collection, id string, out any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.enter(); err != nil {
		return err
	}
	doc, ok := d.docs[collection][id]
	if !ok {
		return domain.ErrNotFound
	}
	return roundTrip(doc, out)
}

func (d *fakeData) Insert(_ context.Context, collection string, doc any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.enter(); err != nil {
		return err
	}
	d.inserts[collection] = append(d.inserts[collection], doc)
	return nil
}

func (d *fakeData) Update(_ context.Context, collection, id string, fields map[string]any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.enter(); err != nil {
		return err
	}
	if _, ok := d.docs[collection][id]; !ok {
		return domain.ErrNotFound
	}
	d.updates = append(d.updates, fakeUpdate{collection: collection, id: id, fields: fields})
	return nil
}

func (d *fakeData) Count(_ context.Context, q ports.Query) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queries = append(d.queries, q)
	if err := d.enter(); err != nil {
		return 0, err
	}
	return d.counts[q.Collection], nil
}

func (d *fakeData) Sum(_ context.Context, q ports.Query, _ string) (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queries = append(d.queries, q)
	if err := d.enter(); err != nil {
		return 0, err
	}
	return d.sum, nil
}

// ---------------------------------------------------------------------------
// Session collaborators
// ---------------------------------------------------------------------------

type fakeCache struct {
	mu      sync.Mutex
	profile *domain.Profile
	saves   int
	deletes int
}

func (c *fakeCache) Save(_ context.Context, p *domain.Profile) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *p
	c.profile = &cp
	c.saves++
	return nil
}

func (c *fakeCache) Load(context.Context) (*domain.Profile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile, nil
}

func (c *fakeCache) Delete(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profile = nil
	c.deletes++
	return nil
}

type fakeBusy struct {
	mu       sync.Mutex
	active   int
	triggers []string
}

func (b *fakeBusy) Busy(_ context.Context, trigger string) func() {
	b.mu.Lock()
	b.active++
	b.triggers = append(b.triggers, trigger)
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		b.active--
		b.mu.Unlock()
	}
}

type callRecord struct {
	op string
	ok bool
}

type fakeObserver struct {
	mu       sync.Mutex
	calls    []callRecord
	events   []domain.AuthEventType
	profiles []string
}

func (o *fakeObserver) ObserveCall(op string, ok bool, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, callRecord{op: op, ok: ok})
}

func (o *fakeObserver) ObserveAuthEvent(t domain.AuthEventType) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, t)
}

func (o *fakeObserver) ObserveProfileLoad(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.profiles = append(o.profiles, outcome)
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

type testEnv struct {
	auth  *fakeAuth
	data  *fakeData
	cache *fakeCache
	obs   *fakeObserver
}

func newTestEnv() *testEnv {
	return &testEnv{auth: newFakeAuth(), data: newFakeData(), cache: &fakeCache{}, obs: &fakeObserver{}}
}

func (e *testEnv) client() *BackendClient {
	return NewBackendClient(e.auth, e.data, time.Second, e.obs, zerolog.Nop())
}

// session builds an uninitialised session over the environment.
func (e *testEnv) session(id string) *Session {
	client := e.client()
	chrome := view.NewChromeState()
	mgr := NewSessionManager(id, SessionDeps{
		Client:   client,
		Cache:    e.cache,
		Gate:     chrome,
		Nav:      ContextNavigator{},
		Observer: e.obs,
	}, zerolog.Nop())
	return &Session{ID: id, Manager: mgr, Client: client, Chrome: chrome}
}

// signedIn registers a user with a stored profile and makes it current.
func (e *testEnv) signedIn(id string, role domain.Role) domain.Identity {
	ident := e.auth.addAccount(id, id+"@rashad.sd", "secret1", domain.IdentityMetadata{UserType: string(role)})
	e.auth.signInAs(ident)
	e.data.putDoc(ports.CollUsers, id, domain.Profile{ID: id, Email: ident.Email, FirstName: "اختبار", LastName: "مستخدم", Role: role, State: "كسلا", IsActive: true})
	return ident
}
