// Package servicetest provides in-memory backends and session builders for
// tests of packages that sit on top of the service layer.
package servicetest

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rashad-agri/marketplace/internal/core/domain"
	"github.com/rashad-agri/marketplace/internal/core/ports"
	"github.com/rashad-agri/marketplace/internal/core/service"
	"github.com/rashad-agri/marketplace/internal/core/view"
)

// Password is accepted by Auth.SignIn for every registered account.
const Password = "secret1"

// Auth is an AuthBackend for a single session. Accounts are keyed by email.
type Auth struct {
	mu       sync.Mutex
	accounts map[string]domain.Identity
	current  *domain.Identity
}

var _ ports.AuthBackend = (*Auth)(nil)

func NewAuth() *Auth {
	return &Auth{accounts: make(map[string]domain.Identity)}
}

// Add registers ident and, when signIn is set, makes it current.
func (a *Auth) Add(ident domain.Identity, signIn bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.accounts[ident.Email] = ident
	if signIn {
		a.current = &ident
	}
}

func (a *Auth) SignUp(_ context.Context, email, _ string, meta domain.IdentityMetadata) (*domain.Identity, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.accounts[email]; ok {
		return nil, domain.ErrUserExists
	}
	ident := domain.Identity{ID: "u-" + email, Email: email, Metadata: meta}
	a.accounts[email] = ident
	return &ident, nil
}

func (a *Auth) SignIn(_ context.Context, email, password string) (*domain.AuthSession, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	ident, ok := a.accounts[email]
	if !ok || password != Password {
		return nil, domain.ErrInvalidCredentials
	}
	a.current = &ident
	return &domain.AuthSession{AccessToken: "token", ExpiresAt: time.Now().Add(time.Hour), User: ident}, nil
}

func (a *Auth) SignOut(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = nil
	return nil
}

func (a *Auth) GetUser(context.Context) (*domain.Identity, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return nil, nil
	}
	ident := *a.current
	return &ident, nil
}

func (a *Auth) UpdateUser(_ context.Context, ch domain.ProfileChanges) (*domain.Identity, error) {
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

// OnAuthStateChange returns a channel that never delivers.
func (a *Auth) OnAuthStateChange(context.Context) (<-chan domain.AuthEvent, error) {
	return make(chan domain.AuthEvent), nil
}

// Data is a DataBackend serving fixed documents and select results. Selects
// return every row stored for the collection regardless of conditions.
type Data struct {
	mu      sync.Mutex
	docs    map[string]map[string]any
	rows    map[string]any
	counts  map[string]int64
	Inserts map[string][]any
	Queries []ports.Query
}

var _ ports.DataBackend = (*Data)(nil)

func NewData() *Data {
	return &Data{
		docs:    make(map[string]map[string]any),
		rows:    make(map[string]any),
		counts:  make(map[string]int64),
		Inserts: make(map[string][]any),
	}
}

// Put stores doc under collection and id.
func (d *Data) Put(collection, id string, doc any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.docs[collection] == nil {
		d.docs[collection] = make(map[string]any)
	}
	d.docs[collection][id] = doc
}

// SetRows sets the select result of collection.
func (d *Data) SetRows(collection string, rows any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rows[collection] = rows
}

// SetCount sets the count result of collection.
func (d *Data) SetCount(collection string, n int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.counts[collection] = n
}

func copyInto(src, out any) error {
	b, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func (d *Data) Select(_ context.Context, q ports.Query, out any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Queries = append(d.Queries, q)
	if rows, ok := d.rows[q.Collection]; ok {
		return copyInto(rows, out)
	}
	return nil
}

func (d *Data) Get(_ context.Context, collection, id string, out any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	doc, ok := d.docs[collection][id]
	if !ok {
		return domain.ErrNotFound
	}
	return copyInto(doc, out)
}

func (d *Data) Insert(_ context.Context, collection string, doc any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Inserts[collection] = append(d.Inserts[collection], doc)
	return nil
}

func (d *Data) Update(_ context.Context, collection, id string, _ map[string]any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.docs[collection][id]; !ok {
		return domain.ErrNotFound
	}
	return nil
}

func (d *Data) Count(_ context.Context, q ports.Query) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Queries = append(d.Queries, q)
	return d.counts[q.Collection], nil
}

func (d *Data) Sum(context.Context, ports.Query, string) (float64, error) {
	return 0, nil
}

// Cache is a ProfileCache held in memory.
type Cache struct {
	mu      sync.Mutex
	profile *domain.Profile
}

func (c *Cache) Save(_ context.Context, p *domain.Profile) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *p
	c.profile = &cp
	return nil
}

func (c *Cache) Load(context.Context) (*domain.Profile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile, nil
}

func (c *Cache) Delete(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profile = nil
	return nil
}

// Backend bundles the in-memory backends of one session.
type Backend struct {
	Auth *Auth
	Data *Data
}

func NewBackend() *Backend {
	return &Backend{Auth: NewAuth(), Data: NewData()}
}

// Account registers a user of role with a stored profile.
func (b *Backend) Account(id string, role domain.Role) *domain.Profile {
	p := &domain.Profile{
		ID:        id,
		Email:     id + "@rashad.sd",
		FirstName: "سارة",
		LastName:  "عثمان",
		Role:      role,
		State:     "الخرطوم",
		IsActive:  true,
	}
	b.Auth.Add(domain.Identity{ID: id, Email: p.Email, Metadata: domain.IdentityMetadata{UserType: string(role)}}, false)
	b.Data.Put(ports.CollUsers, id, *p)
	return p
}

// SignedIn registers a user like Account and makes it current.
func (b *Backend) SignedIn(id string, role domain.Role) *domain.Profile {
	p := b.Account(id, role)
	b.Auth.Add(domain.Identity{ID: id, Email: p.Email, Metadata: domain.IdentityMetadata{UserType: string(role)}}, true)
	return p
}

// Session builds and initialises the session sid over b. Close it with
// Manager.Close.
func (b *Backend) Session(ctx context.Context, sid string) (*service.Session, error) {
	client := service.NewBackendClient(b.Auth, b.Data, time.Second, nil, zerolog.Nop())
	chrome := view.NewChromeState()
	mgr := service.NewSessionManager(sid, service.SessionDeps{
		Client: client,
		Cache:  &Cache{},
		Gate:   chrome,
		Nav:    service.ContextNavigator{},
	}, zerolog.Nop())
	if err := mgr.Initialize(ctx); err != nil {
		return nil, err
	}
	return &service.Session{ID: sid, Manager: mgr, Client: client, Chrome: chrome}, nil
}
