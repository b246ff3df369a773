package identity

import (
	"context"
	"sync"
	"time"

	"github.com/rashad-agri/marketplace/internal/core/domain"
	"github.com/rashad-agri/marketplace/internal/core/ports"
)

type memCreds struct {
	mu   sync.Mutex
	byID map[string]*domain.Credential
}

func newMemCreds() *memCreds { return &memCreds{byID: make(map[string]*domain.Credential)} }

func (m *memCreds) Create(_ context.Context, c *domain.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.byID {
		if e.Email == c.Email {
			return domain.ErrUserExists
		}
	}
	cp := *c
	m.byID[c.ID] = &cp
	return nil
}

func (m *memCreds) FindByEmail(_ context.Context, email string) (*domain.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.byID {
		if e.Email == email {
			cp := *e
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memCreds) FindByID(_ context.Context, id string) (*domain.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.byID[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *memCreds) UpdateMetadata(_ context.Context, id string, meta domain.IdentityMetadata) (*domain.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	e.Metadata = meta
	cp := *e
	return &cp, nil
}

type memTokens struct {
	mu       sync.Mutex
	tokens   map[string]string
	sessions map[string]map[string]bool
}

func newMemTokens() *memTokens {
	return &memTokens{tokens: make(map[string]string), sessions: make(map[string]map[string]bool)}
}

func (m *memTokens) Put(_ context.Context, sid, uid, token string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[sid] = token
	if m.sessions[uid] == nil {
		m.sessions[uid] = make(map[string]bool)
	}
	m.sessions[uid][sid] = true
	return nil
}

func (m *memTokens) Get(_ context.Context, sid string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[sid], nil
}

func (m *memTokens) Delete(_ context.Context, sid, uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, sid)
	if uid != "" {
		delete(m.sessions[uid], sid)
	}
	return nil
}

func (m *memTokens) Sessions(_ context.Context, uid string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for sid := range m.sessions[uid] {
		out = append(out, sid)
	}
	return out, nil
}

// hubPublisher delivers straight to a hub and records what it published.
type hubPublisher struct {
	hub *Hub

	mu   sync.Mutex
	sent []published
}

type published struct {
	sid string
	typ domain.AuthEventType
}

func (p *hubPublisher) Publish(ctx context.Context, sid string, ev domain.AuthEvent) error {
	p.mu.Lock()
	p.sent = append(p.sent, published{sid, ev.Type})
	p.mu.Unlock()
	if p.hub != nil {
		p.hub.Deliver(ctx, sid, ev)
	}
	return nil
}

func (p *hubPublisher) events() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]published(nil), p.sent...)
}

// memProfiles records inserted users rows.
type memProfiles struct {
	mu   sync.Mutex
	rows []domain.Profile
}

var _ ports.DataBackend = (*memProfiles)(nil)

func (m *memProfiles) Insert(_ context.Context, _ string, doc any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, doc.(domain.Profile))
	return nil
}

func (m *memProfiles) Select(context.Context, ports.Query, any) error { return nil }
func (m *memProfiles) Get(context.Context, string, string, any) error { return domain.ErrNotFound }
func (m *memProfiles) Count(context.Context, ports.Query) (int64, error) { return 0, nil }
func (m *memProfiles) Sum(context.Context, ports.Query, string) (float64, error) { return 0, nil }
func (m *memProfiles) Update(context.Context, string, string, map[string]any) error {
	return nil
}
