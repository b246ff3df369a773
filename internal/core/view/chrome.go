// Package view turns domain records into the view models served to the
// browser. Everything here is a pure transform except ChromeState, which
// holds the chrome of one session.
package view

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rashad-agri/marketplace/internal/core/domain"
	"github.com/rashad-agri/marketplace/internal/core/ports"
)

// UserMenu is the signed-in user block of the header.
type UserMenu struct {
	Initial   string `json:"initial"`
	FullName  string `json:"full_name"`
	RoleLabel string `json:"role_label"`
	IsAdmin   bool   `json:"is_admin,omitempty"`
}

// Chrome is the page frame: header controls and sidebar.
type Chrome struct {
	Authenticated     bool          `json:"authenticated"`
	ShowGuestControls bool          `json:"show_guest_controls"`
	ShowUserMenu      bool          `json:"show_user_menu"`
	User              *UserMenu     `json:"user,omitempty"`
	Sidebar           []domain.Link `json:"sidebar"`
}

// GuestChrome shows the login and register controls and the full sidebar.
func GuestChrome() Chrome {
	return Chrome{
		ShowGuestControls: true,
		Sidebar:           append([]domain.Link(nil), domain.DefaultSidebar...),
	}
}

// AuthenticatedChrome shows the user menu built from p and hides dashboard
// links of other roles. A nil profile renders the generic user label.
func AuthenticatedChrome(p *domain.Profile) Chrome {
	var role domain.Role
	menu := &UserMenu{Initial: initial(""), FullName: domain.GenericUserLabel, RoleLabel: role.Label()}
	if p != nil {
		role = p.Role
		menu = &UserMenu{
			Initial:   initial(p.FirstName),
			FullName:  FullName(p.FirstName, p.LastName),
			RoleLabel: p.Role.Label(),
			IsAdmin:   p.IsAdmin,
		}
	}
	return Chrome{
		Authenticated: true,
		ShowUserMenu:  true,
		User:          menu,
		Sidebar:       domain.VisibleLinks(role, domain.DefaultSidebar),
	}
}

// FullName joins first and last name, falling back to the generic label.
func FullName(first, last string) string {
	n := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
	if n == "" {
		return domain.GenericUserLabel
	}
	return n
}

func initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = domain.GenericUserLabel
	}
	r, _ := utf8.DecodeRuneInString(name)
	return string(r)
}

// ChromeState is the UI gate of one session.
type ChromeState struct {
	mu     sync.RWMutex
	chrome Chrome
}

var _ ports.UIGate = (*ChromeState)(nil)

// NewChromeState starts in the guest chrome.
func NewChromeState() *ChromeState {
	return &ChromeState{chrome: GuestChrome()}
}

func (s *ChromeState) Authenticated(p *domain.Profile) {
	c := AuthenticatedChrome(p)
	s.mu.Lock()
	s.chrome = c
	s.mu.Unlock()
}

func (s *ChromeState) Guest() {
	c := GuestChrome()
	s.mu.Lock()
	s.chrome = c
	s.mu.Unlock()
}

// Snapshot returns a copy of the current chrome.
func (s *ChromeState) Snapshot() Chrome {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.chrome
	c.Sidebar = append([]domain.Link(nil), s.chrome.Sidebar...)
	if s.chrome.User != nil {
		u := *s.chrome.User
		c.User = &u
	}
	return c
}
