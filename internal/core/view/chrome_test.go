package view

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/rashad-agri/marketplace/internal/core/domain"
)

func TestAuthenticatedChrome_Trader(t *testing.T) {
	p := &domain.Profile{ID: "u1", FirstName: "سارة", LastName: "أحمد", Role: domain.RoleTrader}

	got := AuthenticatedChrome(p)

	want := Chrome{
		Authenticated: true,
		ShowUserMenu:  true,
		User:          &UserMenu{Initial: "س", FullName: "سارة أحمد", RoleLabel: "تاجر"},
		Sidebar: []domain.Link{
			domain.DefaultSidebar[0],
			domain.DefaultSidebar[3],
			domain.DefaultSidebar[4],
			domain.DefaultSidebar[5],
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("chrome mismatch (-want +got):\n%s", diff)
	}
}

func TestAuthenticatedChrome_NilProfile(t *testing.T) {
	got := AuthenticatedChrome(nil)

	assert.True(t, got.ShowUserMenu)
	assert.False(t, got.ShowGuestControls)
	assert.Equal(t, domain.GenericUserLabel, got.User.FullName)
	assert.Equal(t, "م", got.User.Initial)
}

func TestGuestChrome(t *testing.T) {
	got := GuestChrome()

	assert.True(t, got.ShowGuestControls)
	assert.False(t, got.ShowUserMenu)
	assert.Nil(t, got.User)
	assert.Len(t, got.Sidebar, len(domain.DefaultSidebar))
}

func TestChromeState_Toggles(t *testing.T) {
	s := NewChromeState()
	assert.False(t, s.Snapshot().Authenticated)

	s.Authenticated(&domain.Profile{FirstName: "علي", Role: domain.RoleFarmer})
	snap := s.Snapshot()
	assert.True(t, snap.Authenticated)
	assert.Equal(t, "مزارع", snap.User.RoleLabel)

	snap.User.FullName = "changed"
	assert.Equal(t, "علي", s.Snapshot().User.FullName)

	s.Guest()
	assert.False(t, s.Snapshot().Authenticated)
}
