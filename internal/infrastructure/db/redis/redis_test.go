package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rashad-agri/marketplace/internal/core/domain"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "auth:token:s1", tokenKey("s1"))
	assert.Equal(t, "auth:sessions:u1", userSessionsKey("u1"))
	assert.Equal(t, "session:s1:rashadUser", profileKey("s1"))
	assert.Equal(t, "auth:s1", eventChannel("s1"))
}

func TestSessionFromChannel(t *testing.T) {
	sid, ok := sessionFromChannel("auth:abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", sid)

	_, ok = sessionFromChannel("auth:")
	assert.False(t, ok)
	_, ok = sessionFromChannel("other:abc")
	assert.False(t, ok)
}

func TestProfileRoundTrip(t *testing.T) {
	in := &domain.Profile{
		ID:        "u1",
		Email:     "a@b.sd",
		FirstName: "أحمد",
		LastName:  "علي",
		Role:      domain.RoleSupplier,
		State:     "كسلا",
		Phone:     "0912",
		IsActive:  true,
	}
	raw, err := encodeProfile(in)
	require.NoError(t, err)

	out, err := decodeProfile(raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEncodeProfile_Nil(t *testing.T) {
	_, err := encodeProfile(nil)
	assert.Error(t, err)
}

func TestDecodeProfile_Garbage(t *testing.T) {
	_, err := decodeProfile([]byte("{"))
	assert.Error(t, err)
}

func TestDecodeNotice(t *testing.T) {
	payload := `{"event":"SIGNED_IN","session":{"access_token":"t","expires_at":"2026-01-01T00:00:00Z","user":{"id":"u1","email":"a@b.sd","user_metadata":{},"created_at":"2025-01-01T00:00:00Z"}}}`

	sid, ev, err := decodeNotice("auth:s1", payload)
	require.NoError(t, err)
	assert.Equal(t, "s1", sid)
	assert.Equal(t, domain.EventSignedIn, ev.Type)
	assert.Equal(t, "u1", ev.UserID())
	assert.True(t, ev.Session.ExpiresAt.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestDecodeNotice_Rejects(t *testing.T) {
	cases := map[string]struct{ channel, payload string }{
		"bad channel":   {"news:s1", `{"event":"SIGNED_OUT"}`},
		"bad json":      {"auth:s1", `{`},
		"unknown event": {"auth:s1", `{"event":"TOKEN_REFRESHED"}`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := decodeNotice(tc.channel, tc.payload)
			assert.Error(t, err)
		})
	}
}
