package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rashad-agri/marketplace/internal/core/domain"
)

func TestHub_DeliversToSessionOnly(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := h.Subscribe(ctx, "a")
	b := h.Subscribe(ctx, "b")

	h.Deliver(ctx, "a", domain.AuthEvent{Type: domain.EventSignedOut})

	select {
	case ev := <-a:
		assert.Equal(t, domain.EventSignedOut, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("no event on a")
	}
	select {
	case ev := <-b:
		t.Fatalf("unexpected event on b: %v", ev)
	default:
	}
}

func TestHub_UnsubscribesOnCancel(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	h.Subscribe(ctx, "a")
	require.Equal(t, 1, h.Subscribers("a"))

	cancel()
	assert.Eventually(t, func() bool { return h.Subscribers("a") == 0 }, time.Second, 5*time.Millisecond)
}

func TestHub_DeliverReleasedByCancelledSubscriber(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := NewHub()
	subCtx, cancel := context.WithCancel(context.Background())
	h.Subscribe(subCtx, "a")

	for i := 0; i < subscriptionBuffer; i++ {
		h.Deliver(context.Background(), "a", domain.AuthEvent{Type: domain.EventUserUpdated})
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Deliver(context.Background(), "a", domain.AuthEvent{Type: domain.EventUserUpdated})
	}()

	select {
	case <-done:
		t.Fatal("deliver to a full subscriber returned early")
	case <-time.After(20 * time.Millisecond):
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("deliver still blocked after unsubscribe")
	}
}

func TestClient_StreamsOwnSessionEvents(t *testing.T) {
	tp := newTestProvider(t)
	tp.register(t, "a@rashad.sd")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := NewClient("s1", tp.Provider, tp.hub)
	events, err := c.OnAuthStateChange(ctx)
	require.NoError(t, err)

	_, err = c.SignIn(ctx, "a@rashad.sd", "secret1")
	require.NoError(t, err)
	require.NoError(t, c.SignOut(ctx))

	var got []domain.AuthEventType
	for len(got) < 2 {
		select {
		case ev := <-events:
			got = append(got, ev.Type)
		case <-time.After(time.Second):
			t.Fatalf("timed out after %v", got)
		}
	}
	assert.Equal(t, []domain.AuthEventType{domain.EventSignedIn, domain.EventSignedOut}, got)

	id, err := c.GetUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, id)
}
