package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rashad-agri/marketplace/internal/core/domain"
)

type recorder struct {
	mu   sync.Mutex
	seen map[string][]domain.AuthEventType
	n    int
}

func (r *recorder) Deliver(_ context.Context, sid string, ev domain.AuthEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seen == nil {
		r.seen = make(map[string][]domain.AuthEventType)
	}
	r.seen[sid] = append(r.seen[sid], ev.Type)
	r.n++
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

type depths struct {
	mu   sync.Mutex
	hits int
}

func (d *depths) ObserveQueueDepth(string, int) {
	d.mu.Lock()
	d.hits++
	d.mu.Unlock()
}

func TestShardIndex_Deterministic(t *testing.T) {
	d := NewDispatcher(4, &recorder{}, nil, zerolog.Nop())
	for _, sid := range []string{"a", "b", "session-123", ""} {
		i := d.shardIndex(sid)
		assert.Equal(t, i, d.shardIndex(sid))
		assert.GreaterOrEqual(t, i, 0)
		assert.Less(t, i, 4)
	}
}

func TestNewDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, &recorder{}, nil, zerolog.Nop())
	assert.Len(t, d.workers, defaultWorkers)
}

func TestDispatcher_PreservesPerSessionOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := &recorder{}
	obs := &depths{}
	d := NewDispatcher(3, rec, obs, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	for i, ch := range d.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.runWorker(ctx, i, ch)
		}()
	}

	order := []domain.AuthEventType{domain.EventSignedIn, domain.EventUserUpdated, domain.EventSignedOut}
	const sessions = 10
	route := d.Route(ctx)
	for _, typ := range order {
		for s := 0; s < sessions; s++ {
			route(fmt.Sprintf("s%d", s), domain.AuthEvent{Type: typ})
		}
	}

	require.Eventually(t, func() bool { return rec.count() == sessions*len(order) }, time.Second, 5*time.Millisecond)
	cancel()
	wg.Wait()

	for s := 0; s < sessions; s++ {
		assert.Equal(t, order, rec.seen[fmt.Sprintf("s%d", s)])
	}
	obs.mu.Lock()
	assert.Equal(t, 2*sessions*len(order), obs.hits)
	obs.mu.Unlock()
}

func TestEnqueue_GivesUpWhenContextDone(t *testing.T) {
	d := NewDispatcher(1, &recorder{}, nil, zerolog.Nop())
	for i := 0; i < channelBuffer; i++ {
		require.True(t, d.Enqueue(context.Background(), Notice{SessionID: "s"}))
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, d.Enqueue(ctx, Notice{SessionID: "s"}))
}
