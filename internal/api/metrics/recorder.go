package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/rashad-agri/marketplace/internal/core/domain"
	"github.com/rashad-agri/marketplace/internal/core/ports"
)

// Recorder feeds the package metrics from the observer hooks of the core and
// the dispatcher.
type Recorder struct{}

var (
	_ ports.CallObserver    = Recorder{}
	_ ports.SessionObserver = Recorder{}
	_ ports.BusyIndicator   = Recorder{}
)

func (Recorder) ObserveCall(op string, ok bool, elapsed time.Duration) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	BackendCallsTotal.WithLabelValues(op, outcome).Inc()
	BackendCallDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (Recorder) ObserveAuthEvent(event domain.AuthEventType) {
	AuthEventsTotal.WithLabelValues(string(event)).Inc()
}

func (Recorder) ObserveProfileLoad(outcome string) {
	ProfileLoadsTotal.WithLabelValues(outcome).Inc()
}

// Busy counts trigger as in flight until the returned func is called. Extra
// calls to the func are ignored.
func (Recorder) Busy(_ context.Context, trigger string) func() {
	g := FormsInFlight.WithLabelValues(trigger)
	g.Inc()
	var once sync.Once
	return func() { once.Do(g.Dec) }
}

func (Recorder) ObserveQueueDepth(worker string, depth int) {
	DispatchQueueDepth.WithLabelValues(worker).Set(float64(depth))
}
