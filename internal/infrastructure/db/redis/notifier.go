package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rashad-agri/marketplace/internal/core/domain"
)

// Notifier carries auth events between processes over Redis pub/sub, one
// channel per session.
type Notifier struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewNotifier(client *redis.Client, log zerolog.Logger) *Notifier {
	return &Notifier{client: client, log: log.With().Str("component", "auth_notifier").Logger()}
}

// Publish sends ev on the channel of sid.
func (n *Notifier) Publish(ctx context.Context, sid string, ev domain.AuthEvent) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode auth event: %w", err)
	}
	if err := n.client.Publish(ctx, eventChannel(sid), raw).Err(); err != nil {
		return fmt.Errorf("publish auth event: %w", err)
	}
	return nil
}

// Listen subscribes to every session channel and passes each event to
// handle until ctx is done. Malformed messages are logged and skipped.
func (n *Notifier) Listen(ctx context.Context, handle func(sid string, ev domain.AuthEvent)) error {
	ps := n.client.PSubscribe(ctx, channelPattern)
	defer ps.Close()

	// Receive blocks until the subscription is confirmed.
	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe auth events: %w", err)
	}
	n.log.Info().Str("pattern", channelPattern).Msg("listening for auth events")

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			sid, ev, err := decodeNotice(msg.Channel, msg.Payload)
			if err != nil {
				n.log.Warn().Err(err).Str("channel", msg.Channel).Msg("dropping auth event")
				continue
			}
			handle(sid, ev)
		}
	}
}

func decodeNotice(channel, payload string) (string, domain.AuthEvent, error) {
	sid, ok := sessionFromChannel(channel)
	if !ok {
		return "", domain.AuthEvent{}, fmt.Errorf("unexpected channel %q", channel)
	}
	var ev domain.AuthEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return "", domain.AuthEvent{}, fmt.Errorf("decode auth event: %w", err)
	}
	switch ev.Type {
	case domain.EventSignedIn, domain.EventSignedOut, domain.EventUserUpdated:
	default:
		return "", domain.AuthEvent{}, fmt.Errorf("unknown auth event %q", ev.Type)
	}
	return sid, ev, nil
}
