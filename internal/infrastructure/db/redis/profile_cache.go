package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rashad-agri/marketplace/internal/core/domain"
	"github.com/rashad-agri/marketplace/internal/core/ports"
)

// ProfileCache stores the profile of one session as JSON under
// session:<sid>:rashadUser.
type ProfileCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

var _ ports.ProfileCache = (*ProfileCache)(nil)

// NewProfileCache returns the cache of session sid. A zero ttl keeps
// entries until deleted.
func NewProfileCache(client *redis.Client, sid string, ttl time.Duration) *ProfileCache {
	return &ProfileCache{client: client, key: profileKey(sid), ttl: ttl}
}

func (c *ProfileCache) Save(ctx context.Context, p *domain.Profile) error {
	raw, err := encodeProfile(p)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache profile: %w", err)
	}
	return nil
}

func (c *ProfileCache) Load(ctx context.Context) (*domain.Profile, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cached profile: %w", err)
	}
	return decodeProfile(raw)
}

func (c *ProfileCache) Delete(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("delete cached profile: %w", err)
	}
	return nil
}

func encodeProfile(p *domain.Profile) ([]byte, error) {
	if p == nil {
		return nil, errors.New("encode profile: nil profile")
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	return raw, nil
}

func decodeProfile(raw []byte) (*domain.Profile, error) {
	var p domain.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &p, nil
}
