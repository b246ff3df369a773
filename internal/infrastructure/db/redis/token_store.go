package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore keeps the access token of each session and the sessions of
// each user.
type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// Put stores token for sid with ttl and records sid under uid.
func (s *TokenStore) Put(ctx context.Context, sid, uid, token string, ttl time.Duration) error {
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, tokenKey(sid), token, ttl)
		p.SAdd(ctx, userSessionsKey(uid), sid)
		p.Expire(ctx, userSessionsKey(uid), ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

// Get returns the token of sid, or "" when none is stored.
func (s *TokenStore) Get(ctx context.Context, sid string) (string, error) {
	tok, err := s.client.Get(ctx, tokenKey(sid)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	return tok, nil
}

// Delete removes the token of sid. uid may be empty when unknown.
func (s *TokenStore) Delete(ctx context.Context, sid, uid string) error {
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, tokenKey(sid))
		if uid != "" {
			p.SRem(ctx, userSessionsKey(uid), sid)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// Sessions lists the session ids signed in as uid.
func (s *TokenStore) Sessions(ctx context.Context, uid string) ([]string, error) {
	ids, err := s.client.SMembers(ctx, userSessionsKey(uid)).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return ids, nil
}
