package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spacesedan/reviewpulse/internal/models"
)

const keyPrefix = "reviewpulse:session:"

// KV is the key/value surface ValkeyStore needs. clients.ValkeyClient
// implements it.
type KV interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
}

// ValkeyStore keeps each session as a JSON document so that several
// server instances can share sessions.
type ValkeyStore struct {
	kv  KV
	ttl time.Duration
}

func NewValkeyStore(kv KV, ttl time.Duration) *ValkeyStore {
	return &ValkeyStore{kv: kv, ttl: ttl}
}

func Key(id string) string {
	return keyPrefix + id
}

func (s *ValkeyStore) Get(ctx context.Context, id string) (*models.SessionContext, error) {
	raw, found, err := s.kv.Get(ctx, Key(id))
	if err != nil {
		return nil, fmt.Errorf("[SessionStore] get %s: %w", id, err)
	}
	if !found {
		return nil, nil
	}

	var sc models.SessionContext
	if err := json.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("[SessionStore] decode %s: %w", id, err)
	}
	return &sc, nil
}

func (s *ValkeyStore) Put(ctx context.Context, id string, sc *models.SessionContext) error {
	raw, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("[SessionStore] encode %s: %w", id, err)
	}
	if err := s.kv.Set(ctx, Key(id), raw, s.ttl); err != nil {
		return fmt.Errorf("[SessionStore] put %s: %w", id, err)
	}
	return nil
}
