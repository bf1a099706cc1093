// pkg/memcache/revoked_tokens.go
package mem

import (
	"context"
	"sync"
	"time"
)

// RevokedTokenStore remembers signed-out token ids until they would have
// expired anyway.
type RevokedTokenStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type entry struct {
	expiresAt time.Time
}

type RevokedTokens struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

func NewRevokedTokens() *RevokedTokens {
	return &RevokedTokens{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

func (s *RevokedTokens) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[tokenID] = entry{expiresAt: s.now().Add(ttl)}
	s.sweepLocked()
	return nil
}

func (s *RevokedTokens) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.RLock()
	e, ok := s.data[tokenID]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.data, tokenID)
		s.mu.Unlock()
		return false, nil
	}
	return true, nil
}

// sweepLocked drops expired entries; callers hold mu.
func (s *RevokedTokens) sweepLocked() {
	now := s.now()
	for id, e := range s.data {
		if now.After(e.expiresAt) {
			delete(s.data, id)
		}
	}
}
