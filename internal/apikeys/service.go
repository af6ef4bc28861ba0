// Package apikeys holds the dashboard's API key registry. Keys live in an
// injected in-memory service for the life of the process; when Vault is
// configured the secret material is mirrored there as well.
package apikeys

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"severkey-server/internal/vault"
)

// APIKey is one issued key. The Key field carries the full secret; the
// admin UI is the sole consumer of this registry.
type APIKey struct {
	ID        string `json:"id"`
	Key       string `json:"key"`
	CreatedAt int64  `json:"createdAt"`
}

// Service is the process-wide key registry. It starts with one seeded key
// and grows only through Mint. Mutations are serialized; reads return
// copies.
type Service struct {
	mu     sync.RWMutex
	keys   []APIKey
	vault  *vault.Client
	logger zerolog.Logger
}

// NewService builds the registry with its starter key. The Vault client
// may be nil when secret mirroring is not wanted.
func NewService(vc *vault.Client, logger zerolog.Logger) *Service {
	s := &Service{
		vault:  vc,
		logger: logger.With().Str("component", "apikeys").Logger(),
	}
	seed := APIKey{
		ID:        uuid.New().String(),
		Key:       newKeyMaterial(),
		CreatedAt: time.Now().UnixMilli() - 5*24*60*60*1000,
	}
	s.keys = []APIKey{seed}
	return s
}

// List returns all issued keys in creation order.
func (s *Service) List() []APIKey {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]APIKey, len(s.keys))
	copy(out, s.keys)
	return out
}

// Mint issues a new key and appends it to the registry. When Vault is
// enabled the secret is mirrored there; a mirror failure is logged but does
// not fail the mint, the in-memory registry stays authoritative.
func (s *Service) Mint(ctx context.Context) APIKey {
	key := APIKey{
		ID:        uuid.New().String(),
		Key:       newKeyMaterial(),
		CreatedAt: time.Now().UnixMilli(),
	}

	s.mu.Lock()
	s.keys = append(s.keys, key)
	s.mu.Unlock()

	if s.vault != nil {
		if err := s.vault.StoreSecret(ctx, key.ID, key.Key); err != nil {
			s.logger.Warn().Err(err).Str("id", key.ID).Msg("failed to mirror api key to vault")
		}
	}

	return key
}

func newKeyMaterial() string {
	return "sk_live_" + strings.ReplaceAll(uuid.New().String(), "-", "")
}
