package entity

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"severkey-server/internal/store"
)

// Licenses is the license collection. On top of the generic store it owns
// key generation, the revoke transition and the read-time expiry rule.
//
// Key uniqueness is tracked for the life of the store: once issued, a key
// stays reserved even after its license is deleted, so keys are never
// reused.
type Licenses struct {
	col *store.Collection[License]

	keyMu     sync.Mutex
	knownKeys map[string]struct{}

	// now is swappable in tests for deterministic expiry checks.
	now func() time.Time
}

func NewLicenses(opts store.Options) *Licenses {
	return &Licenses{
		col:       store.NewCollection[License]("licenses", opts),
		knownKeys: make(map[string]struct{}),
		now:       time.Now,
	}
}

// EnsureSeed populates an empty collection with the starter licenses.
func (s *Licenses) EnsureSeed() (int, error) {
	n, err := s.col.EnsureSeed(seedLicenses)
	if n > 0 {
		s.reserveExistingKeys()
	}
	return n, err
}

// Create inserts a license for the given product with a fresh key, active
// status and the creation timestamp set. The product reference is advisory
// and deliberately not validated against the product collection.
func (s *Licenses) Create(productID string, expiresAt *int64, metadata map[string]any) (License, error) {
	if metadata == nil {
		metadata = map[string]any{}
	}

	l := License{
		ID:        "lic_" + uuid.New().String(),
		ProductID: productID,
		Key:       s.uniqueKey(),
		Status:    StatusActive,
		ExpiresAt: expiresAt,
		Metadata:  metadata,
		CreatedAt: s.now().UnixMilli(),
	}

	created, err := s.col.Create(l)
	if err != nil {
		return License{}, err
	}
	return s.effective(created), nil
}

// Revoke terminally marks a license as banned and returns the updated
// record. Revoking an already banned license is a no-op returning the
// record as-is, not an error. Fails with store.ErrNotFound when absent.
func (s *Licenses) Revoke(id string) (License, error) {
	l, err := s.col.Update(id, func(l License) License {
		l.Status = StatusBanned
		return l
	})
	if err != nil {
		return License{}, err
	}
	return l, nil
}

// Get returns the license with its effective status applied.
func (s *Licenses) Get(id string) (License, error) {
	l, err := s.col.Get(id)
	if err != nil {
		return License{}, err
	}
	return s.effective(l), nil
}

// List pages through licenses with effective statuses applied.
func (s *Licenses) List(cursor string, limit int) store.Page[License] {
	page := s.col.List(cursor, limit)
	for i := range page.Items {
		page.Items[i] = s.effective(page.Items[i])
	}
	return page
}

func (s *Licenses) Exists(id string) bool { return s.col.Exists(id) }
func (s *Licenses) Delete(id string) bool { return s.col.Delete(id) }
func (s *Licenses) DeleteMany(ids []string) int { return s.col.DeleteMany(ids) }
func (s *Licenses) Len() int { return s.col.Len() }

// Collection exposes the underlying store for restore wiring. Call
// ReserveExistingKeys after a restore so issued keys stay reserved.
func (s *Licenses) Collection() *store.Collection[License] { return s.col }

// ReserveExistingKeys registers every stored key in the uniqueness index.
func (s *Licenses) ReserveExistingKeys() { s.reserveExistingKeys() }

// effective applies the read-time expiry rule: a stored active license
// whose expiry has passed reads as expired. Storage is never mutated by
// this; banned and expired are already terminal.
func (s *Licenses) effective(l License) License {
	if l.Status == StatusActive && l.ExpiresAt != nil && *l.ExpiresAt <= s.now().UnixMilli() {
		l.Status = StatusExpired
	}
	return l
}

// uniqueKey generates a key not seen before by this store and reserves it.
func (s *Licenses) uniqueKey() string {
	s.keyMu.Lock()
	defer s.keyMu.Unlock()

	for {
		key := GenerateKey()
		if _, taken := s.knownKeys[key]; !taken {
			s.knownKeys[key] = struct{}{}
			return key
		}
	}
}

func (s *Licenses) reserveExistingKeys() {
	s.keyMu.Lock()
	defer s.keyMu.Unlock()
	for _, l := range s.col.All() {
		s.knownKeys[l.Key] = struct{}{}
	}
}
