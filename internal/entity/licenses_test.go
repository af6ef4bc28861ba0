package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"severkey-server/internal/store"
)

func newLicenses(t *testing.T) *Licenses {
	t.Helper()
	return NewLicenses(store.Options{Logger: zerolog.Nop()})
}

func TestGenerateKeyFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		key := GenerateKey()
		if !KeyPattern.MatchString(key) {
			t.Fatalf("GenerateKey produced %q, want match for %s", key, KeyPattern)
		}
	}
}

func TestGenerateKeyCollisionFreedom(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		key := GenerateKey()
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate key after %d samples: %s", i, key)
		}
		seen[key] = struct{}{}
	}
}

func TestLicenseCreateDefaults(t *testing.T) {
	s := newLicenses(t)

	l, err := s.Create("prod_1", nil, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if l.Status != StatusActive {
		t.Errorf("status = %s, want active", l.Status)
	}
	if !KeyPattern.MatchString(l.Key) {
		t.Errorf("key = %q, want display format", l.Key)
	}
	if l.ExpiresAt != nil {
		t.Errorf("expiresAt = %v, want nil (never)", *l.ExpiresAt)
	}
	if l.Metadata == nil {
		t.Error("metadata must default to an empty map")
	}
	if l.CreatedAt == 0 {
		t.Error("createdAt not set")
	}
	if l.ProductID != "prod_1" {
		t.Errorf("productId = %q", l.ProductID)
	}
}

func TestLicenseKeysUniqueAcrossStoreLifetime(t *testing.T) {
	s := newLicenses(t)

	l, err := s.Create("prod_1", nil, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Deleting a license must not release its key for reuse.
	s.Delete(l.ID)
	s.keyMu.Lock()
	_, stillReserved := s.knownKeys[l.Key]
	s.keyMu.Unlock()
	if !stillReserved {
		t.Error("deleted license's key was released")
	}
}

func TestRevokeTerminal(t *testing.T) {
	s := newLicenses(t)
	created, err := s.Create("prod_1", nil, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	revoked, err := s.Revoke(created.ID)
	if err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if revoked.Status != StatusBanned {
		t.Errorf("status after revoke = %s, want banned", revoked.Status)
	}

	// Second revoke is a no-op returning the banned record, not an error.
	again, err := s.Revoke(created.ID)
	if err != nil {
		t.Fatalf("second Revoke failed: %v", err)
	}
	if again.Status != StatusBanned {
		t.Errorf("status after double revoke = %s, want banned", again.Status)
	}

	if _, err := s.Revoke("lic_missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Revoke of missing license: got %v, want ErrNotFound", err)
	}
}

func TestRevokeOverridesExpired(t *testing.T) {
	s := newLicenses(t)
	past := time.Now().Add(-time.Hour).UnixMilli()

	l, err := s.Create("prod_1", &past, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := s.Get(l.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != StatusExpired {
		t.Fatalf("pre-revoke status = %s, want expired", got.Status)
	}

	// Revoke moves to banned regardless of the read-time expiry.
	revoked, err := s.Revoke(l.ID)
	if err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if revoked.Status != StatusBanned {
		t.Errorf("status = %s, want banned", revoked.Status)
	}
}

func TestEffectiveStatusExpiry(t *testing.T) {
	s := newLicenses(t)
	future := time.Now().Add(time.Hour).UnixMilli()

	l, err := s.Create("prod_1", &future, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, _ := s.Get(l.ID)
	if got.Status != StatusActive {
		t.Fatalf("status before expiry = %s, want active", got.Status)
	}

	// Move the clock past the expiry; status derives as expired at read
	// time while storage still holds active.
	s.now = func() time.Time { return time.UnixMilli(future + 1) }

	got, _ = s.Get(l.ID)
	if got.Status != StatusExpired {
		t.Errorf("status after expiry = %s, want expired", got.Status)
	}

	stored, err := s.col.Get(l.ID)
	if err != nil {
		t.Fatalf("raw Get failed: %v", err)
	}
	if stored.Status != StatusActive {
		t.Errorf("stored status mutated to %s, storage must stay active", stored.Status)
	}

	page := s.List("", 10)
	if page.Items[0].Status != StatusExpired {
		t.Errorf("List status = %s, want expired", page.Items[0].Status)
	}
}

func TestLicenseSeedDistribution(t *testing.T) {
	s := newLicenses(t)
	n, err := s.EnsureSeed()
	if err != nil {
		t.Fatalf("EnsureSeed failed: %v", err)
	}
	if n != 10 {
		t.Fatalf("seeded %d licenses, want 10", n)
	}

	counts := map[LicenseStatus]int{}
	for _, l := range s.col.All() {
		counts[l.Status]++
		if !KeyPattern.MatchString(l.Key) {
			t.Errorf("seed key %q does not match display format", l.Key)
		}
		if l.ProductID == "" {
			t.Error("seed license missing product reference")
		}
	}
	if counts[StatusActive] != 4 || counts[StatusExpired] != 3 || counts[StatusBanned] != 3 {
		t.Errorf("status distribution = %v, want 4 active / 3 expired / 3 banned", counts)
	}

	if n, _ := s.EnsureSeed(); n != 0 {
		t.Errorf("second EnsureSeed inserted %d records", n)
	}
}
