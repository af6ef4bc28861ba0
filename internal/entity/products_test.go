package entity

import (
	"testing"

	"github.com/rs/zerolog"

	"severkey-server/internal/store"
)

func TestProductCreate(t *testing.T) {
	s := NewProducts(store.Options{Logger: zerolog.Nop()})

	p, err := s.Create("Pro", "Full access", 2999)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.ID == "" || p.CreatedAt == 0 {
		t.Errorf("generated fields missing: %+v", p)
	}
	if p.Price != 2999 {
		t.Errorf("price = %d, want 2999", p.Price)
	}

	if _, err := s.Create("Bad", "negative", -1); err == nil {
		t.Error("negative price must be rejected")
	}
}

func TestProductSeed(t *testing.T) {
	s := NewProducts(store.Options{Logger: zerolog.Nop()})

	n, err := s.EnsureSeed()
	if err != nil || n != 5 {
		t.Fatalf("EnsureSeed: n=%d err=%v, want 5 plans", n, err)
	}

	page := s.List("", 10)
	if len(page.Items) != 5 || page.Items[0].Name != "Pro Plan" {
		t.Errorf("seeded products = %+v", page.Items)
	}
	for _, p := range page.Items {
		if p.Price < 0 {
			t.Errorf("seed product %s has negative price", p.ID)
		}
	}
}
