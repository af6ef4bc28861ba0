// Package entity defines the admin dashboard's record types and their
// typed collections over the generic store.
package entity

import (
	"errors"
	"fmt"
)

// User is an admin console account reference.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (u User) RecordID() string { return u.ID }

func (u User) ValidateStored() error {
	if u.Name == "" {
		return errors.New("user requires name")
	}
	return nil
}

// ChatMessage is one entry in a chat's append-only message sequence,
// ordered by Ts ascending (insertion order).
type ChatMessage struct {
	ID     string `json:"id"`
	ChatID string `json:"chatId"`
	UserID string `json:"userId"`
	Text   string `json:"text"`
	Ts     int64  `json:"ts"` // epoch millis
}

// Chat owns its message sequence; the whole board is stored as one record.
type Chat struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Messages []ChatMessage `json:"messages"`
}

func (c Chat) RecordID() string { return c.ID }

func (c Chat) ValidateStored() error {
	if c.Title == "" {
		return errors.New("chat requires title")
	}
	return nil
}

// ChatSummary is the creation response shape: the board without messages.
type ChatSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Product is a sellable plan that licenses reference.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"` // minor currency units, never negative
	CreatedAt   int64  `json:"createdAt"`
}

func (p Product) RecordID() string { return p.ID }

func (p Product) ValidateStored() error {
	if p.Name == "" {
		return errors.New("product requires name")
	}
	if p.Price < 0 {
		return fmt.Errorf("product price must not be negative, got %d", p.Price)
	}
	return nil
}

// LicenseStatus is the stored license state.
//
// State machine: active -> banned (revoke, terminal) and active -> expired
// (time-derived at read, not reversible). Neither terminal state ever
// transitions back to active.
type LicenseStatus string

const (
	StatusActive  LicenseStatus = "active"
	StatusExpired LicenseStatus = "expired"
	StatusBanned  LicenseStatus = "banned"
)

func (s LicenseStatus) valid() bool {
	switch s {
	case StatusActive, StatusExpired, StatusBanned:
		return true
	}
	return false
}

// License is a product key with status and optional expiry. ProductID is an
// advisory reference: it is not validated against the product collection.
type License struct {
	ID        string         `json:"id"`
	ProductID string         `json:"productId"`
	Key       string         `json:"key"`
	Status    LicenseStatus  `json:"status"`
	ExpiresAt *int64         `json:"expiresAt"` // epoch millis, nil = never
	Metadata  map[string]any `json:"metadata"`
	CreatedAt int64          `json:"createdAt"`
}

func (l License) RecordID() string { return l.ID }

func (l License) ValidateStored() error {
	if l.Key == "" {
		return errors.New("license requires key")
	}
	if l.ProductID == "" {
		return errors.New("license requires productId")
	}
	if !l.Status.valid() {
		return fmt.Errorf("unknown license status %q", l.Status)
	}
	return nil
}
