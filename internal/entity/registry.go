package entity

import (
	"context"

	"severkey-server/internal/store"
)

// Registry bundles the four entity collections behind one injected value.
// Collections are explicit instances owned by the process, mutated only
// through their serialized store paths, and reset only on restart.
type Registry struct {
	Users    *Users
	Chats    *Chats
	Products *Products
	Licenses *Licenses

	seedEnabled bool
}

// NewRegistry builds the collections with shared store options.
func NewRegistry(opts store.Options, seedEnabled bool) *Registry {
	return &Registry{
		Users:       NewUsers(opts),
		Chats:       NewChats(opts),
		Products:    NewProducts(opts),
		Licenses:    NewLicenses(opts),
		seedEnabled: seedEnabled,
	}
}

// SeedEnabled reports whether lazy seeding is switched on.
func (r *Registry) SeedEnabled() bool { return r.seedEnabled }

// Restore reloads every collection from its snapshot, if the store options
// carried a snapshotter, and rebuilds the license key index.
func (r *Registry) Restore(ctx context.Context) error {
	if err := r.Users.Collection().Restore(ctx); err != nil {
		return err
	}
	if err := r.Chats.Collection().Restore(ctx); err != nil {
		return err
	}
	if err := r.Products.Collection().Restore(ctx); err != nil {
		return err
	}
	if err := r.Licenses.Collection().Restore(ctx); err != nil {
		return err
	}
	r.Licenses.ReserveExistingKeys()
	return nil
}
